package ebitenhost

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/phanxgames/replay"
)

// desktop implements replay.Platform for a windowed process.
type desktop struct {
	log   *zap.Logger
	sugar *zap.SugaredLogger
	rng   *rand.Rand

	view  func() viewport
	touch bool

	sounds  *soundBank
	network *httpNetwork
	store   *fileStore
	clip    desktopClipboard
	alerts  logAlert
}

func newDesktop(cfg *Config, log *zap.Logger, view func() viewport) (*desktop, error) {
	store, err := openFileStore(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	now := uint64(time.Now().UnixNano())
	return &desktop{
		log:     log,
		sugar:   log.Named("game").Sugar(),
		rng:     rand.New(rand.NewPCG(now, now>>17|1)),
		view:    view,
		sounds:  newSoundBank(log, cfg.Assets.Dir),
		network: &httpNetwork{client: &http.Client{Timeout: cfg.Network.Timeout}, log: log},
		store:   store,
		alerts:  logAlert{log: log, okCancel: cfg.Alert.OKCancel},
	}, nil
}

func (d *desktop) Random() float64     { return d.rng.Float64() }
func (d *desktop) Now() time.Time      { return time.Now() }
func (d *desktop) Log(args ...any)     { d.sugar.Info(args...) }
func (d *desktop) IsTouchScreen() bool { return d.touch }

func (d *desktop) Size() replay.DeviceSize { return d.view().size() }

func (d *desktop) Audio(fileName string) replay.AudioPlayer { return d.sounds.player(fileName) }

func (d *desktop) Network() replay.Network     { return d.network }
func (d *desktop) Storage() replay.Storage     { return d.store }
func (d *desktop) Clipboard() replay.Clipboard { return d.clip }
func (d *desktop) Alert() replay.Alert         { return d.alerts }

// httpNetwork issues requests on their own goroutines. The engine queues
// the callbacks until the next frame boundary.
type httpNetwork struct {
	client *http.Client
	log    *zap.Logger
}

func (n *httpNetwork) Get(url string, cb func(replay.Response)) error {
	return n.do(http.MethodGet, url, nil, cb)
}

func (n *httpNetwork) Put(url string, body []byte, cb func(replay.Response)) error {
	return n.do(http.MethodPut, url, body, cb)
}

func (n *httpNetwork) Post(url string, body []byte, cb func(replay.Response)) error {
	return n.do(http.MethodPost, url, body, cb)
}

func (n *httpNetwork) Delete(url string, cb func(replay.Response)) error {
	return n.do(http.MethodDelete, url, nil, cb)
}

func (n *httpNetwork) do(method, url string, body []byte, cb func(replay.Response)) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	go func() {
		resp := n.send(req)
		if resp.Err != nil {
			n.log.Debug("request failed", zap.String("method", method), zap.String("url", url), zap.Error(resp.Err))
		}
		cb(resp)
	}()
	return nil
}

func (n *httpNetwork) send(req *http.Request) replay.Response {
	res, err := n.client.Do(req)
	if err != nil {
		return replay.Response{Err: err}
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	return replay.Response{Status: res.StatusCode, Body: data, Err: err}
}

// desktopClipboard writes through the system clipboard off the frame
// goroutine.
type desktopClipboard struct{}

func (desktopClipboard) Copy(text string, onComplete func(error)) {
	go func() {
		err := clipboard.WriteAll(text)
		if err != nil {
			err = fmt.Errorf("clipboard: %w", err)
		}
		onComplete(err)
	}()
}

// logAlert has no dialog surface: it logs the message and answers at once.
type logAlert struct {
	log      *zap.Logger
	okCancel bool
}

func (a logAlert) OK(message string, onResponse func()) {
	a.log.Info("alert", zap.String("message", message))
	onResponse()
}

func (a logAlert) OKCancel(message string, onResponse func(bool)) {
	a.log.Info("alert", zap.String("message", message), zap.Bool("ok", a.okCancel))
	onResponse(a.okCancel)
}

// assetPath resolves name against the asset directory unless absolute.
func assetPath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

func readAsset(dir, name string) ([]byte, error) {
	path := assetPath(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", path, err)
	}
	return data, nil
}
