package replaytest

import (
	"fmt"
	"maps"
	"time"

	"github.com/phanxgames/replay"
)

// NetworkMocks maps URLs to canned responses. A request whose URL has no
// entry fails with ErrNoMockResponse.
type NetworkMocks struct {
	Get    map[string]func() replay.Response
	Put    map[string]func(body []byte) replay.Response
	Post   map[string]func(body []byte) replay.Response
	Delete map[string]func() replay.Response
}

// --- Recorders ---

// NetworkCall is one recorded request.
type NetworkCall struct {
	Method string
	URL    string
	Body   []byte
}

// NetworkRecorder records requests and answers them from mocks.
type NetworkRecorder struct {
	Calls []NetworkCall
	mocks NetworkMocks
}

func (n *NetworkRecorder) Get(url string, cb func(replay.Response)) error {
	n.Calls = append(n.Calls, NetworkCall{Method: "GET", URL: url})
	mock, ok := n.mocks.Get[url]
	if !ok {
		return fmt.Errorf("%w: GET %s", ErrNoMockResponse, url)
	}
	cb(mock())
	return nil
}

func (n *NetworkRecorder) Put(url string, body []byte, cb func(replay.Response)) error {
	n.Calls = append(n.Calls, NetworkCall{Method: "PUT", URL: url, Body: body})
	mock, ok := n.mocks.Put[url]
	if !ok {
		return fmt.Errorf("%w: PUT %s", ErrNoMockResponse, url)
	}
	cb(mock(body))
	return nil
}

func (n *NetworkRecorder) Post(url string, body []byte, cb func(replay.Response)) error {
	n.Calls = append(n.Calls, NetworkCall{Method: "POST", URL: url, Body: body})
	mock, ok := n.mocks.Post[url]
	if !ok {
		return fmt.Errorf("%w: POST %s", ErrNoMockResponse, url)
	}
	cb(mock(body))
	return nil
}

func (n *NetworkRecorder) Delete(url string, cb func(replay.Response)) error {
	n.Calls = append(n.Calls, NetworkCall{Method: "DELETE", URL: url})
	mock, ok := n.mocks.Delete[url]
	if !ok {
		return fmt.Errorf("%w: DELETE %s", ErrNoMockResponse, url)
	}
	cb(mock())
	return nil
}

// MemoryStore is an in-memory Storage. Its Items can be seeded and
// inspected directly by tests.
type MemoryStore struct {
	Items map[string]string
	Sets  int
}

func (s *MemoryStore) GetItem(key string, cb func(string, bool)) error {
	v, ok := s.Items[key]
	cb(v, ok)
	return nil
}

func (s *MemoryStore) SetItem(key, value string) error {
	if s.Items == nil {
		s.Items = map[string]string{}
	}
	s.Items[key] = value
	s.Sets++
	return nil
}

func (s *MemoryStore) GetStore(cb func(map[string]string)) error {
	cb(maps.Clone(s.Items))
	return nil
}

func (s *MemoryStore) SetStore(store map[string]string) error {
	s.Items = maps.Clone(store)
	s.Sets++
	return nil
}

// AudioPlayer is a recorded sound. Position advances with simulated time
// while playing.
type AudioPlayer struct {
	FileName string
	Plays    []replay.PlayOptions
	Pauses   int
	Playing  bool
	position float64
}

func (a *AudioPlayer) Play(opts replay.PlayOptions) {
	a.Plays = append(a.Plays, opts)
	if opts.FromPosition >= 0 {
		a.position = opts.FromPosition
	}
	a.Playing = true
}

func (a *AudioPlayer) Pause() {
	a.Pauses++
	a.Playing = false
}

func (a *AudioPlayer) Position() float64 { return a.position }

func (a *AudioPlayer) advance(deltaMS float64) {
	if a.Playing {
		a.position += deltaMS / 1000
	}
}

// AudioRecorder hands out one AudioPlayer per file name.
type AudioRecorder struct {
	players map[string]*AudioPlayer
	order   []string
}

// Player returns the recorder for fileName, or nil if the game never
// asked for it.
func (r *AudioRecorder) Player(fileName string) *AudioPlayer {
	return r.players[fileName]
}

// Played reports whether fileName was played at least once.
func (r *AudioRecorder) Played(fileName string) bool {
	p := r.players[fileName]
	return p != nil && len(p.Plays) > 0
}

func (r *AudioRecorder) get(fileName string) *AudioPlayer {
	if p, ok := r.players[fileName]; ok {
		return p
	}
	if r.players == nil {
		r.players = map[string]*AudioPlayer{}
	}
	p := &AudioPlayer{FileName: fileName}
	r.players[fileName] = p
	r.order = append(r.order, fileName)
	return p
}

func (r *AudioRecorder) advance(deltaMS float64) {
	for _, name := range r.order {
		r.players[name].advance(deltaMS)
	}
}

// AlertRecorder records dialogs and answers OKCancel with Response.
type AlertRecorder struct {
	OKMessages       []string
	OKCancelMessages []string
	// Response answers OKCancel dialogs. Defaults to true.
	Response bool
}

func (a *AlertRecorder) OK(message string, onResponse func()) {
	a.OKMessages = append(a.OKMessages, message)
	onResponse()
}

func (a *AlertRecorder) OKCancel(message string, onResponse func(bool)) {
	a.OKCancelMessages = append(a.OKCancelMessages, message)
	onResponse(a.Response)
}

// ClipboardRecorder records copied text. Err, when set, fails every copy.
type ClipboardRecorder struct {
	Copied []string
	Err    error
}

func (c *ClipboardRecorder) Copy(text string, onComplete func(error)) {
	if c.Err == nil {
		c.Copied = append(c.Copied, text)
	}
	onComplete(c.Err)
}

// LogRecorder records Device.Log calls, formatted with fmt.Sprint.
type LogRecorder struct {
	Lines []string
}

// --- Platform ---

// mockPlatform implements replay.Platform on the recorders.
type mockPlatform struct {
	h *Harness

	randoms []float64
	next    int
	start   time.Time
	size    replay.DeviceSize
	touch   bool
}

func (p *mockPlatform) Random() float64 {
	v := p.randoms[p.next%len(p.randoms)]
	p.next++
	return v
}

func (p *mockPlatform) Now() time.Time {
	return p.start.Add(time.Duration(p.h.timeMS * float64(time.Millisecond)))
}

func (p *mockPlatform) Log(args ...any) {
	p.h.Logs.Lines = append(p.h.Logs.Lines, fmt.Sprint(args...))
}

func (p *mockPlatform) Size() replay.DeviceSize { return p.size }
func (p *mockPlatform) IsTouchScreen() bool     { return p.touch }

func (p *mockPlatform) Audio(fileName string) replay.AudioPlayer {
	return p.h.Audio.get(fileName)
}

func (p *mockPlatform) Network() replay.Network     { return p.h.Network }
func (p *mockPlatform) Storage() replay.Storage     { return p.h.Storage }
func (p *mockPlatform) Clipboard() replay.Clipboard { return p.h.Clipboard }
func (p *mockPlatform) Alert() replay.Alert         { return p.h.Alerts }
