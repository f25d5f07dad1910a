package ebitenhost

import (
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/phanxgames/replay"
)

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save", "store.yaml")
	s, err := openFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.SetItem("best", "12"))
	require.NoError(t, s.SetItem("name", "ada: lovelace"))

	reopened, err := openFileStore(path)
	require.NoError(t, err)
	var got string
	var found bool
	require.NoError(t, reopened.GetItem("name", func(v string, ok bool) { got, found = v, ok }))
	assert.True(t, found)
	assert.Equal(t, "ada: lovelace", got)

	require.NoError(t, reopened.GetItem("missing", func(v string, ok bool) { got, found = v, ok }))
	assert.False(t, found)
	assert.Empty(t, got)
}

func TestFileStoreSetStoreReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	s, err := openFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem("old", "1"))
	require.NoError(t, s.SetStore(map[string]string{"new": "2"}))

	var all map[string]string
	require.NoError(t, s.GetStore(func(m map[string]string) { all = m }))
	assert.Equal(t, map[string]string{"new": "2"}, all)

	all["new"] = "mutated"
	require.NoError(t, s.GetStore(func(m map[string]string) { all = m }))
	assert.Equal(t, "2", all["new"], "GetStore hands out a copy")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreInMemory(t *testing.T) {
	s, err := openFileStore("")
	require.NoError(t, err)
	require.NoError(t, s.SetItem("k", "v"))
	require.NoError(t, s.SetStore(nil))
	var all map[string]string
	require.NoError(t, s.GetStore(func(m map[string]string) { all = m }))
	assert.Empty(t, all)
}

func TestFileStoreBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o644))
	_, err := openFileStore(path)
	assert.ErrorContains(t, err, "parse storage")
}

func TestHTTPNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(append([]byte(r.Method+" "), body...))
	}))
	defer srv.Close()

	n := &httpNetwork{client: srv.Client(), log: zap.NewNop()}
	done := make(chan replay.Response, 1)
	require.NoError(t, n.Post(srv.URL, []byte("hello"), func(r replay.Response) { done <- r }))

	select {
	case r := <-done:
		require.NoError(t, r.Err)
		assert.Equal(t, http.StatusCreated, r.Status)
		assert.Equal(t, "POST hello", string(r.Body))
	case <-time.After(5 * time.Second):
		t.Fatal("no response")
	}
}

func TestHTTPNetworkErrors(t *testing.T) {
	n := &httpNetwork{client: &http.Client{Timeout: time.Second}, log: zap.NewNop()}
	assert.Error(t, n.Get("://bad url", func(replay.Response) {}))

	done := make(chan replay.Response, 1)
	require.NoError(t, n.Get("http://127.0.0.1:1/unreachable", func(r replay.Response) { done <- r }))
	select {
	case r := <-done:
		assert.Error(t, r.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("no response")
	}
}

func TestLogAlert(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := logAlert{log: zap.New(core), okCancel: false}

	called := false
	a.OK("saved", func() { called = true })
	assert.True(t, called)

	var answer = true
	a.OKCancel("quit?", func(ok bool) { answer = ok })
	assert.False(t, answer)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "quit?", logs.All()[1].ContextMap()["message"])
}

func TestAssetPath(t *testing.T) {
	assert.Equal(t, filepath.Join("assets", "a.png"), assetPath("assets", "a.png"))
	abs := filepath.Join(t.TempDir(), "b.png")
	assert.Equal(t, abs, assetPath("assets", abs))

	_, err := readAsset(t.TempDir(), "nope.wav")
	assert.ErrorContains(t, err, "read asset")
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "unlabeled", sanitizeLabel("  "))
	assert.Equal(t, "game_over-1.final", sanitizeLabel("game over-1.final"))
	assert.Equal(t, "a_b_c", sanitizeLabel("a/b\\c"))
}

func TestUnpremultiplyAndWritePNG(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128, // half transparent
		10, 20, 30, 255, // opaque
	}
	img := unpremultiply(pixels, 2, 1)
	assert.Equal(t, []uint8{255, 127, 0, 128}, img.Pix[0:4])
	assert.Equal(t, []uint8{10, 20, 30, 255}, img.Pix[4:8])

	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, writePNG(path, img))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 1), decoded.Bounds())
}
