package replay

import (
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

// frameMS is one frame at 60 fps.
const frameMS = 1000.0 / 60

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertStrings(t *testing.T, name string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %q, want %q", name, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s = %q, want %q", name, got, want)
		}
	}
}

// --- Stub platform ---

type stubPlatform struct {
	randoms []float64
	next    int
	logs    [][]any
	store   map[string]string
	// respond, when set, completes network calls synchronously.
	respond func(method, url string) Response
}

func newStubPlatform() *stubPlatform {
	return &stubPlatform{randoms: []float64{0.5}, store: map[string]string{}}
}

func (p *stubPlatform) Random() float64 {
	v := p.randoms[p.next%len(p.randoms)]
	p.next++
	return v
}

func (p *stubPlatform) Now() time.Time           { return time.Unix(0, 0) }
func (p *stubPlatform) Log(args ...any)          { p.logs = append(p.logs, args) }
func (p *stubPlatform) Size() DeviceSize         { return DeviceSize{Width: 300, Height: 200} }
func (p *stubPlatform) IsTouchScreen() bool      { return false }
func (p *stubPlatform) Audio(string) AudioPlayer { return stubAudio{} }
func (p *stubPlatform) Network() Network         { return stubNetwork{p} }
func (p *stubPlatform) Storage() Storage         { return stubStorage{p} }
func (p *stubPlatform) Clipboard() Clipboard     { return stubClipboard{} }
func (p *stubPlatform) Alert() Alert             { return stubAlert{} }

type stubAudio struct{}

func (stubAudio) Play(PlayOptions)  {}
func (stubAudio) Pause()            {}
func (stubAudio) Position() float64 { return 0 }

type stubNetwork struct{ p *stubPlatform }

func (n stubNetwork) do(method, url string, cb func(Response)) error {
	r := Response{Status: 200}
	if n.p.respond != nil {
		r = n.p.respond(method, url)
	}
	cb(r)
	return nil
}

func (n stubNetwork) Get(url string, cb func(Response)) error { return n.do("GET", url, cb) }
func (n stubNetwork) Put(url string, _ []byte, cb func(Response)) error {
	return n.do("PUT", url, cb)
}
func (n stubNetwork) Post(url string, _ []byte, cb func(Response)) error {
	return n.do("POST", url, cb)
}
func (n stubNetwork) Delete(url string, cb func(Response)) error { return n.do("DELETE", url, cb) }

type stubStorage struct{ p *stubPlatform }

func (s stubStorage) GetItem(key string, cb func(string, bool)) error {
	v, ok := s.p.store[key]
	cb(v, ok)
	return nil
}

func (s stubStorage) SetItem(key, value string) error {
	s.p.store[key] = value
	return nil
}

func (s stubStorage) GetStore(cb func(map[string]string)) error {
	cb(s.p.store)
	return nil
}

func (s stubStorage) SetStore(store map[string]string) error {
	s.p.store = store
	return nil
}

type stubClipboard struct{}

func (stubClipboard) Copy(_ string, onComplete func(error)) { onComplete(nil) }

type stubAlert struct{}

func (stubAlert) OK(_ string, onResponse func())           { onResponse() }
func (stubAlert) OKCancel(_ string, onResponse func(bool)) { onResponse(true) }

// --- Engine helpers ---

func newTestEngine(t *testing.T, root Sprite, opts Options) *Engine {
	t.Helper()
	e, err := New(root, newStubPlatform(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// stepFrames runs n frames of frameMS each with no input.
func stepFrames(t *testing.T, e *Engine, n int) []Texture {
	t.Helper()
	var out []Texture
	for i := 0; i < n; i++ {
		var err error
		out, err = e.RunNextFrame(e.lastTS+frameMS, Inputs{})
		if err != nil {
			t.Fatalf("frame %d: %v", e.Frame(), err)
		}
	}
	return out
}

// staticRoot returns a root definition whose Render calls render.
func staticRoot(render func() []Sprite) *Definition[struct{}, struct{}] {
	return &Definition[struct{}, struct{}]{
		Name: "Root",
		Render: func(RenderArgs[struct{}, struct{}]) []Sprite {
			return render()
		},
	}
}

// lifecycleLog records lifecycle calls by global ID.
type lifecycleLog struct {
	inits    []string
	loops    []string
	cleanups []string
}

// tracked returns a definition that logs into l and renders a rectangle
// tagged with its global ID plus whatever children returns.
func (l *lifecycleLog) tracked(name string, children func(props int) []Sprite) *Definition[int, int] {
	return &Definition[int, int]{
		Name: name,
		Init: func(a InitArgs[int, int]) int {
			l.inits = append(l.inits, a.GlobalID)
			return 0
		},
		Loop: func(a LoopArgs[int, int]) int {
			l.loops = append(l.loops, a.GlobalID)
			return a.State + 1
		},
		Render: func(a RenderArgs[int, int]) []Sprite {
			out := []Sprite{Rectangle(10, 10, ColorWhite).Tagged(a.GlobalID)}
			if children != nil {
				out = append(out, children(a.Props)...)
			}
			return out
		},
		Cleanup: func(a CleanupArgs[int, int]) {
			l.cleanups = append(l.cleanups, a.GlobalID)
		},
	}
}

func testIDs(textures []Texture) []string {
	ids := make([]string, len(textures))
	for i, tex := range textures {
		ids[i] = tex.TestID
	}
	return ids
}

func count(list []string, s string) int {
	n := 0
	for _, v := range list {
		if v == s {
			n++
		}
	}
	return n
}
