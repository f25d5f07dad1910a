package replay

import (
	"sync"
	"time"
)

// DeviceSize describes the logical game area and the platform margins
// around it, in game units.
type DeviceSize struct {
	Width, Height             float64
	WidthMargin, HeightMargin float64
	DeviceWidth, DeviceHeight float64
}

// Pointer is the primary pointer's state.
type Pointer struct {
	X, Y         float64
	Pressed      bool
	JustPressed  bool
	JustReleased bool
}

// Inputs is one frame's input snapshot. Key names follow the web
// KeyboardEvent.key convention ("ArrowUp", "a", " ").
type Inputs struct {
	Pointer          Pointer
	Keys             map[string]bool
	JustPressedKeys  map[string]bool
	JustReleasedKeys map[string]bool
}

// KeyDown reports whether key is held.
func (in Inputs) KeyDown(key string) bool { return in.Keys[key] }

// KeyJustPressed reports whether key went down this frame.
func (in Inputs) KeyJustPressed(key string) bool { return in.JustPressedKeys[key] }

// withPointer returns a copy of in with the pointer moved to p.
func (in Inputs) withPointer(p Point) Inputs {
	in.Pointer.X = p.X
	in.Pointer.Y = p.Y
	return in
}

// PlayOptions configure AudioPlayer.Play.
type PlayOptions struct {
	// FromPosition is the start offset in seconds. Negative resumes from the
	// current position.
	FromPosition float64
	Loop         bool
}

// AudioPlayer controls one sound file.
type AudioPlayer interface {
	Play(opts PlayOptions)
	Pause()
	// Position returns the playback position in seconds.
	Position() float64
}

// Response is the result of a network request.
type Response struct {
	Status int
	Body   []byte
	Err    error
}

// Network issues HTTP-style requests. Methods return an error only when the
// request cannot be issued; completion is reported through callback.
type Network interface {
	Get(url string, callback func(Response)) error
	Put(url string, body []byte, callback func(Response)) error
	Post(url string, body []byte, callback func(Response)) error
	Delete(url string, callback func(Response)) error
}

// Storage is a flat string key/value store.
type Storage interface {
	GetItem(key string, callback func(value string, found bool)) error
	SetItem(key, value string) error
	GetStore(callback func(map[string]string)) error
	SetStore(store map[string]string) error
}

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	Copy(text string, onComplete func(error))
}

// Alert shows blocking host dialogs.
type Alert interface {
	OK(message string, onResponse func())
	OKCancel(message string, onResponse func(ok bool))
}

// Platform is implemented by hosts. Everything a sprite can reach outside the
// engine goes through it.
type Platform interface {
	// Random returns a float in [0, 1).
	Random() float64
	Now() time.Time
	Log(args ...any)
	Size() DeviceSize
	IsTouchScreen() bool
	Audio(fileName string) AudioPlayer
	Network() Network
	Storage() Storage
	Clipboard() Clipboard
	Alert() Alert
}

// Device is handed to sprite callbacks. It is the Platform plus the
// engine-owned timers; callbacks registered through it run at the next frame
// boundary, never mid-frame.
type Device interface {
	Platform
	Timer() Timer
}

// deferredQueue holds device completions until the next frame boundary.
// Completions may arrive from host goroutines.
type deferredQueue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *deferredQueue) push(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

// drain removes and returns everything queued so far.
func (q *deferredQueue) drain() []func() {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	return fns
}

// device is the Device handed to sprites.
type device struct {
	Platform
	timers *timerQueue
	queue  *deferredQueue
}

func (d *device) Timer() Timer { return d.timers }

func (d *device) Network() Network {
	return deferredNetwork{inner: d.Platform.Network(), queue: d.queue}
}

func (d *device) Storage() Storage {
	return deferredStorage{inner: d.Platform.Storage(), queue: d.queue}
}

func (d *device) Clipboard() Clipboard {
	return deferredClipboard{inner: d.Platform.Clipboard(), queue: d.queue}
}

func (d *device) Alert() Alert {
	return deferredAlert{inner: d.Platform.Alert(), queue: d.queue}
}

// --- Deferring wrappers ---

type deferredNetwork struct {
	inner Network
	queue *deferredQueue
}

func (n deferredNetwork) wrap(cb func(Response)) func(Response) {
	return func(r Response) {
		if cb == nil {
			return
		}
		n.queue.push(func() { cb(r) })
	}
}

func (n deferredNetwork) Get(url string, cb func(Response)) error {
	return n.inner.Get(url, n.wrap(cb))
}

func (n deferredNetwork) Put(url string, body []byte, cb func(Response)) error {
	return n.inner.Put(url, body, n.wrap(cb))
}

func (n deferredNetwork) Post(url string, body []byte, cb func(Response)) error {
	return n.inner.Post(url, body, n.wrap(cb))
}

func (n deferredNetwork) Delete(url string, cb func(Response)) error {
	return n.inner.Delete(url, n.wrap(cb))
}

type deferredStorage struct {
	inner Storage
	queue *deferredQueue
}

func (s deferredStorage) GetItem(key string, cb func(string, bool)) error {
	return s.inner.GetItem(key, func(v string, found bool) {
		if cb != nil {
			s.queue.push(func() { cb(v, found) })
		}
	})
}

func (s deferredStorage) SetItem(key, value string) error {
	return s.inner.SetItem(key, value)
}

func (s deferredStorage) GetStore(cb func(map[string]string)) error {
	return s.inner.GetStore(func(m map[string]string) {
		if cb != nil {
			s.queue.push(func() { cb(m) })
		}
	})
}

func (s deferredStorage) SetStore(store map[string]string) error {
	return s.inner.SetStore(store)
}

type deferredClipboard struct {
	inner Clipboard
	queue *deferredQueue
}

func (c deferredClipboard) Copy(text string, onComplete func(error)) {
	c.inner.Copy(text, func(err error) {
		if onComplete != nil {
			c.queue.push(func() { onComplete(err) })
		}
	})
}

type deferredAlert struct {
	inner Alert
	queue *deferredQueue
}

func (a deferredAlert) OK(message string, onResponse func()) {
	a.inner.OK(message, func() {
		if onResponse != nil {
			a.queue.push(onResponse)
		}
	})
}

func (a deferredAlert) OKCancel(message string, onResponse func(bool)) {
	a.inner.OKCancel(message, func(ok bool) {
		if onResponse != nil {
			a.queue.push(func() { onResponse(ok) })
		}
	})
}
