// Package replaytest runs a replay sprite tree deterministically for tests.
//
// A Harness replaces every device service with a recorder or mock, steps
// simulated time by exactly one 60 fps frame per NextFrame, and feeds
// randomness from a fixed round-robin sequence, so the same test always
// produces the same frames.
//
//	h, err := replaytest.New(game.Root(), replaytest.Options{})
//	require.NoError(t, err)
//	h.Click(0, 0)
//	require.NoError(t, h.JumpToFrame(replaytest.Until(func() bool {
//		return h.TextureExists("gameOver")
//	})))
package replaytest

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/phanxgames/replay"
)

// FrameMS is the simulated duration of one NextFrame.
const FrameMS = 1000.0 / 60

// MaxJumpFrames bounds JumpToFrame: 1000 simulated seconds at 60 fps.
const MaxJumpFrames = 60000

var (
	// ErrNotFound is returned by texture lookups that match nothing.
	ErrNotFound = errors.New("replaytest: not found")
	// ErrTimeout is returned when JumpToFrame exhausts MaxJumpFrames.
	ErrTimeout = errors.New("replaytest: timeout")
	// ErrNoMockResponse is returned by network calls without a mock.
	ErrNoMockResponse = errors.New("replaytest: no mock response")
)

// Options configure a Harness. The zero value is usable.
type Options struct {
	// Size defaults to a 300 x 500 game area with no margins.
	Size replay.DeviceSize
	// RandomNumbers seeds the round-robin random sequence. Defaults to 0.5.
	RandomNumbers []float64
	// Now is the wall-clock time at frame zero. Defaults to 2024-01-01 UTC.
	Now time.Time
	// Store seeds the storage recorder.
	Store         map[string]string
	Network       NetworkMocks
	NativeSprites replay.NativeSpriteMap
	IsTouchScreen bool
	StrictIDs     bool
	Debug         bool
	Events        replay.EventSink
}

// pointerEvent is one queued synthetic pointer state, consumed per frame.
type pointerEvent struct {
	x, y    float64
	pressed bool
}

// Harness drives a replay engine with deterministic time and devices.
type Harness struct {
	Audio     *AudioRecorder
	Network   *NetworkRecorder
	Storage   *MemoryStore
	Alerts    *AlertRecorder
	Clipboard *ClipboardRecorder
	Logs      *LogRecorder

	engine   *replay.Engine
	platform *mockPlatform

	timeMS      float64
	inputs      replay.Inputs
	prevPressed bool
	prevKeys    map[string]bool
	pending     []pointerEvent
	textures    []replay.Texture
	timers      int
}

// New creates a harness and runs the initial frame.
func New(root replay.Sprite, opts Options) (*Harness, error) {
	h := &Harness{
		Audio:     &AudioRecorder{},
		Network:   &NetworkRecorder{mocks: opts.Network},
		Storage:   &MemoryStore{Items: maps.Clone(opts.Store)},
		Alerts:    &AlertRecorder{Response: true},
		Clipboard: &ClipboardRecorder{},
		Logs:      &LogRecorder{},
		inputs:    replay.Inputs{Keys: map[string]bool{}},
	}
	if h.Storage.Items == nil {
		h.Storage.Items = map[string]string{}
	}

	p := &mockPlatform{
		h:       h,
		randoms: []float64{0.5},
		start:   opts.Now,
		size:    opts.Size,
		touch:   opts.IsTouchScreen,
	}
	if len(opts.RandomNumbers) > 0 {
		p.randoms = append([]float64(nil), opts.RandomNumbers...)
	}
	if p.start.IsZero() {
		p.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if p.size == (replay.DeviceSize{}) {
		p.size = replay.DeviceSize{Width: 300, Height: 500, DeviceWidth: 300, DeviceHeight: 500}
	}
	h.platform = p

	e, err := replay.New(root, p, replay.Options{
		NativeSprites: opts.NativeSprites,
		StrictIDs:     opts.StrictIDs,
		Debug:         opts.Debug,
		Events:        opts.Events,
		TimerIDs:      h.nextTimerID,
	})
	if err != nil {
		return nil, fmt.Errorf("replaytest: initial frame: %w", err)
	}
	h.engine = e
	h.textures = e.Textures()
	return h, nil
}

// nextTimerID numbers timers in start order so runs stay reproducible.
func (h *Harness) nextTimerID() replay.TimerID {
	h.timers++
	return replay.TimerID(fmt.Sprintf("timer-%d", h.timers))
}

// NextFrame advances simulated time by FrameMS and runs one frame. Pointer
// and key "just" flags are derived from the change since the previous frame.
func (h *Harness) NextFrame() error {
	if len(h.pending) > 0 {
		ev := h.pending[0]
		h.pending = h.pending[1:]
		h.inputs.Pointer.X = ev.x
		h.inputs.Pointer.Y = ev.y
		h.inputs.Pointer.Pressed = ev.pressed
	}

	in := h.frameInputs()
	h.timeMS += FrameMS
	tex, err := h.engine.RunNextFrame(h.timeMS, in)
	h.Audio.advance(FrameMS)
	if err != nil {
		return err
	}
	h.textures = tex
	return nil
}

// frameInputs snapshots the held inputs with this frame's transitions.
func (h *Harness) frameInputs() replay.Inputs {
	in := replay.Inputs{
		Pointer:          h.inputs.Pointer,
		Keys:             maps.Clone(h.inputs.Keys),
		JustPressedKeys:  map[string]bool{},
		JustReleasedKeys: map[string]bool{},
	}
	in.Pointer.JustPressed = in.Pointer.Pressed && !h.prevPressed
	in.Pointer.JustReleased = !in.Pointer.Pressed && h.prevPressed
	h.prevPressed = in.Pointer.Pressed

	for k, down := range in.Keys {
		if down && !h.prevKeys[k] {
			in.JustPressedKeys[k] = true
		}
	}
	for k, down := range h.prevKeys {
		if down && !in.Keys[k] {
			in.JustReleasedKeys[k] = true
		}
	}
	h.prevKeys = maps.Clone(in.Keys)
	return in
}

// Frames runs n frames, stopping at the first error.
func (h *Harness) Frames(n int) error {
	for i := 0; i < n; i++ {
		if err := h.NextFrame(); err != nil {
			return err
		}
	}
	return nil
}

// JumpToFrame runs frames until cond returns nil. Frame errors are returned
// immediately. After MaxJumpFrames it fails with ErrTimeout, including the
// last error cond returned.
func (h *Harness) JumpToFrame(cond func() error) error {
	var last error
	for i := 0; i < MaxJumpFrames; i++ {
		if err := h.NextFrame(); err != nil {
			return err
		}
		if last = cond(); last == nil {
			return nil
		}
	}
	return fmt.Errorf("%w after %d frames: %v", ErrTimeout, MaxJumpFrames, last)
}

// Until adapts a boolean predicate for JumpToFrame.
func Until(fn func() bool) func() error {
	return func() error {
		if fn() {
			return nil
		}
		return errors.New("condition not met")
	}
}

// --- Inputs ---

// UpdateInputs replaces the held input state used by subsequent frames.
// Just-pressed and just-released flags are ignored; they are derived.
func (h *Harness) UpdateInputs(in replay.Inputs) {
	h.inputs.Pointer = in.Pointer
	h.inputs.Keys = maps.Clone(in.Keys)
	if h.inputs.Keys == nil {
		h.inputs.Keys = map[string]bool{}
	}
}

// KeyDown holds key from the next frame on.
func (h *Harness) KeyDown(key string) { h.inputs.Keys[key] = true }

// KeyUp releases key from the next frame on.
func (h *Harness) KeyUp(key string) { delete(h.inputs.Keys, key) }

// Press queues a pointer press at (x, y), consumed by the next frame.
func (h *Harness) Press(x, y float64) {
	h.pending = append(h.pending, pointerEvent{x: x, y: y, pressed: true})
}

// Move queues a pointer move to (x, y) keeping the current button state.
func (h *Harness) Move(x, y float64) {
	pressed := h.inputs.Pointer.Pressed
	if n := len(h.pending); n > 0 {
		pressed = h.pending[n-1].pressed
	}
	h.pending = append(h.pending, pointerEvent{x: x, y: y, pressed: pressed})
}

// Release queues a pointer release at (x, y).
func (h *Harness) Release(x, y float64) {
	h.pending = append(h.pending, pointerEvent{x: x, y: y})
}

// Click queues a press followed by a release at the same point. Consumes
// two frames.
func (h *Harness) Click(x, y float64) {
	h.Press(x, y)
	h.Release(x, y)
}

// Drag queues a press at from, linearly interpolated moves, and a release
// at to. The sequence consumes frames frames, minimum 2.
func (h *Harness) Drag(from, to replay.Point, frames int) {
	if frames < 2 {
		frames = 2
	}
	h.Press(from.X, from.Y)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		h.pending = append(h.pending, pointerEvent{
			x:       from.X + (to.X-from.X)*t,
			y:       from.Y + (to.Y-from.Y)*t,
			pressed: true,
		})
	}
	h.Release(to.X, to.Y)
}

// Pending reports how many queued pointer events are not yet consumed.
func (h *Harness) Pending() int { return len(h.pending) }

// SetRandomNumbers replaces the random sequence. Values are returned round
// robin, starting from the first.
func (h *Harness) SetRandomNumbers(nums ...float64) {
	if len(nums) == 0 {
		panic("replaytest: SetRandomNumbers needs at least one value")
	}
	h.platform.randoms = append([]float64(nil), nums...)
	h.platform.next = 0
}

// SetAlertResponse sets the answer to OKCancel dialogs.
func (h *Harness) SetAlertResponse(ok bool) { h.Alerts.Response = ok }

// --- Textures ---

// Textures returns the most recent frame's textures.
func (h *Harness) Textures() []replay.Texture { return h.textures }

// GetTexture returns the first texture tagged testID.
func (h *Harness) GetTexture(testID string) (replay.Texture, error) {
	for _, t := range h.textures {
		if t.TestID == testID {
			return t, nil
		}
	}
	return replay.Texture{}, fmt.Errorf("%w: texture with test id %q", ErrNotFound, testID)
}

// TextureExists reports whether any texture is tagged testID.
func (h *Harness) TextureExists(testID string) bool {
	_, err := h.GetTexture(testID)
	return err == nil
}

// GetByText returns the first text texture whose text equals text.
func (h *Harness) GetByText(text string) (replay.Texture, error) {
	for _, t := range h.textures {
		if t.Type == replay.TextureText && t.Text == text {
			return t, nil
		}
	}
	return replay.Texture{}, fmt.Errorf("%w: text %q", ErrNotFound, text)
}

// --- Engine access ---

// Engine returns the underlying engine.
func (h *Harness) Engine() *replay.Engine { return h.engine }

// Frame returns the number of frames run after the initial one.
func (h *Harness) Frame() int { return h.engine.Frame() }

// TimeMS returns the simulated time.
func (h *Harness) TimeMS() float64 { return h.timeMS }

// Close tears the tree down.
func (h *Harness) Close() error { return h.engine.Close() }
