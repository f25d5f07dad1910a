package replay

import (
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase is the engine's position within a frame.
type Phase uint8

const (
	PhaseIdle        Phase = iota // between frames
	PhaseLooping                  // running Loop callbacks
	PhaseReconciling              // Init, Render, matching and Cleanup
	PhaseRendering                // flattening the tree into textures
)

func (p Phase) String() string {
	switch p {
	case PhaseLooping:
		return "loop"
	case PhaseReconciling:
		return "reconcile"
	case PhaseRendering:
		return "render"
	default:
		return "idle"
	}
}

// Options configure an Engine.
type Options struct {
	// NativeSprites holds the host's native sprite implementations.
	NativeSprites NativeSpriteMap
	// Timestamp is the clock value of the initial frame, in milliseconds.
	Timestamp float64
	// StrictIDs fails the frame with ErrDuplicateID instead of logging a
	// warning when siblings share an ID.
	StrictIDs bool
	// Debug logs per-frame stats and tree shape warnings.
	Debug bool
	// Events, when set, receives every instance creation and removal.
	Events EventSink
	// TimerIDs, when set, generates the IDs returned by Timer.Start.
	// Defaults to random UUIDs.
	TimerIDs func() TimerID
}

type stateUpdate struct {
	inst  *instance
	apply func(any) any
}

// Engine owns a sprite instance tree and advances it one frame at a time.
// Its methods must be called from a single goroutine; device completions
// may arrive from any goroutine and are held until the next frame.
type Engine struct {
	opts     Options
	root     *instance
	device   *device
	timers   *timerQueue
	queue    *deferredQueue

	scope   Scope
	phase   Phase
	current *instance

	frame     int
	lastTS    float64
	timeMS    float64
	deltaMS   float64
	inputs    Inputs
	textures  []Texture
	fx        SideEffects
	instances int
	closed    bool

	updMu   sync.Mutex
	updates []stateUpdate

	stats debugStats
}

// New creates an engine for root and runs the initial frame: every sprite
// in the tree is initialised and rendered, and the first texture list is
// built. Loop callbacks first run on the next frame.
func New(root Sprite, platform Platform, opts Options) (*Engine, error) {
	if root.Kind != KindCustom || root.def == nil {
		return nil, ErrInvalidRoot
	}
	if platform == nil {
		return nil, errors.New("replay: nil platform")
	}
	e := &Engine{
		opts:   opts,
		timers: newTimerQueue(opts.TimerIDs),
		queue:  &deferredQueue{},
		lastTS: opts.Timestamp,
	}
	e.device = &device{Platform: platform, timers: e.timers, queue: e.queue}
	e.root = e.newInstance(nil, root)

	if err := e.step(e.traverse); err != nil {
		return nil, err
	}
	return e, nil
}

// RunNextFrame advances simulated time to timestampMS and runs one frame
// with the given inputs. A timestamp earlier than the previous one counts
// as zero elapsed time. A callback panic aborts the frame and is returned
// as a *FrameError.
func (e *Engine) RunNextFrame(timestampMS float64, inputs Inputs) ([]Texture, error) {
	if e.closed {
		return nil, ErrEngineClosed
	}
	delta := timestampMS - e.lastTS
	if delta < 0 || math.IsNaN(delta) {
		delta = 0
	}
	e.lastTS = timestampMS
	e.frame++
	e.deltaMS = delta
	e.timeMS += delta
	e.inputs = inputs

	err := e.step(func() {
		e.boundary(delta)
		e.traverse()
	})
	if err != nil {
		return nil, err
	}
	return e.textures, nil
}

// step runs fn as one frame, recovering callback panics into a FrameError.
func (e *Engine) step(fn func()) (err error) {
	e.fx = SideEffects{}
	defer func() {
		if r := recover(); r != nil {
			fe := newFrameError(e.frame, e.current, e.phase, r)
			logger.Error("frame aborted",
				zap.Int("frame", fe.Frame),
				zap.String("sprite", fe.GlobalID),
				zap.Stringer("phase", fe.Phase),
				zap.Any("panic", r))
			err = fe
		}
		e.phase = PhaseIdle
		e.current = nil
	}()
	fn()
	return nil
}

// boundary fires due timers, then deferred device callbacks, then applies
// queued state updates in the order they were made.
func (e *Engine) boundary(delta float64) {
	e.phase = PhaseIdle
	e.current = nil
	e.timers.fire(delta)
	for _, fn := range e.queue.drain() {
		fn()
	}

	e.updMu.Lock()
	updates := e.updates
	e.updates = nil
	e.updMu.Unlock()

	for _, u := range updates {
		if u.inst.removed {
			continue
		}
		e.current = u.inst
		u.inst.state = u.apply(u.inst.state)
	}
	e.current = nil
}

// traverse visits the whole tree and rebuilds the texture list.
func (e *Engine) traverse() {
	start := time.Now()
	e.scope.reset()
	e.visit(e.root, nil)
	visited := time.Now()

	e.phase = PhaseRendering
	e.current = nil
	e.textures = e.flatten(make([]Texture, 0, len(e.textures)), e.root)

	if e.opts.Debug {
		e.stats = debugStats{
			frame:        e.frame,
			visitTime:    visited.Sub(start),
			flattenTime:  time.Since(visited),
			instances:    e.instances,
			textures:     len(e.textures),
			timers:       e.timers.len(),
			created:      len(e.fx.Created),
			removed:      len(e.fx.Removed),
			pendingState: e.pendingUpdates(),
		}
		e.debugLog(e.stats)
	}
}

func (e *Engine) enqueue(inst *instance, apply func(any) any) {
	e.updMu.Lock()
	e.updates = append(e.updates, stateUpdate{inst: inst, apply: apply})
	e.updMu.Unlock()
}

func (e *Engine) pendingUpdates() int {
	e.updMu.Lock()
	defer e.updMu.Unlock()
	return len(e.updates)
}

// Close tears the tree down, running every Cleanup leaves first. Further
// frames return ErrEngineClosed. Calling Close twice is a no-op.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.step(func() { e.destroy(e.root) })
}

// Textures returns the texture list of the most recent frame.
func (e *Engine) Textures() []Texture { return e.textures }

// Frame returns the number of frames run after the initial one.
func (e *Engine) Frame() int { return e.frame }

// Phase returns the current frame phase; PhaseIdle between frames.
func (e *Engine) Phase() Phase { return e.phase }

// TimeMS returns the total simulated time elapsed since the initial frame.
func (e *Engine) TimeMS() float64 { return e.timeMS }

// LastSideEffects returns the lifecycle calls made by the most recent
// frame, or by Close.
func (e *Engine) LastSideEffects() SideEffects { return e.fx }

// Device returns the device handed to sprites. Hosts and tests can use it to
// start timers outside sprite callbacks.
func (e *Engine) Device() Device { return e.device }
