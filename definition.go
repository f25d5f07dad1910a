package replay

// UpdateStrategy selects how a definition's loop produces the next state.
type UpdateStrategy uint8

const (
	// UpdateReplace definitions return the next state from Loop.
	UpdateReplace UpdateStrategy = iota
	// UpdateMutate definitions mutate the retained *S in place; the engine
	// never replaces their state value.
	UpdateMutate
)

// definition is the type-erased view of a sprite definition used by the
// engine. Implementations are *Definition[P, S] and *MutableDefinition[P, S];
// pointer identity decides whether an instance can be reused.
type definition interface {
	name() string
	strategy() UpdateStrategy
	initState(a *callArgs) any
	loopState(a *callArgs, state any) any
	render(a *callArgs, state any) []Sprite
	cleanup(a *callArgs, state any)
	// rerender reports whether render must run for a props change. ok is
	// false when the definition does not opt in.
	rerender(prev, next any) (rerender, ok bool)
}

// callArgs carries everything the engine hands to a definition callback.
type callArgs struct {
	props    any
	device   Device
	scope    *Scope
	deltaMS  float64
	globalID string
	inputs   func() Inputs
	// enqueue queues a state transformation for the next frame boundary.
	enqueue func(apply func(state any) any)
}

// propsAs asserts v to P, returning the zero value for nil.
func propsAs[P any](v any) P {
	p, _ := v.(P)
	return p
}

// --- Replace strategy ---

// InitArgs are passed to Definition.Init.
type InitArgs[P, S any] struct {
	Props       P
	Device      Device
	Scope       *Scope
	GlobalID    string
	UpdateState func(func(S) S)
}

// LoopArgs are passed to Definition.Loop.
type LoopArgs[P, S any] struct {
	Props  P
	State  S
	Device Device
	Scope  *Scope
	// DeltaMS is the simulated time since the previous frame.
	DeltaMS     float64
	GlobalID    string
	UpdateState func(func(S) S)

	inputs func() Inputs
}

// Inputs returns the current input snapshot with the pointer mapped into
// this sprite's local space.
func (a LoopArgs[P, S]) Inputs() Inputs {
	if a.inputs == nil {
		return Inputs{}
	}
	return a.inputs()
}

// RenderArgs are passed to Render.
type RenderArgs[P, S any] struct {
	Props    P
	State    S
	Device   Device
	Scope    *Scope
	GlobalID string
}

// CleanupArgs are passed to Cleanup.
type CleanupArgs[P, S any] struct {
	Props    P
	State    S
	Device   Device
	GlobalID string
}

// Definition describes a custom sprite whose Loop returns its next state.
// Declare definitions once as package-level pointers and create descriptors
// with Sprite; the engine matches instances by definition pointer.
//
//	var Player = &replay.Definition[PlayerProps, PlayerState]{
//		Name: "Player",
//		Init: func(a replay.InitArgs[PlayerProps, PlayerState]) PlayerState { ... },
//		Loop: func(a replay.LoopArgs[PlayerProps, PlayerState]) PlayerState { ... },
//		Render: func(a replay.RenderArgs[PlayerProps, PlayerState]) []replay.Sprite { ... },
//	}
type Definition[P, S any] struct {
	Name    string
	Init    func(InitArgs[P, S]) S
	Loop    func(LoopArgs[P, S]) S
	Render  func(RenderArgs[P, S]) []Sprite
	Cleanup func(CleanupArgs[P, S])

	// ShouldRerender is consulted on frames after the first. Returning false
	// reuses the previous frame's render output. Only opt in when Render
	// depends on props alone.
	ShouldRerender func(prev, next P) bool
}

// Sprite creates a descriptor for this definition.
func (d *Definition[P, S]) Sprite(id string, props P) Sprite {
	return Sprite{Kind: KindCustom, ID: id, BaseProps: DefaultBaseProps(), Props: props, def: d}
}

func (d *Definition[P, S]) name() string             { return d.Name }
func (d *Definition[P, S]) strategy() UpdateStrategy { return UpdateReplace }

func (d *Definition[P, S]) updater(a *callArgs) func(func(S) S) {
	return func(fn func(S) S) {
		a.enqueue(func(state any) any {
			return fn(propsAs[S](state))
		})
	}
}

func (d *Definition[P, S]) initState(a *callArgs) any {
	if d.Init == nil {
		var zero S
		return zero
	}
	return d.Init(InitArgs[P, S]{
		Props:       propsAs[P](a.props),
		Device:      a.device,
		Scope:       a.scope,
		GlobalID:    a.globalID,
		UpdateState: d.updater(a),
	})
}

func (d *Definition[P, S]) loopState(a *callArgs, state any) any {
	if d.Loop == nil {
		return state
	}
	return d.Loop(LoopArgs[P, S]{
		Props:       propsAs[P](a.props),
		State:       propsAs[S](state),
		Device:      a.device,
		Scope:       a.scope,
		DeltaMS:     a.deltaMS,
		GlobalID:    a.globalID,
		UpdateState: d.updater(a),
		inputs:      a.inputs,
	})
}

func (d *Definition[P, S]) render(a *callArgs, state any) []Sprite {
	if d.Render == nil {
		return nil
	}
	return d.Render(RenderArgs[P, S]{
		Props:    propsAs[P](a.props),
		State:    propsAs[S](state),
		Device:   a.device,
		Scope:    a.scope,
		GlobalID: a.globalID,
	})
}

func (d *Definition[P, S]) cleanup(a *callArgs, state any) {
	if d.Cleanup == nil {
		return
	}
	d.Cleanup(CleanupArgs[P, S]{
		Props:    propsAs[P](a.props),
		State:    propsAs[S](state),
		Device:   a.device,
		GlobalID: a.globalID,
	})
}

func (d *Definition[P, S]) rerender(prev, next any) (bool, bool) {
	if d.ShouldRerender == nil {
		return true, false
	}
	return d.ShouldRerender(propsAs[P](prev), propsAs[P](next)), true
}

// --- Mutate strategy ---

// MutableInitArgs are passed to MutableDefinition.Init.
type MutableInitArgs[P, S any] struct {
	Props       P
	Device      Device
	Scope       *Scope
	GlobalID    string
	UpdateState func(func(*S))
}

// MutableLoopArgs are passed to MutableDefinition.Loop.
type MutableLoopArgs[P, S any] struct {
	Props       P
	State       *S
	Device      Device
	Scope       *Scope
	DeltaMS     float64
	GlobalID    string
	UpdateState func(func(*S))

	inputs func() Inputs
}

// Inputs returns the current input snapshot with the pointer mapped into
// this sprite's local space.
func (a MutableLoopArgs[P, S]) Inputs() Inputs {
	if a.inputs == nil {
		return Inputs{}
	}
	return a.inputs()
}

// MutableDefinition describes a custom sprite whose state is a retained *S
// mutated in place by Loop.
type MutableDefinition[P, S any] struct {
	Name    string
	Init    func(MutableInitArgs[P, S]) *S
	Loop    func(MutableLoopArgs[P, S])
	Render  func(RenderArgs[P, *S]) []Sprite
	Cleanup func(CleanupArgs[P, *S])
}

// Sprite creates a descriptor for this definition.
func (d *MutableDefinition[P, S]) Sprite(id string, props P) Sprite {
	return Sprite{Kind: KindCustom, ID: id, BaseProps: DefaultBaseProps(), Props: props, def: d}
}

func (d *MutableDefinition[P, S]) name() string             { return d.Name }
func (d *MutableDefinition[P, S]) strategy() UpdateStrategy { return UpdateMutate }

func (d *MutableDefinition[P, S]) updater(a *callArgs) func(func(*S)) {
	return func(fn func(*S)) {
		a.enqueue(func(state any) any {
			if s, ok := state.(*S); ok && s != nil {
				fn(s)
			}
			return state
		})
	}
}

func (d *MutableDefinition[P, S]) initState(a *callArgs) any {
	if d.Init == nil {
		return new(S)
	}
	s := d.Init(MutableInitArgs[P, S]{
		Props:       propsAs[P](a.props),
		Device:      a.device,
		Scope:       a.scope,
		GlobalID:    a.globalID,
		UpdateState: d.updater(a),
	})
	if s == nil {
		s = new(S)
	}
	return s
}

func (d *MutableDefinition[P, S]) loopState(a *callArgs, state any) any {
	if d.Loop != nil {
		d.Loop(MutableLoopArgs[P, S]{
			Props:       propsAs[P](a.props),
			State:       propsAs[*S](state),
			Device:      a.device,
			Scope:       a.scope,
			DeltaMS:     a.deltaMS,
			GlobalID:    a.globalID,
			UpdateState: d.updater(a),
			inputs:      a.inputs,
		})
	}
	return state
}

func (d *MutableDefinition[P, S]) render(a *callArgs, state any) []Sprite {
	if d.Render == nil {
		return nil
	}
	return d.Render(RenderArgs[P, *S]{
		Props:    propsAs[P](a.props),
		State:    propsAs[*S](state),
		Device:   a.device,
		Scope:    a.scope,
		GlobalID: a.globalID,
	})
}

func (d *MutableDefinition[P, S]) cleanup(a *callArgs, state any) {
	if d.Cleanup == nil {
		return
	}
	d.Cleanup(CleanupArgs[P, *S]{
		Props:    propsAs[P](a.props),
		State:    propsAs[*S](state),
		Device:   a.device,
		GlobalID: a.globalID,
	})
}

func (d *MutableDefinition[P, S]) rerender(prev, next any) (bool, bool) {
	return true, false
}
