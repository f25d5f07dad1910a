package replay

// NativeArgs are passed to every NativeSpriteImpl callback.
type NativeArgs struct {
	Props          any
	GlobalID       string
	ParentGlobalID string
	Device         Device
	// Matrix maps the native sprite's local space to game space, so hosts can
	// position their widget.
	Matrix [6]float64
	// Opacity is the sprite's absolute opacity.
	Opacity float64
}

// NativeSpriteImpl is a host-provided widget. The engine treats its state as
// opaque and only guarantees sequencing: Create exactly once before any Loop,
// Loop once per frame while present, Cleanup exactly once after it leaves
// the tree with no Loop afterwards.
type NativeSpriteImpl struct {
	Create  func(args NativeArgs) any
	Loop    func(args NativeArgs, state any) any
	Cleanup func(args NativeArgs, state any)
}

// NativeSpriteMap maps native sprite names to implementations.
type NativeSpriteMap map[string]NativeSpriteImpl

func (e *Engine) nativeArgs(inst *instance) NativeArgs {
	return NativeArgs{
		Props:          inst.props,
		GlobalID:       inst.globalID,
		ParentGlobalID: inst.parentID(),
		Device:         e.device,
		Matrix:         inst.world,
		Opacity:        inst.alpha,
	}
}

// visitNative runs Create on the creation frame and Loop afterwards.
func (e *Engine) visitNative(inst *instance, created bool) {
	e.current = inst
	impl, ok := e.opts.NativeSprites[inst.nativeName]
	if !ok {
		panic(nativeMissing(inst))
	}
	args := e.nativeArgs(inst)
	if created {
		e.phase = PhaseReconciling
		if impl.Create != nil {
			inst.state = impl.Create(args)
		}
		e.recordCreated(inst)
		return
	}
	e.phase = PhaseLooping
	if impl.Loop != nil {
		inst.state = impl.Loop(args, inst.state)
	}
}

// cleanupNative runs the implementation's Cleanup.
func (e *Engine) cleanupNative(inst *instance) {
	impl, ok := e.opts.NativeSprites[inst.nativeName]
	if !ok || impl.Cleanup == nil {
		return
	}
	impl.Cleanup(e.nativeArgs(inst), inst.state)
}
