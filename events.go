package replay

// LifecycleType identifies a lifecycle transition.
type LifecycleType uint8

const (
	LifecycleCreated LifecycleType = iota // instance initialised (Init or native Create)
	LifecycleRemoved                      // instance cleaned up
)

func (t LifecycleType) String() string {
	if t == LifecycleCreated {
		return "created"
	}
	return "removed"
}

// LifecycleEvent describes one instance being created or removed.
type LifecycleEvent struct {
	Type       LifecycleType
	Kind       SpriteKind
	GlobalID   string
	Definition string
	Frame      int
}

// EventSink is the interface for optional lifecycle observers. When set on
// Options, the engine forwards every create and remove in call order.
type EventSink interface {
	EmitLifecycle(event LifecycleEvent)
}

// SideEffects lists the lifecycle calls made during one frame, in order.
type SideEffects struct {
	Created    []string
	Removed    []string
	Duplicates []string
}

func (e *Engine) emit(t LifecycleType, inst *instance) {
	if e.opts.Events == nil {
		return
	}
	ev := LifecycleEvent{Type: t, Kind: inst.kind, GlobalID: inst.globalID, Frame: e.frame}
	if inst.def != nil {
		ev.Definition = inst.def.name()
	} else {
		ev.Definition = inst.nativeName
	}
	e.opts.Events.EmitLifecycle(ev)
}

func (e *Engine) recordCreated(inst *instance) {
	e.fx.Created = append(e.fx.Created, inst.globalID)
	e.emit(LifecycleCreated, inst)
}

func (e *Engine) recordRemoved(inst *instance) {
	e.fx.Removed = append(e.fx.Removed, inst.globalID)
	e.emit(LifecycleRemoved, inst)
}
