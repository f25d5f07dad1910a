package replay

import "go.uber.org/zap"

// globalIDSeparator joins ancestor IDs into a global ID.
const globalIDSeparator = "--"

// instance is the persistent counterpart of a custom or native descriptor.
// It survives across frames for as long as its parent keeps rendering a
// matching descriptor.
type instance struct {
	kind       SpriteKind
	id         string
	globalID   string
	parent     *instance
	def        definition
	nativeName string

	props any
	base  BaseProps
	state any

	// fresh is set until the instance has been initialised.
	fresh   bool
	removed bool

	// Resolved each frame during the visit.
	world [6]float64
	alpha float64
	// flipX is set when an odd number of ancestors (inclusive) mirror X.
	flipX bool

	// Render cache, reused when ShouldRerender returns false.
	rendered      []Sprite
	renderedProps any
	provided      []contextEntry
	hasRendered   bool

	// children in paint order, and the same set keyed by ID for matching.
	children []*instance
	byID     map[string]*instance
	// paint interleaves textures and children in declared order.
	paint []paintItem

	args *callArgs
}

// paintItem is one entry of a custom sprite's render output after
// reconciliation: either a texture descriptor or a matched child.
type paintItem struct {
	texture *Sprite
	child   *instance
}

func (e *Engine) newInstance(parent *instance, desc Sprite) *instance {
	inst := &instance{
		kind:       desc.Kind,
		id:         desc.ID,
		parent:     parent,
		def:        desc.def,
		nativeName: desc.nativeName,
		props:      desc.Props,
		base:       desc.BaseProps,
		fresh:      true,
	}
	if parent == nil {
		inst.globalID = desc.ID
		if inst.globalID == "" {
			inst.globalID = "Game"
		}
	} else {
		inst.globalID = parent.globalID + globalIDSeparator + desc.ID
	}
	inst.args = &callArgs{
		device:   e.device,
		scope:    &e.scope,
		globalID: inst.globalID,
		inputs:   func() Inputs { return e.localInputs(inst) },
		enqueue:  func(apply func(any) any) { e.enqueue(inst, apply) },
	}
	e.instances++
	return inst
}

func (inst *instance) parentID() string {
	if inst.parent == nil {
		return ""
	}
	return inst.parent.globalID
}

// matches reports whether desc can reuse inst: same kind and the same
// definition pointer or native name.
func (inst *instance) matches(desc Sprite) bool {
	if inst.kind != desc.Kind {
		return false
	}
	if inst.kind == KindNative {
		return inst.nativeName == desc.nativeName
	}
	return inst.def == desc.def
}

// reconcile matches the descriptors rendered by parent against its current
// children. Kept instances take the new props and transform, unmatched old
// instances are destroyed in their previous order, and new instances are
// created fresh. Initialisation happens later, when the child is visited.
func (e *Engine) reconcile(parent *instance, descs []Sprite) {
	e.phase = PhaseReconciling
	e.current = parent

	last := make(map[string]int, len(descs))
	for i := range descs {
		if descs[i].Kind != KindTexture {
			last[descs[i].ID] = i
		}
	}

	old := parent.byID
	next := make(map[string]*instance, len(last))
	children := make([]*instance, 0, len(last))
	paint := parent.paint[:0]

	for i := range descs {
		desc := &descs[i]
		if desc.Kind == KindTexture {
			paint = append(paint, paintItem{texture: desc})
			continue
		}
		if last[desc.ID] != i {
			e.duplicate(parent, desc.ID)
			continue
		}
		if desc.Kind == KindCustom && desc.def == nil {
			panic("replay: custom sprite " + desc.ID + " has no definition")
		}

		child, ok := old[desc.ID]
		if ok && child.matches(*desc) {
			child.props = desc.Props
			child.base = desc.BaseProps
		} else {
			child = e.newInstance(parent, *desc)
		}
		next[desc.ID] = child
		children = append(children, child)
		paint = append(paint, paintItem{child: child})
	}

	for _, child := range parent.children {
		if next[child.id] != child {
			e.destroy(child)
		}
	}

	if e.opts.Debug {
		debugCheckChildCount(parent, len(children))
	}

	parent.children = children
	parent.byID = next
	parent.paint = paint
	e.current = parent
}

// duplicate handles an earlier sibling descriptor shadowed by a later one
// with the same ID.
func (e *Engine) duplicate(parent *instance, id string) {
	gid := parent.globalID + globalIDSeparator + id
	e.fx.Duplicates = append(e.fx.Duplicates, gid)
	if e.opts.StrictIDs {
		panic(duplicateID(parent, id))
	}
	logger.Warn("duplicate sprite id, last one wins",
		zap.String("id", id),
		zap.String("parent", parent.globalID),
		zap.Int("frame", e.frame))
}

// destroy removes inst and its subtree. Descendants are cleaned up first,
// in their previous child order, then inst itself.
func (e *Engine) destroy(inst *instance) {
	if inst.removed {
		return
	}
	for _, child := range inst.children {
		e.destroy(child)
	}
	e.phase = PhaseReconciling
	e.current = inst
	inst.removed = true
	e.instances--

	if !inst.fresh {
		if inst.kind == KindNative {
			e.cleanupNative(inst)
		} else {
			inst.args.props = inst.props
			inst.def.cleanup(inst.args, inst.state)
		}
		e.recordRemoved(inst)
	}

	inst.children = nil
	inst.byID = nil
	inst.paint = nil
	inst.rendered = nil
	inst.provided = nil
}
