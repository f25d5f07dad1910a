package replay

// visit runs one instance's part of a frame: init or loop, render (or the
// cached render output), reconciliation of its children, then each child in
// declared order. Parents always run before their children.
func (e *Engine) visit(inst *instance, parent *instance) {
	e.resolve(inst, parent)
	fresh := inst.fresh
	inst.fresh = false

	if inst.kind == KindNative {
		e.visitNative(inst, fresh)
		return
	}

	e.current = inst
	e.scope.push()

	a := inst.args
	a.props = inst.props
	a.deltaMS = e.deltaMS

	if fresh {
		e.phase = PhaseReconciling
		inst.state = inst.def.initState(a)
		e.recordCreated(inst)
	} else {
		e.phase = PhaseLooping
		inst.state = inst.def.loopState(a, inst.state)
	}

	e.phase = PhaseReconciling
	e.current = inst
	if e.skipRender(inst) {
		e.scope.restore(inst.provided)
	} else {
		e.scope.rendering = true
		inst.rendered = inst.def.render(a, inst.state)
		e.scope.rendering = false
		inst.renderedProps = inst.props
		inst.hasRendered = true
		inst.provided = append(inst.provided[:0], e.scope.provided()...)
	}

	e.reconcile(inst, inst.rendered)
	for _, child := range inst.children {
		e.visit(child, inst)
	}

	e.scope.pop()
}

// skipRender consults the definition's ShouldRerender. The first render is
// never skipped.
func (e *Engine) skipRender(inst *instance) bool {
	if !inst.hasRendered {
		return false
	}
	rerender, ok := inst.def.rerender(inst.renderedProps, inst.props)
	return ok && !rerender
}

// resolve composes the instance's absolute transform and opacity from its
// parent's.
func (e *Engine) resolve(inst *instance, parent *instance) {
	local := localMatrix(inst.base)
	if parent == nil {
		inst.world = local
		inst.alpha = clampOpacity(inst.base.Opacity)
		inst.flipX = inst.base.ScaleX < 0
	} else {
		inst.world = multiplyAffine(parent.world, local)
		inst.alpha = composeOpacity(parent.alpha, inst.base.Opacity)
		inst.flipX = parent.flipX != (inst.base.ScaleX < 0)
	}
	if e.opts.Debug {
		debugCheckTreeDepth(inst)
	}
}

// localInputs maps the frame's pointer into inst's local space.
func (e *Engine) localInputs(inst *instance) Inputs {
	x, y := transformPoint(invertAffine(inst.world), e.inputs.Pointer.X, e.inputs.Pointer.Y)
	return e.inputs.withPointer(Point{x, y})
}

// flatten appends every texture below inst to dst in paint order.
func (e *Engine) flatten(dst []Texture, inst *instance) []Texture {
	for _, item := range inst.paint {
		if item.child != nil {
			if item.child.kind == KindCustom {
				dst = e.flatten(dst, item.child)
			}
			continue
		}
		dst = append(dst, resolveTexture(inst, item.texture))
	}
	return dst
}

func resolveTexture(owner *instance, desc *Sprite) Texture {
	m := multiplyAffine(owner.world, localMatrix(desc.BaseProps))
	x, y := transformPoint(owner.world, desc.X, desc.Y)
	rot, sx, sy := decomposeAffine(m, owner.flipX != (desc.ScaleX < 0))
	return Texture{
		TextureProps: desc.Texture,
		X:            x,
		Y:            y,
		Rotation:     rot,
		ScaleX:       sx,
		ScaleY:       sy,
		Opacity:      composeOpacity(owner.alpha, desc.Opacity),
		Matrix:       m,
		Owner:        owner.globalID,
	}
}
