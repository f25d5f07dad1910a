package replay

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates a single float64 over a duration in simulated
// milliseconds. Keep it in sprite state and advance it from Loop with
// LoopArgs.DeltaMS; a Tween is a pointer, so state copies share it.
type Tween struct {
	tween *gween.Tween
	value float64
	Done  bool
}

// NewTween creates a tween from one value to another over durationMS using
// the easing function. A nil fn means linear.
func NewTween(from, to, durationMS float64, fn ease.TweenFunc) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{
		tween: gween.New(float32(from), float32(to), float32(durationMS), fn),
		value: from,
	}
}

// Update advances the tween by deltaMS and returns the current value.
func (t *Tween) Update(deltaMS float64) float64 {
	if t.Done {
		return t.value
	}
	v, finished := t.tween.Update(float32(deltaMS))
	t.value = float64(v)
	t.Done = finished
	return t.value
}

// Value returns the most recent value.
func (t *Tween) Value() float64 { return t.value }

// BaseTween animates position, rotation, scale and opacity between two
// BaseProps. Anchors are taken from the target and not interpolated.
type BaseTween struct {
	tweens  [6]*gween.Tween
	fields  [6]*float64
	current BaseProps
	Done    bool
}

// TweenBase creates a BaseTween from one transform to another over
// durationMS using the easing function. A nil fn means linear.
func TweenBase(from, to BaseProps, durationMS float64, fn ease.TweenFunc) *BaseTween {
	if fn == nil {
		fn = ease.Linear
	}
	g := &BaseTween{current: from}
	g.current.AnchorX = to.AnchorX
	g.current.AnchorY = to.AnchorY

	d := float32(durationMS)
	pairs := [6][2]float64{
		{from.X, to.X},
		{from.Y, to.Y},
		{from.Rotation, to.Rotation},
		{from.ScaleX, to.ScaleX},
		{from.ScaleY, to.ScaleY},
		{from.Opacity, to.Opacity},
	}
	g.fields = [6]*float64{
		&g.current.X,
		&g.current.Y,
		&g.current.Rotation,
		&g.current.ScaleX,
		&g.current.ScaleY,
		&g.current.Opacity,
	}
	for i, p := range pairs {
		g.tweens[i] = gween.New(float32(p[0]), float32(p[1]), d, fn)
	}
	return g
}

// Update advances all fields by deltaMS and returns the interpolated
// transform.
func (g *BaseTween) Update(deltaMS float64) BaseProps {
	if g.Done {
		return g.current
	}
	allDone := true
	for i := range g.tweens {
		val, finished := g.tweens[i].Update(float32(deltaMS))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	return g.current
}

// Current returns the most recent interpolated transform.
func (g *BaseTween) Current() BaseProps { return g.current }
