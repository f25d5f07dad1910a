package ebitenhost

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/replay"
)

// viewport maps the logical game area onto the window. The game is scaled
// uniformly to fit and centred; the rest of the window is margin.
type viewport struct {
	gameW, gameH     float64
	screenW, screenH float64
	scale            float64
}

func newViewport(gameW, gameH, screenW, screenH float64) viewport {
	v := viewport{gameW: gameW, gameH: gameH, screenW: screenW, screenH: screenH, scale: 1}
	if gameW > 0 && gameH > 0 && screenW > 0 && screenH > 0 {
		v.scale = math.Min(screenW/gameW, screenH/gameH)
	}
	return v
}

// matrix maps game space (origin at centre, Y up) to screen pixels.
func (v viewport) matrix() [6]float64 {
	return [6]float64{v.scale, 0, 0, -v.scale, v.screenW / 2, v.screenH / 2}
}

// toGame maps a screen pixel to game coordinates.
func (v viewport) toGame(px, py float64) replay.Point {
	return replay.Point{X: (px - v.screenW/2) / v.scale, Y: (v.screenH/2 - py) / v.scale}
}

// size reports the device size seen by sprites.
func (v viewport) size() replay.DeviceSize {
	dw, dh := v.screenW/v.scale, v.screenH/v.scale
	return replay.DeviceSize{
		Width:        v.gameW,
		Height:       v.gameH,
		WidthMargin:  math.Max(0, (dw-v.gameW)/2),
		HeightMargin: math.Max(0, (dh-v.gameH)/2),
		DeviceWidth:  dw,
		DeviceHeight: dh,
	}
}

// compose returns the affine transform applying q first, then p.
func compose(p, q [6]float64) [6]float64 {
	return [6]float64{
		p[0]*q[0] + p[2]*q[1],
		p[1]*q[0] + p[3]*q[1],
		p[0]*q[2] + p[2]*q[3],
		p[1]*q[2] + p[3]*q[3],
		p[0]*q[4] + p[2]*q[5] + p[4],
		p[1]*q[4] + p[3]*q[5] + p[5],
	}
}

func vecLen(x, y float64) float64 { return math.Hypot(x, y) }

func apply(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// geoM converts an affine matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// circleSegments picks a polygon resolution for a circle whose on-screen
// radius is r pixels.
func circleSegments(r float64) int {
	n := int(math.Ceil(r / 2))
	return min(max(n, 16), 128)
}

// circlePoints approximates a circle of radius r centred on the origin.
func circlePoints(r float64, segments int) []replay.Point {
	pts := make([]replay.Point, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = replay.Point{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return pts
}

// rectPoints returns the corners of a w x h box centred on the origin,
// counter-clockwise from bottom-left.
func rectPoints(w, h float64) []replay.Point {
	return []replay.Point{
		{X: -w / 2, Y: -h / 2},
		{X: w / 2, Y: -h / 2},
		{X: w / 2, Y: h / 2},
		{X: -w / 2, Y: h / 2},
	}
}

// imageLocal maps the pixels of an fw x fh source frame onto a w x h box
// centred on the origin with Y up.
func imageLocal(fw, fh, w, h float64) [6]float64 {
	if fw == 0 || fh == 0 {
		return [6]float64{1, 0, 0, -1, 0, 0}
	}
	return [6]float64{w / fw, 0, 0, -h / fh, -w / 2, h / 2}
}

// sheetFrame returns the pixel rectangle of frame index in a columns x rows
// grid over a w x h image. Out-of-range indexes wrap.
func sheetFrame(w, h, columns, rows, index int) (x0, y0, x1, y1 int) {
	columns, rows = max(columns, 1), max(rows, 1)
	n := columns * rows
	index = ((index % n) + n) % n
	fw, fh := w/columns, h/rows
	col, row := index%columns, index/columns
	return col * fw, row * fh, (col + 1) * fw, (row + 1) * fh
}

// premultiply scales c by opacity into ebiten's premultiplied vertex color.
func premultiply(c replay.Color, opacity float64) (r, g, b, a float32) {
	alpha := c.A * opacity
	return float32(c.R * alpha), float32(c.G * alpha), float32(c.B * alpha), float32(alpha)
}
