package ebitenhost

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/replay"
)

const eps = 1e-9

func TestViewportMatrixFlipsY(t *testing.T) {
	v := newViewport(300, 500, 300, 500)
	m := v.matrix()

	x, y := apply(m, 0, 0)
	assert.InDelta(t, 150, x, eps)
	assert.InDelta(t, 250, y, eps)

	x, y = apply(m, 100, 100)
	assert.InDelta(t, 250, x, eps)
	assert.InDelta(t, 150, y, eps, "game Y up is screen Y down")
}

func TestViewportLetterbox(t *testing.T) {
	// Twice as wide as needed: scale by height, margins left and right.
	v := newViewport(300, 500, 1200, 1000)
	assert.InDelta(t, 2, v.scale, eps)

	s := v.size()
	assert.InDelta(t, 300, s.Width, eps)
	assert.InDelta(t, 500, s.Height, eps)
	assert.InDelta(t, 600, s.DeviceWidth, eps)
	assert.InDelta(t, 500, s.DeviceHeight, eps)
	assert.InDelta(t, 150, s.WidthMargin, eps)
	assert.InDelta(t, 0, s.HeightMargin, eps)
}

func TestViewportToGameInvertsMatrix(t *testing.T) {
	v := newViewport(300, 500, 900, 1000)
	m := v.matrix()
	for _, p := range []replay.Point{{X: 0, Y: 0}, {X: -150, Y: 250}, {X: 42, Y: -17}} {
		sx, sy := apply(m, p.X, p.Y)
		got := v.toGame(sx, sy)
		assert.InDelta(t, p.X, got.X, eps)
		assert.InDelta(t, p.Y, got.Y, eps)
	}
}

func TestComposeAppliesRightFirst(t *testing.T) {
	translate := [6]float64{1, 0, 0, 1, 10, 0}
	scale := [6]float64{2, 0, 0, 2, 0, 0}

	x, y := apply(compose(translate, scale), 1, 1)
	assert.InDelta(t, 12, x, eps)
	assert.InDelta(t, 2, y, eps)

	x, y = apply(compose(scale, translate), 1, 1)
	assert.InDelta(t, 22, x, eps)
	assert.InDelta(t, 2, y, eps)
}

func TestGeoMMatchesApply(t *testing.T) {
	m := [6]float64{0, 1, -1, 0, 5, 7}
	g := geoM(m)
	gx, gy := g.Apply(3, 4)
	x, y := apply(m, 3, 4)
	assert.InDelta(t, x, gx, eps)
	assert.InDelta(t, y, gy, eps)
}

func TestCirclePoints(t *testing.T) {
	pts := circlePoints(10, 16)
	require.Len(t, pts, 16)
	for _, p := range pts {
		assert.InDelta(t, 10, math.Hypot(p.X, p.Y), eps)
	}
	assert.InDelta(t, 10, pts[0].X, eps)
	assert.InDelta(t, 10, pts[4].Y, eps)

	assert.Equal(t, 16, circleSegments(1))
	assert.Equal(t, 50, circleSegments(100))
	assert.Equal(t, 128, circleSegments(10000))
}

func TestRectPoints(t *testing.T) {
	pts := rectPoints(20, 10)
	assert.Equal(t, []replay.Point{{X: -10, Y: -5}, {X: 10, Y: -5}, {X: 10, Y: 5}, {X: -10, Y: 5}}, pts)
}

func TestImageLocal(t *testing.T) {
	// A 64x32 image drawn as a 128x64 box centred on the origin.
	m := imageLocal(64, 32, 128, 64)
	x, y := apply(m, 0, 0)
	assert.InDelta(t, -64, x, eps)
	assert.InDelta(t, 32, y, eps, "top-left pixel is the top-left corner")
	x, y = apply(m, 64, 32)
	assert.InDelta(t, 64, x, eps)
	assert.InDelta(t, -32, y, eps)
}

func TestSheetFrame(t *testing.T) {
	x0, y0, x1, y1 := sheetFrame(128, 64, 4, 2, 5)
	assert.Equal(t, []int{32, 32, 64, 64}, []int{x0, y0, x1, y1})

	x0, y0, _, _ = sheetFrame(128, 64, 4, 2, 8)
	assert.Equal(t, []int{0, 0}, []int{x0, y0}, "index wraps")

	x0, y0, _, _ = sheetFrame(128, 64, 4, 2, -1)
	assert.Equal(t, []int{96, 32}, []int{x0, y0})
}

func TestPremultiply(t *testing.T) {
	r, g, b, a := premultiply(replay.Color{R: 1, G: 0.5, B: 0, A: 0.5}, 0.5)
	assert.InDelta(t, 0.25, r, 1e-6)
	assert.InDelta(t, 0.125, g, 1e-6)
	assert.InDelta(t, 0, b, 1e-6)
	assert.InDelta(t, 0.25, a, 1e-6)
}

func TestKeyName(t *testing.T) {
	cases := map[ebiten.Key]string{
		ebiten.KeyA:          "a",
		ebiten.KeyZ:          "z",
		ebiten.KeyDigit5:     "5",
		ebiten.KeySpace:      " ",
		ebiten.KeyArrowLeft:  "ArrowLeft",
		ebiten.KeyEnter:      "Enter",
		ebiten.KeyEscape:     "Escape",
		ebiten.KeyShiftLeft:  "Shift",
		ebiten.KeyShiftRight: "Shift",
		ebiten.KeyF12:        "F12",
		ebiten.KeyComma:      ",",
	}
	for k, want := range cases {
		assert.Equal(t, want, keyName(k), "key %v", k)
	}
}
