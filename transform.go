package replay

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// decomposeAffine recovers rotation (degrees, in (-180, 180]) and scale from
// the linear part of m. flipX selects the decomposition with a negative
// ScaleX when the matrix is mirrored; the Y scale takes the determinant's
// sign. Exact for any matrix without skew.
func decomposeAffine(m [6]float64, flipX bool) (rotation, scaleX, scaleY float64) {
	a, b, c, d := m[0], m[1], m[2], m[3]
	scaleX = math.Hypot(a, b)
	if scaleX == 0 {
		return -math.Atan2(-c, d) * 180 / math.Pi, 0, math.Hypot(c, d)
	}
	if flipX {
		scaleX = -scaleX
	}
	rotation = -math.Atan2(b/scaleX, a/scaleX) * 180 / math.Pi
	if rotation == -180 {
		rotation = 180
	}
	scaleY = (a*d - b*c) / scaleX
	return rotation, scaleX, scaleY
}

// localMatrix computes the local-to-parent affine matrix for b.
// Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-AnchorX, -AnchorY) -> Scale -> Rotate(-Rotation) -> Translate(X, Y)
//
// Game space has Y increasing upward, so rotating by the negated angle turns
// positive rotations clockwise on screen.
func localMatrix(b BaseProps) [6]float64 {
	sin, cos := math.Sincos(-degToRad(b.Rotation))

	// Rotate * Scale
	a := cos * b.ScaleX
	bb := sin * b.ScaleX
	c := -sin * b.ScaleY
	d := cos * b.ScaleY

	// The anchor offset is carried through scale and rotation.
	tx := -(a*b.AnchorX + c*b.AnchorY) + b.X
	ty := -(bb*b.AnchorX + d*b.AnchorY) + b.Y

	return [6]float64{a, bb, c, d, tx, ty}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// --- Coordinate conversion ---

// LocalToParent returns a function mapping a point in the local space of a
// sprite with transform b to its parent's space.
func LocalToParent(b BaseProps) func(Point) Point {
	sin, cos := math.Sincos(-degToRad(b.Rotation))
	return func(p Point) Point {
		x := (p.X - b.AnchorX) * b.ScaleX
		y := (p.Y - b.AnchorY) * b.ScaleY
		return Point{
			X: cos*x - sin*y + b.X,
			Y: sin*x + cos*y + b.Y,
		}
	}
}

// ParentToLocal returns the inverse of LocalToParent. ScaleX and ScaleY must
// be nonzero.
func ParentToLocal(b BaseProps) func(Point) Point {
	sin, cos := math.Sincos(degToRad(b.Rotation))
	return func(p Point) Point {
		x := p.X - b.X
		y := p.Y - b.Y
		rx := cos*x - sin*y
		ry := sin*x + cos*y
		return Point{
			X: rx/b.ScaleX + b.AnchorX,
			Y: ry/b.ScaleY + b.AnchorY,
		}
	}
}

// clampOpacity limits a single level's opacity to [0, 1]. NaN becomes 0.
func clampOpacity(o float64) float64 {
	switch {
	case o > 1:
		return 1
	case o >= 0:
		return o
	default:
		return 0
	}
}

// composeOpacity multiplies a parent's absolute opacity with a child's own
// opacity, clamping the child's value first.
func composeOpacity(parent, own float64) float64 {
	return clampOpacity(parent) * clampOpacity(own)
}
