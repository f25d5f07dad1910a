package replay

// Texture is a drawable emitted by a frame with its fully resolved transform.
// Textures are rebuilt from scratch every frame.
type Texture struct {
	TextureProps

	// X and Y are the global position of the texture's own (X, Y) point.
	X, Y float64
	// Rotation and ScaleX/ScaleY are decomposed from Matrix. Rotation is in
	// (-180, 180]. When an ancestor scales non-uniformly under a rotation the
	// matrix is skewed and only Matrix describes it fully.
	Rotation       float64
	ScaleX, ScaleY float64
	// Opacity is the product of every clamped ancestor opacity, in [0, 1].
	Opacity float64

	// Matrix maps the texture's local space (origin at its centre, anchor
	// already applied) to game space. Layout: [a, b, c, d, tx, ty].
	Matrix [6]float64

	// Owner is the global ID of the custom sprite that rendered the texture.
	Owner string
}

// Local maps a game-space point into the texture's local space.
func (t Texture) Local(p Point) Point {
	x, y := transformPoint(invertAffine(t.Matrix), p.X, p.Y)
	return Point{x, y}
}
