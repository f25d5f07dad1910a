package replay

// BaseProps are the transform fields every sprite descriptor carries.
// Rotation is in degrees. Use DefaultBaseProps (or any constructor in this
// package) rather than a zero value, which has zero scale and opacity.
type BaseProps struct {
	X, Y             float64
	Rotation         float64
	ScaleX, ScaleY   float64
	AnchorX, AnchorY float64
	Opacity          float64
}

// DefaultBaseProps returns BaseProps at the origin with unit scale and full
// opacity.
func DefaultBaseProps() BaseProps {
	return BaseProps{ScaleX: 1, ScaleY: 1, Opacity: 1}
}

// TextureProps holds the kind-specific visual properties of a texture.
// Only the fields relevant to Type are read by renderers.
type TextureProps struct {
	Type   TextureType
	TestID string
	Color  Color

	// Circle
	Radius float64

	// Rectangle, Image, SpriteSheet
	Width, Height float64

	// Line
	Path      []Point
	Thickness float64

	// Image, SpriteSheet
	FileName string

	// SpriteSheet
	Columns, Rows, Index int

	// Text
	Text  string
	Font  Font
	Align TextAlign
}

// Sprite is the descriptor produced by Render every frame. A single flat
// struct is used for custom, native and texture sprites; Kind selects which
// fields are meaningful. Descriptors are consumed by the reconciler and
// discarded.
type Sprite struct {
	Kind SpriteKind

	// ID identifies custom and native sprites among their siblings. Textures
	// are never matched and may leave it empty.
	ID string

	BaseProps

	// Props are passed to the sprite's definition (custom) or native
	// implementation (native).
	Props any

	// Texture is set for KindTexture descriptors.
	Texture TextureProps

	def        definition
	nativeName string
}

// NativeName returns the registered implementation name of a native sprite.
func (s Sprite) NativeName() string {
	return s.nativeName
}

// DefinitionName returns the Name of a custom sprite's definition.
func (s Sprite) DefinitionName() string {
	if s.def == nil {
		return ""
	}
	return s.def.name()
}

// --- Chain helpers (each returns a modified copy) ---

// At returns a copy of s positioned at (x, y).
func (s Sprite) At(x, y float64) Sprite {
	s.X = x
	s.Y = y
	return s
}

// Rotated returns a copy of s rotated by deg degrees.
func (s Sprite) Rotated(deg float64) Sprite {
	s.Rotation = deg
	return s
}

// Scaled returns a copy of s with the given scale factors.
func (s Sprite) Scaled(sx, sy float64) Sprite {
	s.ScaleX = sx
	s.ScaleY = sy
	return s
}

// Anchored returns a copy of s with the given anchor offset.
func (s Sprite) Anchored(ax, ay float64) Sprite {
	s.AnchorX = ax
	s.AnchorY = ay
	return s
}

// Faded returns a copy of s with the given opacity.
func (s Sprite) Faded(opacity float64) Sprite {
	s.Opacity = opacity
	return s
}

// WithBase returns a copy of s with all transform fields replaced.
func (s Sprite) WithBase(b BaseProps) Sprite {
	s.BaseProps = b
	return s
}

// Tagged returns a copy of a texture sprite with TestID set, used by the
// test platform's texture lookups.
func (s Sprite) Tagged(testID string) Sprite {
	s.Texture.TestID = testID
	return s
}

// --- Texture constructors ---

func newTexture(props TextureProps) Sprite {
	return Sprite{Kind: KindTexture, BaseProps: DefaultBaseProps(), Texture: props}
}

// Circle creates a filled circle texture centred on its origin.
func Circle(radius float64, color Color) Sprite {
	return newTexture(TextureProps{Type: TextureCircle, Radius: radius, Color: color})
}

// Rectangle creates a filled rectangle texture centred on its origin.
func Rectangle(width, height float64, color Color) Sprite {
	return newTexture(TextureProps{Type: TextureRectangle, Width: width, Height: height, Color: color})
}

// Line creates a polyline texture through path.
func Line(path []Point, thickness float64, color Color) Sprite {
	return newTexture(TextureProps{Type: TextureLine, Path: path, Thickness: thickness, Color: color})
}

// Image creates an image texture drawn width x height, centred on its origin.
func Image(fileName string, width, height float64) Sprite {
	return newTexture(TextureProps{Type: TextureImage, FileName: fileName, Width: width, Height: height, Color: ColorWhite})
}

// SpriteSheet creates a texture showing frame index of a columns x rows grid
// image. Frames are numbered left to right, top to bottom.
func SpriteSheet(fileName string, columns, rows, index int, width, height float64) Sprite {
	return newTexture(TextureProps{
		Type:     TextureSpriteSheet,
		FileName: fileName,
		Columns:  columns,
		Rows:     rows,
		Index:    index,
		Width:    width,
		Height:   height,
		Color:    ColorWhite,
	})
}

// Text creates a text texture in DefaultFont, centred on its origin.
func Text(text string, color Color) Sprite {
	return newTexture(TextureProps{Type: TextureText, Text: text, Font: DefaultFont, Color: color})
}

// --- Native constructor ---

// Native creates a descriptor for the host-implemented sprite registered
// under name in the engine's NativeSpriteMap.
func Native(name, id string, props any) Sprite {
	return Sprite{Kind: KindNative, ID: id, BaseProps: DefaultBaseProps(), Props: props, nativeName: name}
}
