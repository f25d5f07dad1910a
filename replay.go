package replay

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication is left to the host renderer.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

// RGB returns an opaque color from 0-255 channel values.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// Point is a 2D position in game coordinates. The game origin is the centre
// of the screen with Y increasing upward.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle centred on (X, Y).
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return math.Abs(x-r.X) <= r.Width/2 && math.Abs(y-r.Y) <= r.Height/2
}

// SpriteKind distinguishes how the engine treats a Sprite descriptor.
type SpriteKind uint8

const (
	KindCustom  SpriteKind = iota // stateful sprite defined in Go
	KindNative                    // host-implemented widget
	KindTexture                   // drawable leaf
)

func (k SpriteKind) String() string {
	switch k {
	case KindCustom:
		return "custom"
	case KindNative:
		return "native"
	case KindTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// TextureType identifies the kind of drawable a texture describes.
type TextureType uint8

const (
	TextureCircle      TextureType = iota // filled circle of Radius
	TextureRectangle                      // filled Width x Height box
	TextureLine                           // polyline through Path
	TextureImage                          // image file scaled to Width x Height
	TextureSpriteSheet                    // one frame of a grid sprite sheet
	TextureText                           // text string
)

func (t TextureType) String() string {
	switch t {
	case TextureCircle:
		return "circle"
	case TextureRectangle:
		return "rectangle"
	case TextureLine:
		return "line"
	case TextureImage:
		return "image"
	case TextureSpriteSheet:
		return "spriteSheet"
	case TextureText:
		return "text"
	default:
		return "unknown"
	}
}

// TextAlign controls horizontal text alignment around a text texture's origin.
type TextAlign uint8

const (
	TextAlignCenter TextAlign = iota // centre text on the origin (default)
	TextAlignLeft                    // text starts at the origin
	TextAlignRight                   // text ends at the origin
)

// Font describes the face used by a text texture. An empty Family selects
// the host's default face.
type Font struct {
	Family string
	Size   float64
}

// DefaultFont is used by Text when no font is given.
var DefaultFont = Font{Size: 12}
