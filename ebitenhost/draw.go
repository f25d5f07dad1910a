package ebitenhost

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/replay"
)

// renderer draws frame textures onto an ebiten image. Images and font
// sources are loaded on first use and cached by name.
type renderer struct {
	log       *zap.Logger
	assetDir  string
	fontFiles map[string]string

	white   *ebiten.Image
	images  map[string]*ebiten.Image
	missing map[string]bool
	sources map[string]*text.GoTextFaceSource
	faces   map[replay.Font]text.Face

	path  vector.Path
	verts []ebiten.Vertex
	inds  []uint16
}

func newRenderer(log *zap.Logger, assetDir string, fonts map[string]string) *renderer {
	return &renderer{
		log:       log,
		assetDir:  assetDir,
		fontFiles: fonts,
		images:    map[string]*ebiten.Image{},
		missing:   map[string]bool{},
		sources:   map[string]*text.GoTextFaceSource{},
		faces:     map[replay.Font]text.Face{},
	}
}

func (r *renderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return r.white
}

// draw renders textures in order through view.
func (r *renderer) draw(dst *ebiten.Image, textures []replay.Texture, view viewport) {
	screen := view.matrix()
	for i := range textures {
		t := &textures[i]
		if t.Opacity <= 0 {
			continue
		}
		m := compose(screen, t.Matrix)
		switch t.Type {
		case replay.TextureCircle:
			sx, sy := apply(m, t.Radius, 0)
			ox, oy := apply(m, 0, 0)
			segs := circleSegments(vecLen(sx-ox, sy-oy))
			r.fillPolygon(dst, circlePoints(t.Radius, segs), m, t.Color, t.Opacity)
		case replay.TextureRectangle:
			r.fillPolygon(dst, rectPoints(t.Width, t.Height), m, t.Color, t.Opacity)
		case replay.TextureLine:
			r.strokeLine(dst, t, m, view.scale)
		case replay.TextureImage, replay.TextureSpriteSheet:
			r.drawImage(dst, t, m)
		case replay.TextureText:
			r.drawText(dst, t, m)
		}
	}
}

func (r *renderer) fillPolygon(dst *ebiten.Image, pts []replay.Point, m [6]float64, c replay.Color, opacity float64) {
	if len(pts) < 3 {
		return
	}
	r.path.Reset()
	x, y := apply(m, pts[0].X, pts[0].Y)
	r.path.MoveTo(float32(x), float32(y))
	for _, p := range pts[1:] {
		x, y = apply(m, p.X, p.Y)
		r.path.LineTo(float32(x), float32(y))
	}
	r.path.Close()
	r.verts, r.inds = r.path.AppendVerticesAndIndicesForFilling(r.verts[:0], r.inds[:0])
	r.submit(dst, c, opacity)
}

func (r *renderer) strokeLine(dst *ebiten.Image, t *replay.Texture, m [6]float64, scale float64) {
	if len(t.Path) < 2 {
		return
	}
	r.path.Reset()
	x, y := apply(m, t.Path[0].X, t.Path[0].Y)
	r.path.MoveTo(float32(x), float32(y))
	for _, p := range t.Path[1:] {
		x, y = apply(m, p.X, p.Y)
		r.path.LineTo(float32(x), float32(y))
	}
	width := t.Thickness
	if width <= 0 {
		width = 1
	}
	op := &vector.StrokeOptions{
		Width:    float32(width * scale * math.Abs(t.ScaleX)),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	}
	r.verts, r.inds = r.path.AppendVerticesAndIndicesForStroke(r.verts[:0], r.inds[:0], op)
	r.submit(dst, t.Color, t.Opacity)
}

func (r *renderer) submit(dst *ebiten.Image, c replay.Color, opacity float64) {
	cr, cg, cb, ca := premultiply(c, opacity)
	for i := range r.verts {
		v := &r.verts[i]
		v.SrcX, v.SrcY = 0.5, 0.5
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = cr, cg, cb, ca
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(r.verts, r.inds, r.whitePixel(), op)
}

func (r *renderer) drawImage(dst *ebiten.Image, t *replay.Texture, m [6]float64) {
	img := r.image(t.FileName)
	if img == nil {
		return
	}
	if t.Type == replay.TextureSpriteSheet {
		b := img.Bounds()
		x0, y0, x1, y1 := sheetFrame(b.Dx(), b.Dy(), t.Columns, t.Rows, t.Index)
		img = img.SubImage(image.Rect(b.Min.X+x0, b.Min.Y+y0, b.Min.X+x1, b.Min.Y+y1)).(*ebiten.Image)
	}
	b := img.Bounds()
	local := imageLocal(float64(b.Dx()), float64(b.Dy()), t.Width, t.Height)

	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM(compose(m, local))
	op.ColorScale.Scale(float32(t.Color.R), float32(t.Color.G), float32(t.Color.B), 1)
	op.ColorScale.ScaleAlpha(float32(t.Color.A * t.Opacity))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

func (r *renderer) image(name string) *ebiten.Image {
	if img, ok := r.images[name]; ok {
		return img
	}
	if r.missing[name] {
		return nil
	}
	img, _, err := ebitenutil.NewImageFromFile(assetPath(r.assetDir, name))
	if err != nil {
		r.log.Warn("image load failed", zap.String("file", name), zap.Error(err))
		r.missing[name] = true
		return nil
	}
	r.images[name] = img
	return img
}

func (r *renderer) drawText(dst *ebiten.Image, t *replay.Texture, m [6]float64) {
	face := r.face(t.Font)
	op := &text.DrawOptions{}
	switch t.Align {
	case replay.TextAlignLeft:
		op.PrimaryAlign = text.AlignStart
	case replay.TextAlignRight:
		op.PrimaryAlign = text.AlignEnd
	default:
		op.PrimaryAlign = text.AlignCenter
	}
	op.SecondaryAlign = text.AlignCenter
	op.LineSpacing = lineHeight(face)
	op.GeoM = geoM(compose(m, [6]float64{1, 0, 0, -1, 0, 0}))
	op.ColorScale.Scale(float32(t.Color.R), float32(t.Color.G), float32(t.Color.B), 1)
	op.ColorScale.ScaleAlpha(float32(t.Color.A * t.Opacity))
	text.Draw(dst, t.Text, face, op)
}

// face resolves a font. Families listed in the [fonts] config section load
// TTF/OTF files; everything else uses Go Regular, or the 7x13 bitmap face
// if that cannot be parsed.
func (r *renderer) face(f replay.Font) text.Face {
	if face, ok := r.faces[f]; ok {
		return face
	}
	size := f.Size
	if size <= 0 {
		size = replay.DefaultFont.Size
	}
	var face text.Face
	if src := r.source(f.Family); src != nil {
		face = &text.GoTextFace{Source: src, Size: size}
	} else {
		face = text.NewGoXFace(basicfont.Face7x13)
	}
	r.faces[f] = face
	return face
}

func (r *renderer) source(family string) *text.GoTextFaceSource {
	if src, ok := r.sources[family]; ok {
		return src
	}
	data := goregular.TTF
	if file, ok := r.fontFiles[family]; ok {
		b, err := readAsset(r.assetDir, file)
		if err != nil {
			r.log.Warn("font load failed", zap.String("family", family), zap.Error(err))
		} else {
			data = b
		}
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		r.log.Warn("font parse failed", zap.String("family", family), zap.Error(err))
		src = nil
	}
	r.sources[family] = src
	return src
}

func lineHeight(face text.Face) float64 {
	m := face.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}
