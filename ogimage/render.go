package ogimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/kristoferlund/ogengine/fonts"
)

// ContentType is the media type of the encoded images.
const ContentType = "image/png"

// Renderer rasterizes layout trees on a fixed-size canvas. It keeps no state
// between calls and is safe for concurrent use.
type Renderer struct {
	fonts  *fonts.FontSet
	width  int
	height int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize overrides the canvas size (default 1200x630).
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

// NewRenderer returns a Renderer drawing text with the faces of set.
func NewRenderer(set *fonts.FontSet, opts ...Option) *Renderer {
	r := &Renderer{fonts: set, width: Width, height: Height}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Size returns the canvas dimensions.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render lays out root over the whole canvas and paints it.
func (r *Renderer) Render(root *Node) (*image.RGBA, error) {
	if r.fonts == nil {
		return nil, errors.New("ogimage: renderer has no fonts")
	}
	if root == nil {
		return nil, errors.New("ogimage: nil layout")
	}
	if r.width <= 0 || r.height <= 0 {
		return nil, fmt.Errorf("ogimage: invalid canvas %dx%d", r.width, r.height)
	}

	fc := newFaceCache(r.fonts)
	defer fc.close()

	b, err := measure(root, Style{FontSize: DefaultFontSize, Color: color.Black}, r.width, fc)
	if err != nil {
		return nil, fmt.Errorf("ogimage: layout: %w", err)
	}
	bounds := image.Rect(0, 0, r.width, r.height)
	place(b, bounds)

	img := image.NewRGBA(bounds)
	paint(img, b)
	return img, nil
}

// RenderPNG renders root and encodes it as PNG.
func (r *Renderer) RenderPNG(root *Node) ([]byte, error) {
	img, err := r.Render(root)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderCard renders the post card template for c.
func (r *Renderer) RenderCard(c Card) ([]byte, error) {
	return r.RenderPNG(PostCard(c))
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func paint(dst *image.RGBA, b *box) {
	if bg := b.style.Background; bg != nil {
		draw.Draw(dst, b.rect, image.NewUniform(bg), image.Point{}, draw.Over)
	}

	if b.node.Kind == KindText && len(b.lines) > 0 {
		src := b.style.Color
		if src == nil {
			src = color.Black
		}
		m := b.face.Metrics()
		lineH := fixed.I(b.lineH)
		d := font.Drawer{Dst: dst, Src: image.NewUniform(src), Face: b.face}
		for i, line := range b.lines {
			top := fixed.I(b.rect.Min.Y + i*b.lineH)
			d.Dot = fixed.Point26_6{
				X: fixed.I(b.rect.Min.X),
				Y: top + (lineH-m.Ascent-m.Descent)/2 + m.Ascent,
			}
			d.DrawString(line)
		}
	}

	for _, c := range b.children {
		paint(dst, c)
	}
}
