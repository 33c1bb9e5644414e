package ogimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/kristoferlund/ogengine/fonts"
)

func testFonts(t *testing.T) *fonts.FontSet {
	t.Helper()
	regular, err := fonts.Parse(goregular.TTF)
	require.NoError(t, err)
	bold, err := fonts.Parse(gobold.TTF)
	require.NoError(t, err)
	set, err := fonts.New(
		fonts.Face{Name: fonts.RegularFamily, Weight: 400, Font: regular},
		fonts.Face{Name: fonts.BoldFamily, Weight: 700, Font: bold},
	)
	require.NoError(t, err)
	return set
}

func testCard() Card {
	return Card{
		Author:      "Kristofer Lund",
		Date:        "2024-03-05",
		Title:       "Hello World",
		Description: "A test post",
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05T00:00:00.000Z", "2024-03-05"},
		{"2024-03-05T23:59:59.999Z", "2024-03-05"},
		{"2024-03-05T22:30:00-05:00", "2024-03-06"},
		{"2023-12-31T01:00:00+02:00", "2023-12-30"},
	}
	for _, tt := range tests {
		ts, err := time.Parse(time.RFC3339Nano, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, FormatDate(ts), "input %s", tt.in)
	}
}

func TestPostCardTextNodes(t *testing.T) {
	card := PostCard(testCard())

	assert.Equal(t, []string{"Kristofer Lund", "2024-03-05", "Hello World", "A test post"}, Texts(card))

	var families []string
	Walk(card, func(n *Node) {
		if n.Kind == KindText {
			families = append(families, n.Style.FontFamily)
		}
	})
	// Only the title overrides the inherited regular face.
	assert.Equal(t, []string{"", "", fonts.BoldFamily, ""}, families)
	assert.Equal(t, fonts.RegularFamily, card.Style.FontFamily)
}

func TestTextCollapsesWhitespace(t *testing.T) {
	n := Text("  Hello \n\t World ", Style{})
	assert.Equal(t, "Hello World", n.Text)
	assert.Equal(t, KindText, n.Kind)
	assert.Equal(t, "text", n.Kind.String())
}

func TestRenderCardDimensions(t *testing.T) {
	r := NewRenderer(testFonts(t))

	data, err := r.RenderCard(testCard())
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 630, cfg.Height)
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer(testFonts(t))

	first, err := r.RenderCard(testCard())
	require.NoError(t, err)
	second, err := r.RenderCard(testCard())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "renders differ")

	other := testCard()
	other.Title = "Goodbye World"
	third, err := r.RenderCard(other)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(first, third), "different titles rendered identically")
}

func TestRenderPaintsPanelAndText(t *testing.T) {
	r := NewRenderer(testFonts(t))
	img, err := r.Render(PostCard(testCard()))
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{A: 230}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{A: 230}, img.RGBAAt(1199, 629))

	// The title is bold opaque white, the description half transparent.
	assert.True(t, hasPixel(img, image.Rect(80, 300, 1120, 500), func(c color.RGBA) bool {
		return c.R == 255 && c.A == 255
	}), "no opaque white title pixels")
	assert.False(t, hasPixel(img, image.Rect(80, 496, 1120, 550), func(c color.RGBA) bool {
		return c.R > 200
	}), "description drawn at full opacity")
	assert.True(t, hasPixel(img, image.Rect(80, 496, 1120, 550), func(c color.RGBA) bool {
		return c.R > 64
	}), "no description pixels")
}

func hasPixel(img *image.RGBA, rect image.Rectangle, match func(color.RGBA) bool) bool {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if match(img.RGBAAt(x, y)) {
				return true
			}
		}
	}
	return false
}

func TestPostCardLayout(t *testing.T) {
	fc := newFaceCache(testFonts(t))
	defer fc.close()

	root, err := measure(PostCard(testCard()), Style{}, Width, fc)
	require.NoError(t, err)
	place(root, image.Rect(0, 0, Width, Height))

	require.Len(t, root.children, 4)
	top, spacer, title, desc := root.children[0], root.children[1], root.children[2], root.children[3]
	author, date := top.children[0], top.children[1]

	assert.Equal(t, 80, top.rect.Min.Y)
	assert.Equal(t, 80, author.rect.Min.X)
	assert.Equal(t, 1120, date.rect.Max.X)
	assert.Equal(t, 36, author.lineH)

	assert.Equal(t, top.rect.Max.Y, spacer.rect.Min.Y)
	assert.Equal(t, spacer.rect.Max.Y, title.rect.Min.Y)
	assert.Equal(t, 90, title.lineH)
	assert.Equal(t, title.rect.Max.Y+20, desc.rect.Min.Y)
	assert.Equal(t, 54, desc.lineH)
	assert.Equal(t, Height-80, desc.rect.Max.Y)
}

func TestLongTitleWraps(t *testing.T) {
	set := testFonts(t)
	fc := newFaceCache(set)
	defer fc.close()

	face, err := fc.get(fonts.BoldFamily, 60)
	require.NoError(t, err)

	title := strings.Repeat("Reasonably long words ", 8)
	lines := wrap(face, title, 1040)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, font.MeasureString(face, l).Ceil(), 1040, "line %q too wide", l)
	}
	assert.Equal(t, strings.Join(strings.Fields(title), " "), strings.Join(lines, " "))

	huge := strings.Repeat("x", 200)
	pieces := wrap(face, huge, 300)
	require.Greater(t, len(pieces), 1)
	assert.Equal(t, huge, strings.Join(pieces, ""))

	assert.Nil(t, wrap(face, "   ", 300))
}

func TestRenderUnknownFamilyFails(t *testing.T) {
	r := NewRenderer(testFonts(t))
	_, err := r.Render(Box(Style{FontFamily: "Missing"}, Text("x", Style{})))
	assert.ErrorIs(t, err, fonts.ErrUnknownFamily)
}

func TestRenderWithoutFontsFails(t *testing.T) {
	_, err := NewRenderer(nil).RenderCard(testCard())
	assert.Error(t, err)
}

func TestWithSize(t *testing.T) {
	r := NewRenderer(testFonts(t), WithSize(600, 315))
	w, h := r.Size()
	assert.Equal(t, 600, w)
	assert.Equal(t, 315, h)

	img, err := r.Render(PostCard(testCard()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 600, 315), img.Bounds())
}
