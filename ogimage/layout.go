package ogimage

import (
	"fmt"
	"image"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/kristoferlund/ogengine/fonts"
)

// box is a node after style resolution, measurement and placement.
type box struct {
	node     *Node
	style    Style
	w, h     int
	rect     image.Rectangle
	face     font.Face
	lines    []string
	lineH    int
	children []*box
}

type faceKey struct {
	family string
	size   float64
}

// faceCache hands out one face per family and size for a single render.
type faceCache struct {
	set   *fonts.FontSet
	faces map[faceKey]font.Face
}

func newFaceCache(set *fonts.FontSet) *faceCache {
	return &faceCache{set: set, faces: map[faceKey]font.Face{}}
}

func (c *faceCache) get(family string, size float64) (font.Face, error) {
	k := faceKey{family, size}
	if f, ok := c.faces[k]; ok {
		return f, nil
	}
	f, err := c.set.NewFace(family, size)
	if err != nil {
		return nil, err
	}
	c.faces[k] = f
	return f, nil
}

func (c *faceCache) close() {
	for _, f := range c.faces {
		_ = f.Close()
	}
}

func measure(n *Node, parent Style, maxW int, fc *faceCache) (*box, error) {
	st := n.Style.inherit(parent)
	b := &box{node: n, style: st}

	switch n.Kind {
	case KindSpacer:
	case KindText:
		size := st.FontSize
		if size <= 0 {
			size = DefaultFontSize
		}
		lh := st.LineHeight
		if lh <= 0 {
			lh = DefaultLineHeight
		}
		face, err := fc.get(st.FontFamily, size)
		if err != nil {
			return nil, fmt.Errorf("text %q: %w", n.Text, err)
		}
		b.face = face
		b.lines = wrap(face, n.Text, maxW)
		b.lineH = int(math.Round(size * lh))
		for _, l := range b.lines {
			b.w = max(b.w, font.MeasureString(face, l).Ceil())
		}
		b.h = len(b.lines) * b.lineH
	case KindBox:
		inner := max(maxW-2*st.Padding, 0)
		for _, child := range n.Children {
			c, err := measure(child, st, inner, fc)
			if err != nil {
				return nil, err
			}
			b.children = append(b.children, c)
			if st.Direction == Row {
				b.w += c.w
				b.h = max(b.h, c.h+c.style.MarginBottom)
			} else {
				b.w = max(b.w, c.w)
				b.h += c.h + c.style.MarginBottom
			}
		}
		b.w += 2 * st.Padding
		b.h += 2 * st.Padding
	default:
		return nil, fmt.Errorf("unknown node kind %d", n.Kind)
	}

	if st.FullWidth {
		b.w = maxW
	}
	return b, nil
}

func place(b *box, rect image.Rectangle) {
	b.rect = rect
	if len(b.children) == 0 {
		return
	}
	content := rect.Inset(b.style.Padding)
	if b.style.Direction == Row {
		placeRow(b, content)
	} else {
		placeColumn(b, content)
	}
}

func placeColumn(b *box, content image.Rectangle) {
	used, growers := 0, 0
	for _, c := range b.children {
		used += c.h + c.style.MarginBottom
		if c.style.Grow {
			growers++
		}
	}
	free := content.Dy() - used
	gap := 0
	if free > 0 && growers == 0 && b.style.Justify == JustifyBetween && len(b.children) > 1 {
		gap = free / (len(b.children) - 1)
	}

	y, grown := content.Min.Y, 0
	for _, c := range b.children {
		h := c.h
		if c.style.Grow && free > 0 {
			share := free / growers
			if grown == growers-1 {
				share = free - share*(growers-1)
			}
			h += share
			grown++
		}
		w := c.w
		if c.style.FullWidth || c.node.Kind == KindSpacer {
			w = content.Dx()
		}
		x := content.Min.X
		if b.style.Align == AlignCenter {
			x += (content.Dx() - w) / 2
		}
		place(c, image.Rect(x, y, x+w, y+h))
		y += h + c.style.MarginBottom + gap
	}
}

func placeRow(b *box, content image.Rectangle) {
	used, growers := 0, 0
	for _, c := range b.children {
		used += c.w
		if c.style.Grow {
			growers++
		}
	}
	free := content.Dx() - used
	gap := 0
	if free > 0 && growers == 0 && b.style.Justify == JustifyBetween && len(b.children) > 1 {
		gap = free / (len(b.children) - 1)
	}

	x, grown := content.Min.X, 0
	for _, c := range b.children {
		w := c.w
		if c.style.Grow && free > 0 {
			share := free / growers
			if grown == growers-1 {
				share = free - share*(growers-1)
			}
			w += share
			grown++
		}
		y := content.Min.Y
		if b.style.Align == AlignCenter {
			y += (content.Dy() - c.h) / 2
		}
		place(c, image.Rect(x, y, x+w, y+c.h))
		x += w + gap
	}
}

// wrap breaks text into lines no wider than maxW pixels. Words wider than a
// whole line are split between runes.
func wrap(face font.Face, text string, maxW int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxW <= 0 {
		return []string{strings.Join(words, " ")}
	}
	limit := fixed.I(maxW)

	var lines []string
	cur := ""
	for _, w := range words {
		if font.MeasureString(face, w) > limit {
			if cur != "" {
				lines = append(lines, cur)
			}
			pieces := splitWord(face, w, limit)
			lines = append(lines, pieces[:len(pieces)-1]...)
			cur = pieces[len(pieces)-1]
			continue
		}
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if cur != "" && font.MeasureString(face, candidate) > limit {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = candidate
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func splitWord(face font.Face, w string, limit fixed.Int26_6) []string {
	var pieces []string
	start := 0
	for i := 0; i < len(w); {
		_, size := utf8.DecodeRuneInString(w[i:])
		next := i + size
		if i > start && font.MeasureString(face, w[start:next]) > limit {
			pieces = append(pieces, w[start:i])
			start = i
		}
		i = next
	}
	return append(pieces, w[start:])
}
