// Package ogimage renders Open Graph preview images.
//
// An image is described by a small tree of typed layout nodes (boxes, text
// runs and spacers) carrying explicit style fields. The Renderer lays the
// tree out on a fixed canvas and rasterizes it with the faces of a
// fonts.FontSet.
package ogimage

import (
	"image/color"
	"strings"
)

// Kind is the type of a layout node.
type Kind int

const (
	KindBox    Kind = iota // container laying out its children
	KindText               // run of wrapped text
	KindSpacer             // empty box that absorbs free space
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindText:
		return "text"
	case KindSpacer:
		return "spacer"
	}
	return "unknown"
}

// Direction is the main axis of a box.
type Direction int

const (
	Column Direction = iota
	Row
)

// Justify distributes free space along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyBetween
)

// Align positions children on the cross axis.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
)

// Style holds the layout and paint properties of a node. Zero values mean
// "unset": Color and FontFamily are inherited from the parent box, and a
// zero LineHeight uses DefaultLineHeight.
type Style struct {
	Direction    Direction
	Justify      Justify
	Align        Align
	Padding      int
	MarginBottom int
	Grow         bool
	FullWidth    bool

	Background color.Color
	Color      color.Color
	FontFamily string
	FontSize   float64
	LineHeight float64
}

const (
	DefaultFontSize   = 16
	DefaultLineHeight = 1.2
)

// Node is one element of the layout tree.
type Node struct {
	Kind     Kind
	Style    Style
	Text     string
	Children []*Node
}

// Box returns a container node.
func Box(style Style, children ...*Node) *Node {
	return &Node{Kind: KindBox, Style: style, Children: children}
}

// Text returns a text run. Whitespace is collapsed the way HTML does it.
func Text(s string, style Style) *Node {
	return &Node{Kind: KindText, Style: style, Text: strings.Join(strings.Fields(s), " ")}
}

// Spacer returns an empty node that absorbs the free space of its parent.
func Spacer() *Node {
	return &Node{Kind: KindSpacer, Style: Style{Grow: true}}
}

// inherit fills the unset paint properties of s from parent.
func (s Style) inherit(parent Style) Style {
	if s.Color == nil {
		s.Color = parent.Color
	}
	if s.FontFamily == "" {
		s.FontFamily = parent.FontFamily
	}
	if s.FontSize == 0 {
		s.FontSize = parent.FontSize
	}
	return s
}

// Texts returns the text of every text node in document order.
func Texts(n *Node) []string {
	var out []string
	Walk(n, func(n *Node) {
		if n.Kind == KindText {
			out = append(out, n.Text)
		}
	})
	return out
}

// Walk calls fn for n and every descendant, depth first.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
