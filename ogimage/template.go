package ogimage

import (
	"image/color"
	"time"

	"github.com/kristoferlund/ogengine/fonts"
)

const (
	Width  = 1200
	Height = 630
)

var (
	panelBackground = color.NRGBA{A: 230}
	white           = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	dimmedWhite     = color.NRGBA{R: 255, G: 255, B: 255, A: 128}
)

// Card is the text shown on a post card.
type Card struct {
	Author      string
	Date        string
	Title       string
	Description string
}

// FormatDate returns the calendar date of t's ISO-8601 (UTC) representation.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PostCard builds the post preview: author and date on top, then the title
// in bold and the dimmed description anchored to the bottom of a dark panel.
func PostCard(c Card) *Node {
	return Box(Style{
		Direction:  Column,
		Justify:    JustifyBetween,
		Align:      AlignStart,
		Padding:    80,
		FullWidth:  true,
		Background: panelBackground,
		Color:      white,
		FontFamily: fonts.RegularFamily,
	},
		Box(Style{Direction: Row, Justify: JustifyBetween, Align: AlignCenter, FullWidth: true},
			Text(c.Author, Style{FontSize: 30, LineHeight: 1.2}),
			Text(c.Date, Style{FontSize: 30, LineHeight: 1.2}),
		),
		Spacer(),
		Text(c.Title, Style{
			FontFamily:   fonts.BoldFamily,
			FontSize:     60,
			LineHeight:   1.5,
			MarginBottom: 20,
		}),
		Text(c.Description, Style{
			FontSize:   36,
			LineHeight: 1.5,
			Color:      dimmedWhite,
		}),
	)
}
