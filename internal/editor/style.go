package editor

import (
	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/render"
)

// Placeholder is the content of a freshly placed text object until its
// first edit is confirmed.
const Placeholder = "Enter text"

// Style holds the attributes given to newly created objects.
type Style struct {
	RectStroke annotation.Color
	RectWidth  float64

	ArrowStroke annotation.Color
	ArrowWidth  float64

	TextSize       float64
	TextFamily     string
	TextFill       annotation.Color
	TextBackground annotation.Color
	TextPadding    float64
	TextWidth      float64
	TextHeight     float64

	StampRadius float64
	StampFill   annotation.Color
}

// DefaultStyle returns the stock look: red strokes, black text on a
// translucent white box.
func DefaultStyle() Style {
	red := annotation.Color{R: 0xff, G: 0x3b, B: 0x30, A: 0xff}
	return Style{
		RectStroke:     red,
		RectWidth:      3,
		ArrowStroke:    red,
		ArrowWidth:     3,
		TextSize:       18,
		TextFamily:     render.FamilyRegular,
		TextFill:       annotation.Color{A: 0xff},
		TextBackground: annotation.Color{R: 0xff, G: 0xff, B: 0xff, A: 230},
		TextPadding:    8,
		TextWidth:      200,
		TextHeight:     40,
		StampRadius:    16,
		StampFill:      red,
	}
}

// TextMeasurer reports the rendered width of a single line of text.
type TextMeasurer interface {
	TextWidth(text, family string, size float64) float64
}
