package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/theme"
)

const (
	toolbarHeight = 28
	statusHeight  = 22
	buttonGap     = 4
	groupGap      = 14
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
)

// Button represents an interactive toolbar element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, th *theme.Theme, state ButtonState)
	Label() string
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Enabled() bool
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	th    *theme.Theme
	cache [4]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	if th != cb.th {
		cb.th = th
		cb.cache = [4]*image.RGBA{}
	}
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, th, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [4]*image.RGBA{}
	}
}

// labelButton is the shared look of every toolbar button.
type labelButton struct {
	label string
	rect  image.Rectangle
}

func (b *labelButton) Label() string             { return b.label }
func (b *labelButton) Rect() image.Rectangle     { return b.rect }
func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *labelButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	bg := th.Toolbar
	fg := th.ToolbarText
	switch state {
	case StateHover:
		bg = blend(th.Toolbar, th.ToolActive, 0.5)
	case StatePressed:
		bg = th.ToolActive
	case StateDisabled:
		fg = th.ToolDisabled
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	outline(dst, b.rect, th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+6, b.rect.Min.Y+(b.rect.Dy()+10)/2)}
	d.DrawString(b.label)
}

// ToolButton selects a pointer tool.
type ToolButton struct {
	labelButton
	tool     editor.Tool
	onSelect func(editor.Tool)
}

func (tb *ToolButton) Enabled() bool { return true }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect(tb.tool)
	}
}

// ActionButton runs a command, greyed out while enabled reports false.
type ActionButton struct {
	labelButton
	enabled    func() bool
	onActivate func()
}

func (ab *ActionButton) Enabled() bool { return ab.enabled == nil || ab.enabled() }

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil && ab.Enabled() {
		ab.onActivate()
	}
}

type toolbar struct {
	buttons []*CacheButton
	groups  []int
	hover   int
}

func newToolbar() *toolbar { return &toolbar{hover: -1} }

func (t *toolbar) add(group int, b Button) {
	t.buttons = append(t.buttons, &CacheButton{Button: b})
	t.groups = append(t.groups, group)
}

// layout places buttons left to right, sized to their labels, with a wider
// gap between groups.
func (t *toolbar) layout() {
	d := &font.Drawer{Face: basicfont.Face7x13}
	x := buttonGap
	for i, b := range t.buttons {
		if i > 0 && t.groups[i] != t.groups[i-1] {
			x += groupGap
		}
		w := d.MeasureString(b.Label()).Ceil() + 12
		b.SetRect(image.Rect(x, 3, x+w, toolbarHeight-3))
		x += w + buttonGap
	}
}

// hit returns the index of the button under p, or -1.
func (t *toolbar) hit(p image.Point) int {
	for i, b := range t.buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

func (t *toolbar) draw(dst *image.RGBA, th *theme.Theme, active editor.Tool) {
	bar := image.Rect(0, 0, dst.Bounds().Dx(), toolbarHeight)
	draw.Draw(dst, bar, &image.Uniform{th.Toolbar}, image.Point{}, draw.Src)
	for i, b := range t.buttons {
		state := StateDefault
		switch {
		case !b.Enabled():
			state = StateDisabled
		case isTool(b, active):
			state = StatePressed
		case i == t.hover:
			state = StateHover
		}
		b.Draw(dst, th, state)
	}
}

func isTool(b *CacheButton, t editor.Tool) bool {
	tb, ok := b.Button.(*ToolButton)
	return ok && tb.tool == t
}

func outline(dst *image.RGBA, r image.Rectangle, c color.Color) {
	u := &image.Uniform{c}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x)*(1-t) + float64(y)*t + 0.5) }
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}
