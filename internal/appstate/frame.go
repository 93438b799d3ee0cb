package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/render"
)

// frame paints the whole window into dst.
func (c *controller) frame(dst *image.RGBA) {
	th := c.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	cw, ch := c.ed.Canvas()
	if cw > 0 && ch > 0 {
		canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))
		render.Checkerboard(canvas, canvas.Bounds(), checkerPixelSize, th.CheckerLight, th.CheckerDark)
		edit, editing := c.ed.ActiveEdit()
		objs := c.ed.Objects()
		if editing {
			objs = without(objs, edit.ID)
		}
		scaler := render.Scaler
		if c.ed.Dragging() {
			scaler = xdraw.ApproxBiLinear
		}
		render.DrawWith(canvas, objs, scaler)
		render.Overlay(canvas, c.ed.Decorated(), th.Handle)
		if editing {
			c.drawTextWidget(canvas, edit)
		}
		draw.Draw(dst, c.view(), canvas, c.scroll, draw.Src)
	}

	c.bar.draw(dst, th, c.ed.Tool())
	c.drawStatus(dst)
}

func without(objs []*annotation.Object, id int) []*annotation.Object {
	out := objs[:0:0]
	for _, o := range objs {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

// drawTextWidget paints the inline text box at the edited object, growing
// it to fit the draft.
func (c *controller) drawTextWidget(dst *image.RGBA, edit editor.Edit) {
	var obj *annotation.Object
	for _, o := range c.ed.Objects() {
		if o.ID == edit.ID {
			obj = o
			break
		}
	}
	if obj == nil {
		return
	}
	t, ok := obj.Shape.(*annotation.Text)
	if !ok {
		return
	}
	face, err := render.Face(t.FontFamily, t.FontSize)
	if err != nil {
		log.Printf("text widget: %v", err)
		return
	}
	label, fg := edit.Draft, color.Color(t.Fill)
	if label == "" {
		label = editor.Placeholder
		fg = c.theme.ToolDisabled
	}
	d := &font.Drawer{Face: face}
	w := max(int(t.Width), d.MeasureString(label).Ceil()+int(2*t.Padding))
	box := image.Rect(int(t.X), int(t.Y), int(t.X)+w, int(t.Y+t.Height))
	draw.Draw(dst, box, &image.Uniform{t.Background}, image.Point{}, draw.Over)
	outline(dst, box.Inset(-1), c.theme.EditorOutline)

	ascent := face.Metrics().Ascent.Ceil()
	d.Dst = dst
	d.Src = image.NewUniform(fg)
	d.Dot = fixed.P(box.Min.X+int(t.Padding), box.Min.Y+int(t.Padding)+ascent)
	d.DrawString(label)

	caretX := box.Min.X + int(t.Padding)
	if edit.Draft != "" {
		caretX += font.MeasureString(face, edit.Draft).Ceil()
	}
	caret := image.Rect(caretX, box.Min.Y+int(t.Padding), caretX+1, box.Min.Y+int(t.Padding)+ascent+face.Metrics().Descent.Ceil())
	draw.Draw(dst, caret, &image.Uniform{t.Fill}, image.Point{}, draw.Src)
}

// drawStatus paints the status line: the model summary on the left, the
// latest message or the tool and cursor hint on the right.
func (c *controller) drawStatus(dst *image.RGBA) {
	th := c.theme
	r := image.Rect(0, c.height-statusHeight, c.width, c.height)
	draw.Draw(dst, r, &image.Uniform{th.Status}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(6, r.Min.Y+15)}
	d.DrawString(c.ed.Status())

	right := c.ed.Tool().String()
	if c.cursor != editor.CursorDefault {
		right += " - " + c.cursor.String()
	}
	if c.message != "" && c.now().Before(c.messageUntil) {
		right = c.message
	}
	d.Dot = fixed.P(c.width-6-d.MeasureString(right).Ceil(), r.Min.Y+15)
	d.DrawString(right)
}
