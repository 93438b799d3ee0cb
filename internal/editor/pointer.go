package editor

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
)

// Cursor is the pointer affordance the host should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
	CursorMove
	CursorResizeNWSE
	CursorResizeNESW
	CursorText
)

var cursorNames = [...]string{"default", "crosshair", "move", "nwse-resize", "nesw-resize", "text"}

func (c Cursor) String() string {
	if c >= 0 && int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return fmt.Sprintf("Cursor(%d)", int(c))
}

// PointerDown starts a gesture at canvas coordinates (x, y). A pending
// text edit is committed first, as if the text widget lost focus.
func (e *Editor) PointerDown(x, y float64) {
	if e.ended {
		return
	}
	if e.edit != nil {
		e.commitEdit(e.edit.draft)
	}
	if e.dragging {
		e.PointerUp()
	}
	p := r2.Vec{X: x, Y: y}
	e.dragging = true
	e.last = p
	e.target = 0
	e.handle = geometry.HandleNone

	switch e.tool {
	case ToolSelect:
		e.selectDown(p)
	case ToolRect:
		o := e.store.Create(&annotation.Rect{
			Box:         annotation.Box{X: x, Y: y},
			Stroke:      e.style.RectStroke,
			StrokeWidth: e.style.RectWidth,
		})
		e.store.Select(o.ID)
		e.target = o.ID
		e.state = StateDrawing
	case ToolArrow:
		o := e.store.Create(&annotation.Arrow{
			X1: x, Y1: y, X2: x, Y2: y,
			Stroke:      e.style.ArrowStroke,
			StrokeWidth: e.style.ArrowWidth,
		})
		e.target = o.ID
		e.state = StateDrawing
	case ToolText:
		e.dragging = false
		o := e.store.Create(&annotation.Text{
			Box:        annotation.Box{X: x, Y: y, Width: e.style.TextWidth, Height: e.style.TextHeight},
			Content:    Placeholder,
			FontSize:   e.style.TextSize,
			FontFamily: e.style.TextFamily,
			Fill:       e.style.TextFill,
			Background: e.style.TextBackground,
			Padding:    e.style.TextPadding,
		})
		e.store.Select(o.ID)
		e.growExtent(o)
		e.commit()
		e.beginEdit(o, true)
	case ToolNumber:
		e.dragging = false
		r := e.style.StampRadius
		o := e.store.Create(&annotation.Stamp{
			X: x - r, Y: y - r,
			Radius:    r,
			Number:    e.store.NextStamp(),
			Fill:      e.style.StampFill,
			TextColor: annotation.ContrastText(e.style.StampFill),
		})
		e.growExtent(o)
		e.commit()
		e.flushImages()
	}
}

func (e *Editor) selectDown(p r2.Vec) {
	if sel := e.store.Selected(); sel != nil {
		if h := annotation.HandleAt(sel, p.X, p.Y); h != geometry.HandleNone {
			e.target = sel.ID
			e.handle = h
			e.before = sel.Shape.Bounds()
			e.state = StateResizing
			return
		}
	}
	o := e.store.TopmostAt(p.X, p.Y)
	if o == nil {
		e.store.ClearSelection()
		return
	}
	e.store.Select(o.ID)
	e.target = o.ID
	e.before = o.Shape.Bounds()
	e.state = StateMoving
}

// PointerMove updates the gesture in flight. Outside a gesture it only
// computes the cursor hint.
func (e *Editor) PointerMove(x, y float64) Cursor {
	if e.ended {
		return CursorDefault
	}
	if !e.dragging {
		return e.cursorAt(x, y)
	}
	p := r2.Vec{X: x, Y: y}
	d := r2.Sub(p, e.last)
	e.last = p
	switch e.state {
	case StateMoving, StateResizing:
		e.store.Mutate(e.target, annotation.Patch{Handle: e.handle, DX: d.X, DY: d.Y})
		if o := e.store.Get(e.target); o != nil {
			e.growExtent(o)
		}
	case StateDrawing:
		e.store.Stretch(e.target, x, y)
	}
	return e.gestureCursor()
}

// PointerUp ends the gesture, committing or discarding its result.
func (e *Editor) PointerUp() {
	if e.ended || !e.dragging {
		return
	}
	e.dragging = false
	o := e.store.Get(e.target)
	switch e.state {
	case StateDrawing:
		e.finishDraft(o)
	case StateMoving, StateResizing:
		if o != nil && o.Shape.Bounds() != e.before {
			e.commit()
		}
	}
	e.state = StateIdle
	e.target = 0
	e.handle = geometry.HandleNone
	e.flushImages()
}

func (e *Editor) finishDraft(o *annotation.Object) {
	if o == nil {
		return
	}
	switch s := o.Shape.(type) {
	case *annotation.Rect:
		if abs(s.Width) < MinDraftSize && abs(s.Height) < MinDraftSize {
			e.store.Delete(o.ID)
			return
		}
		s.X, s.Y, s.Width, s.Height = geometry.Normalize(s.X, s.Y, s.Width, s.Height)
	case *annotation.Arrow:
		if geometry.Distance(r2.Vec{X: s.X1, Y: s.Y1}, r2.Vec{X: s.X2, Y: s.Y2}) < MinArrowLength {
			e.store.Delete(o.ID)
			return
		}
	}
	e.growExtent(o)
	e.commit()
}

// DoubleClick re-opens a text object for editing when the Select tool is
// active. It reports whether an edit started.
func (e *Editor) DoubleClick(x, y float64) bool {
	if e.ended || e.tool != ToolSelect || e.busy() {
		return false
	}
	o := e.store.TopmostAt(x, y)
	if o == nil || o.Kind() != annotation.KindText {
		return false
	}
	e.store.Select(o.ID)
	e.beginEdit(o, false)
	return true
}

func (e *Editor) cursorAt(x, y float64) Cursor {
	switch e.tool {
	case ToolRect, ToolArrow, ToolNumber:
		return CursorCrosshair
	case ToolText:
		return CursorText
	}
	if sel := e.store.Selected(); sel != nil {
		if c := handleCursor(annotation.HandleAt(sel, x, y)); c != CursorDefault {
			return c
		}
	}
	if e.store.TopmostAt(x, y) != nil {
		return CursorMove
	}
	return CursorDefault
}

func (e *Editor) gestureCursor() Cursor {
	switch e.state {
	case StateResizing:
		return handleCursor(e.handle)
	case StateMoving:
		return CursorMove
	case StateDrawing:
		return CursorCrosshair
	}
	return CursorDefault
}

func handleCursor(h geometry.Handle) Cursor {
	switch h {
	case geometry.HandleTopLeft, geometry.HandleBottomRight:
		return CursorResizeNWSE
	case geometry.HandleTopRight, geometry.HandleBottomLeft:
		return CursorResizeNESW
	}
	return CursorDefault
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
