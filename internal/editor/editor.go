// Package editor is the pointer driven interaction state machine. It turns
// gestures into changes of an annotation.Store and records them in a
// history.Manager at gesture boundaries.
//
// An Editor is not safe for concurrent use. Hosts deliver every event,
// including completed image decodes, from one goroutine.
package editor

import (
	"fmt"
	"image"
	"log"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
	"github.com/example/snapmark/internal/history"
	"github.com/example/snapmark/internal/render"
)

// Tool is the active pointer tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRect
	ToolArrow
	ToolText
	ToolNumber
)

var toolNames = [...]string{"select", "rect", "arrow", "text", "number"}

func (t Tool) String() string {
	if int(t) < len(toolNames) && t >= 0 {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool maps a tool name back to its Tool.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// State is the interaction state.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateMoving
	StateResizing
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateMoving:
		return "moving"
	case StateResizing:
		return "resizing"
	case StateEditing:
		return "editing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	// MinDraftSize is the extent below which, on both axes, a drawn
	// rectangle is discarded.
	MinDraftSize = 5
	// MinArrowLength is the shortest arrow kept at pointer up.
	MinArrowLength = 10
)

// DefaultImageCap bounds the initial size of inserted images.
var DefaultImageCap = image.Pt(1600, 1200)

// Editor owns the live annotation model and its undo history.
type Editor struct {
	store   *annotation.Store
	hist    *history.Manager
	style   Style
	measure TextMeasurer

	histCap    int
	canvas     image.Point
	imageCap   image.Point
	imageScale float64
	onExtent   func(width, height int)

	tool     Tool
	state    State
	dragging bool
	ended    bool

	last   r2.Vec
	target int
	handle geometry.Handle
	before annotation.Bounds

	edit    *editSession
	tokens  EditToken
	pending []pendingImage
}

// Option configures an Editor.
type Option func(*Editor)

// WithStyle sets the attributes of new objects.
func WithStyle(s Style) Option { return func(e *Editor) { e.style = s } }

// WithMeasurer replaces the font measurer used to size text objects.
func WithMeasurer(m TextMeasurer) Option { return func(e *Editor) { e.measure = m } }

// WithHistoryCapacity bounds the undo ring.
func WithHistoryCapacity(n int) Option { return func(e *Editor) { e.histCap = n } }

// WithCanvas sets the initial drawing surface size.
func WithCanvas(width, height int) Option {
	return func(e *Editor) { e.canvas = image.Pt(width, height) }
}

// WithImageCap sets the size above which inserted images are shrunk to fit.
func WithImageCap(width, height int) Option {
	return func(e *Editor) { e.imageCap = image.Pt(width, height) }
}

// WithImageScale sets the factor applied to images that fit within the cap.
func WithImageScale(f float64) Option { return func(e *Editor) { e.imageScale = f } }

// WithExtentListener registers fn to be told whenever the required canvas
// size changes.
func WithExtentListener(fn func(width, height int)) Option {
	return func(e *Editor) { e.onExtent = fn }
}

// New returns an editor in Idle with the Select tool and records the
// initial empty state.
func New(opts ...Option) *Editor {
	e := &Editor{
		style:      DefaultStyle(),
		measure:    render.Measurer{},
		histCap:    history.DefaultCapacity,
		imageCap:   DefaultImageCap,
		imageScale: 0.5,
	}
	for _, o := range opts {
		o(e)
	}
	e.store = annotation.NewStore(e.canvas.X, e.canvas.Y)
	e.hist = history.New(e.histCap)
	e.commit()
	return e
}

// commit records the live state. Encoding cannot fail for the closed set
// of shapes; if it does the entry is skipped.
func (e *Editor) commit() {
	if err := e.hist.Record(e.store.Objects(), e.store.Counters()); err != nil {
		log.Printf("editor: %v", err)
	}
}

func (e *Editor) growExtent(o *annotation.Object) {
	if e.store.EnsureExtent(o) {
		e.reportExtent()
	}
}

func (e *Editor) reportExtent() {
	if e.onExtent != nil {
		c := e.store.Counters()
		e.onExtent(c.CanvasWidth, c.CanvasHeight)
	}
}

func (e *Editor) busy() bool { return e.dragging || e.state != StateIdle }

// SetTool switches tools. An edit in progress is cancelled and a gesture
// in progress is finished at its last point. The selection is cleared.
func (e *Editor) SetTool(t Tool) {
	if e.ended {
		return
	}
	if e.edit != nil {
		e.cancelEdit()
	}
	if e.dragging {
		e.PointerUp()
	}
	e.store.ClearSelection()
	e.tool = t
}

// EndSession cancels any edit, finishes any gesture and ignores every
// later event.
func (e *Editor) EndSession() {
	if e.ended {
		return
	}
	if e.edit != nil {
		e.cancelEdit()
	}
	if e.dragging {
		e.PointerUp()
	}
	e.pending = nil
	e.ended = true
}

// DeleteSelected removes the selected object. It only acts from Idle.
func (e *Editor) DeleteSelected() bool {
	if e.ended || e.busy() {
		return false
	}
	sel := e.store.Selected()
	if sel == nil {
		return false
	}
	e.store.Delete(sel.ID)
	e.commit()
	return true
}

// Undo steps back one history entry. It only acts from Idle.
func (e *Editor) Undo() bool {
	if e.ended || e.busy() {
		return false
	}
	return e.navigate(e.hist.Undo)
}

// Redo steps forward one history entry. It only acts from Idle.
func (e *Editor) Redo() bool {
	if e.ended || e.busy() {
		return false
	}
	return e.navigate(e.hist.Redo)
}

func (e *Editor) navigate(step func(history.Target) (bool, error)) bool {
	before := e.store.Counters()
	ok, err := step(e.store)
	if err != nil {
		log.Printf("editor: %v", err)
		return false
	}
	if c := e.store.Counters(); ok && (c.CanvasWidth != before.CanvasWidth || c.CanvasHeight != before.CanvasHeight) {
		e.reportExtent()
	}
	return ok
}

func (e *Editor) Tool() Tool { return e.tool }

func (e *Editor) State() State { return e.state }

// Dragging reports whether a gesture is in flight.
func (e *Editor) Dragging() bool { return e.dragging }

// Objects returns the live sequence in z-order for drawing.
func (e *Editor) Objects() []*annotation.Object { return e.store.Objects() }

func (e *Editor) Selected() *annotation.Object { return e.store.Selected() }

// Decorated returns the object that should carry selection handles: the
// selection, but only while the Select tool is active.
func (e *Editor) Decorated() *annotation.Object {
	if e.tool != ToolSelect {
		return nil
	}
	return e.store.Selected()
}

func (e *Editor) Counters() annotation.Counters { return e.store.Counters() }

// Canvas returns the current drawing surface size.
func (e *Editor) Canvas() (int, int) {
	c := e.store.Counters()
	return c.CanvasWidth, c.CanvasHeight
}

func (e *Editor) CanUndo() bool { return !e.busy() && e.hist.CanUndo() }

func (e *Editor) CanRedo() bool { return !e.busy() && e.hist.CanRedo() }

// CanExport reports whether there is anything to export.
func (e *Editor) CanExport() bool { return e.store.Len() > 0 }

// Flatten renders the live objects without selection decoration.
func (e *Editor) Flatten() *image.RGBA {
	w, h := e.Canvas()
	return render.Flatten(e.store.Objects(), w, h)
}

// Status summarizes the model for the host's status bar.
func (e *Editor) Status() string {
	i, n := e.hist.Position()
	return fmt.Sprintf("objects: %d | history: %d/%d", e.store.Len(), i, n)
}

// History exposes the undo ring position as (current, total).
func (e *Editor) History() (int, int) { return e.hist.Position() }
