package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/ingest"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/theme"
)

const (
	doubleClickTime  = 400 * time.Millisecond
	doubleClickSlop  = 4
	scrollStep       = 40
	messageDuration  = 2 * time.Second
	captureTimeout   = time.Minute
	checkerPixelSize = 8
)

// imageEvent carries a finished paste or capture back to the event loop.
type imageEvent struct {
	what string
	img  ingest.Image
	err  error
}

// blurEvent fires once editor.BlurGrace has passed after focus loss.
type blurEvent struct{ tok editor.EditToken }

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// controller translates window events into editor calls. It owns no
// window so it can be driven directly.
type controller struct {
	ed       *editor.Editor
	theme    *theme.Theme
	notifier *notify.Notifier
	output   string
	saveDir  string
	capOpts  capture.Options

	width, height int
	scroll        image.Point
	bar           *toolbar
	keys          map[KeyShortcut]string
	actions       map[string]func()

	cursor       editor.Cursor
	message      string
	messageUntil time.Time
	lastClick    time.Time
	lastPos      image.Point
	double       bool
	pressed      bool
	focused      bool
	quit         bool

	send      func(any)
	now       func() time.Time
	after     func(time.Duration, func())
	copyImage func(image.Image) error
	paste     func() (ingest.Image, error)
	capture   func(context.Context, capture.Options) (ingest.Image, error)
}

func newController(a *AppState, send func(any)) *controller {
	c := &controller{
		ed:        a.Editor,
		theme:     a.Theme,
		notifier:  a.Notifier,
		output:    a.Output,
		saveDir:   a.SaveDir,
		capOpts:   a.CaptureOptions,
		bar:       newToolbar(),
		focused:   true,
		send:      send,
		now:       time.Now,
		after:     func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		copyImage: clipboard.WriteImage,
		paste:     ingest.FromClipboard,
		capture:   ingest.FromCapture,
	}
	if c.theme == nil {
		c.theme = theme.Default()
	}
	c.register()
	return c
}

func (c *controller) register() {
	c.keys = map[KeyShortcut]string{}
	c.actions = map[string]func(){}
	bind := func(name string, fn func(), keys ...KeyShortcut) {
		c.actions[name] = fn
		for _, k := range keys {
			c.keys[k] = name
		}
	}
	tool := func(t editor.Tool) func() { return func() { c.ed.SetTool(t) } }

	bind("select", tool(editor.ToolSelect), KeyShortcut{Rune: 'v'})
	bind("rect", tool(editor.ToolRect), KeyShortcut{Rune: 'r'})
	bind("arrow", tool(editor.ToolArrow), KeyShortcut{Rune: 'a'})
	bind("text", tool(editor.ToolText), KeyShortcut{Rune: 't'})
	bind("number", tool(editor.ToolNumber), KeyShortcut{Rune: 'n'})
	bind("undo", func() { c.ed.Undo() }, KeyShortcut{Rune: 'z', Modifiers: key.ModControl})
	bind("redo", func() { c.ed.Redo() },
		KeyShortcut{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		KeyShortcut{Rune: 'y', Modifiers: key.ModControl})
	bind("delete", func() { c.ed.DeleteSelected() },
		KeyShortcut{Code: key.CodeDeleteForward},
		KeyShortcut{Code: key.CodeDeleteBackspace})
	bind("paste", c.startPaste, KeyShortcut{Rune: 'v', Modifiers: key.ModControl})
	bind("capture", c.startCapture, KeyShortcut{Rune: 'n', Modifiers: key.ModControl})
	bind("copy", c.copyExport, KeyShortcut{Rune: 'c', Modifiers: key.ModControl})
	bind("save", c.saveExport, KeyShortcut{Rune: 's', Modifiers: key.ModControl})
	bind("quit", c.requestQuit, KeyShortcut{Rune: 'q'})

	selectTool := func(t editor.Tool) { c.ed.SetTool(t) }
	for i, t := range []editor.Tool{editor.ToolSelect, editor.ToolRect, editor.ToolArrow, editor.ToolText, editor.ToolNumber} {
		label := fmt.Sprintf("%c:%s", []rune("vratn")[i], t)
		c.bar.add(0, &ToolButton{labelButton: labelButton{label: label}, tool: t, onSelect: selectTool})
	}
	action := func(group int, label, name string, enabled func() bool) {
		c.bar.add(group, &ActionButton{labelButton: labelButton{label: label}, enabled: enabled, onActivate: c.actions[name]})
	}
	action(1, "Undo", "undo", c.ed.CanUndo)
	action(1, "Redo", "redo", c.ed.CanRedo)
	action(1, "Delete", "delete", func() bool { return c.ed.Selected() != nil && c.ed.State() == editor.StateIdle })
	action(2, "Paste", "paste", nil)
	action(2, "Capture", "capture", nil)
	action(3, "Copy", "copy", c.ed.CanExport)
	action(3, "Save", "save", c.ed.CanExport)
	c.bar.layout()
}

func (c *controller) resize(w, h int) {
	c.width, c.height = w, h
	c.clampScroll()
}

// view is the window area showing the canvas.
func (c *controller) view() image.Rectangle {
	return image.Rect(0, toolbarHeight, c.width, c.height-statusHeight)
}

func (c *controller) toCanvas(p image.Point) (float64, float64) {
	q := p.Sub(c.view().Min).Add(c.scroll)
	return float64(q.X), float64(q.Y)
}

func (c *controller) clampScroll() {
	cw, ch := c.ed.Canvas()
	v := c.view()
	maxX, maxY := cw-v.Dx(), ch-v.Dy()
	c.scroll.X = min(max(c.scroll.X, 0), max(maxX, 0))
	c.scroll.Y = min(max(c.scroll.Y, 0), max(maxY, 0))
}

func (c *controller) flash(format string, args ...any) {
	c.message = fmt.Sprintf(format, args...)
	c.messageUntil = c.now().Add(messageDuration)
	log.Print(c.message)
}

// handleMouse reports whether the window needs repainting.
func (c *controller) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))

	if e.Direction == mouse.DirStep || e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
		return c.wheel(e)
	}

	if !c.pressed && p.Y < toolbarHeight {
		hover := c.bar.hit(p)
		changed := hover != c.bar.hover
		c.bar.hover = hover
		if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && hover >= 0 {
			c.bar.buttons[hover].Activate()
			return true
		}
		return changed
	}
	if c.bar.hover != -1 {
		c.bar.hover = -1
	}

	x, y := c.toCanvas(p)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft || !p.In(c.view()) {
			return false
		}
		now := c.now()
		d := p.Sub(c.lastPos)
		c.double = now.Sub(c.lastClick) <= doubleClickTime && abs(d.X) <= doubleClickSlop && abs(d.Y) <= doubleClickSlop
		c.lastClick, c.lastPos = now, p
		if c.double {
			c.lastClick = time.Time{}
		}
		c.pressed = true
		c.ed.PointerDown(x, y)
		return true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || !c.pressed {
			return false
		}
		c.pressed = false
		c.ed.PointerUp()
		if c.double {
			c.double = false
			c.ed.DoubleClick(x, y)
		}
		return true
	default:
		cur := c.ed.PointerMove(x, y)
		changed := cur != c.cursor || c.pressed
		c.cursor = cur
		return changed
	}
}

func (c *controller) wheel(e mouse.Event) bool {
	step := scrollStep
	if e.Button == mouse.ButtonWheelUp {
		step = -step
	}
	before := c.scroll
	if e.Modifiers&key.ModShift != 0 {
		c.scroll.X += step
	} else {
		c.scroll.Y += step
	}
	c.clampScroll()
	return c.scroll != before
}

// handleKey reports whether the window needs repainting.
func (c *controller) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if ed, ok := c.ed.ActiveEdit(); ok {
		return c.editKey(ed, e)
	}
	mods := e.Modifiers & (key.ModControl | key.ModShift | key.ModAlt | key.ModMeta)
	if e.Rune > 0 {
		r := unicode.ToLower(e.Rune)
		if r < 0x20 && mods&key.ModControl != 0 {
			// Some drivers report Ctrl+letter as a control character.
			r += 'a' - 1
		}
		m := mods
		if m&key.ModControl == 0 {
			// Shift only changes the rune for plain letters.
			m &^= key.ModShift
		}
		if name, ok := c.keys[KeyShortcut{Rune: r, Modifiers: m}]; ok {
			c.actions[name]()
			return true
		}
	}
	if name, ok := c.keys[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
		c.actions[name]()
		return true
	}
	return false
}

// editKey feeds the text widget while an edit is open.
func (c *controller) editKey(ed editor.Edit, e key.Event) bool {
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		c.ed.CommitText(ed.Token, ed.Draft)
		return true
	case key.CodeEscape:
		c.ed.CancelText(ed.Token)
		return true
	case key.CodeDeleteBackspace:
		if ed.Draft == "" {
			return false
		}
		_, n := utf8.DecodeLastRuneInString(ed.Draft)
		return c.ed.SetDraft(ed.Token, ed.Draft[:len(ed.Draft)-n])
	}
	if e.Modifiers&(key.ModControl|key.ModMeta) != 0 || e.Rune < 0 || !unicode.IsPrint(e.Rune) {
		return false
	}
	return c.ed.SetDraft(ed.Token, ed.Draft+string(e.Rune))
}

// handleFocus starts or withdraws the blur grace period of an open edit.
func (c *controller) handleFocus(focused bool) {
	if focused == c.focused {
		return
	}
	c.focused = focused
	ed, ok := c.ed.ActiveEdit()
	if !ok {
		return
	}
	if focused {
		c.ed.Focus(ed.Token)
		return
	}
	if c.ed.Blur(ed.Token) {
		tok := ed.Token
		c.after(editor.BlurGrace, func() { c.send(blurEvent{tok: tok}) })
	}
}

func (c *controller) handleBlur(e blurEvent) bool { return c.ed.FinishBlur(e.tok) }

func (c *controller) handleImage(e imageEvent) bool {
	if e.err != nil {
		c.flash("%s: %v", e.what, e.err)
		return true
	}
	c.ed.InsertImage(e.img.Source, e.img.Width, e.img.Height)
	c.flash("%s: inserted %dx%d image", e.what, e.img.Width, e.img.Height)
	return true
}

func (c *controller) startPaste() {
	go func() {
		img, err := c.paste()
		c.send(imageEvent{what: "paste", img: img, err: err})
	}()
}

func (c *controller) startCapture() {
	opts := c.capOpts
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
		defer cancel()
		img, err := c.capture(ctx, opts)
		c.send(imageEvent{what: "capture", img: img, err: err})
	}()
}

func (c *controller) copyExport() {
	if !c.ed.CanExport() {
		c.flash("nothing to copy")
		return
	}
	if err := c.copyImage(c.ed.Flatten()); err != nil {
		c.flash("copy: %v", err)
		return
	}
	c.flash("image copied to clipboard")
	c.notifier.Copy("image")
}

// exportPath is the configured output or a timestamped name in the save
// directory.
func (c *controller) exportPath() string {
	if c.output != "" {
		return c.output
	}
	dir := c.saveDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, render.Filename(c.now()))
}

func (c *controller) saveExport() {
	if !c.ed.CanExport() {
		c.flash("nothing to save")
		return
	}
	path := c.exportPath()
	if err := writePNG(path, c.ed.Flatten()); err != nil {
		c.flash("save: %v", err)
		return
	}
	c.flash("saved %s", path)
	c.notifier.Save(path)
}

func (c *controller) requestQuit() {
	c.ed.EndSession()
	c.quit = true
}

// writePNG creates parent directories and writes img to path.
func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.EncodePNG(out, img); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("save: closing file: %v", cerr)
		}
		return err
	}
	return out.Close()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
