package appstate

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/ingest"
	"github.com/example/snapmark/internal/theme"
)

type runeMeasurer float64

func (m runeMeasurer) TextWidth(text, _ string, _ float64) float64 {
	return float64(len([]rune(text))) * float64(m)
}

type harness struct {
	*controller
	t      *testing.T
	clock  time.Time
	sent   chan any
	timers []func()
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	opts = append([]Option{WithEditorOptions(editor.WithMeasurer(runeMeasurer(10)), editor.WithCanvas(400, 300))}, opts...)
	a := New(opts...)
	h := &harness{t: t, clock: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), sent: make(chan any, 8)}
	h.controller = newController(a, func(e any) { h.sent <- e })
	h.now = func() time.Time { return h.clock }
	h.after = func(_ time.Duration, fn func()) { h.timers = append(h.timers, fn) }
	h.copyImage = func(image.Image) error { return errors.New("no clipboard in tests") }
	h.resize(800, 600)
	return h
}

// canvas converts canvas coordinates to window coordinates.
func canvas(x, y float32) (float32, float32) { return x, y + toolbarHeight }

func (h *harness) press(x, y float32) {
	wx, wy := canvas(x, y)
	h.handleMouse(mouse.Event{X: wx, Y: wy, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
}

func (h *harness) move(x, y float32) {
	wx, wy := canvas(x, y)
	h.handleMouse(mouse.Event{X: wx, Y: wy, Direction: mouse.DirNone})
}

func (h *harness) release(x, y float32) {
	wx, wy := canvas(x, y)
	h.handleMouse(mouse.Event{X: wx, Y: wy, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func (h *harness) drag(x0, y0, x1, y1 float32) {
	h.press(x0, y0)
	h.move(x1, y1)
	h.release(x1, y1)
	h.clock = h.clock.Add(time.Second)
}

func (h *harness) typeRunes(s string) {
	for _, r := range s {
		h.handleKey(key.Event{Rune: r, Direction: key.DirPress})
	}
}

func (h *harness) code(c key.Code, mods key.Modifiers) {
	h.handleKey(key.Event{Rune: -1, Code: c, Modifiers: mods, Direction: key.DirPress})
}

func (h *harness) clickButton(label string) {
	h.t.Helper()
	for _, b := range h.bar.buttons {
		if b.Label() == label {
			c := b.Rect().Min.Add(b.Rect().Size().Div(2))
			h.handleMouse(mouse.Event{X: float32(c.X), Y: float32(c.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
			return
		}
	}
	h.t.Fatalf("no button %q", label)
}

func onlyText(t *testing.T, ed *editor.Editor) *annotation.Text {
	t.Helper()
	objs := ed.Objects()
	if len(objs) != 1 {
		t.Fatalf("objects = %d, want 1", len(objs))
	}
	tx, ok := objs[0].Shape.(*annotation.Text)
	if !ok {
		t.Fatalf("object is %s, want text", objs[0].Kind())
	}
	return tx
}

func TestToolbarSelectsTool(t *testing.T) {
	h := newHarness(t)
	h.clickButton("r:rect")
	if h.ed.Tool() != editor.ToolRect {
		t.Fatalf("tool = %v", h.ed.Tool())
	}
	h.clickButton("n:number")
	if h.ed.Tool() != editor.ToolNumber {
		t.Fatalf("tool = %v", h.ed.Tool())
	}
}

func TestDragDrawsRect(t *testing.T) {
	h := newHarness(t)
	h.ed.SetTool(editor.ToolRect)
	h.drag(20, 20, 120, 100)
	objs := h.ed.Objects()
	if len(objs) != 1 {
		t.Fatalf("objects = %d", len(objs))
	}
	r := objs[0].Shape.(*annotation.Rect)
	if r.X != 20 || r.Y != 20 || r.Width != 100 || r.Height != 80 {
		t.Fatalf("rect = %+v", r.Box)
	}
}

func TestShortcuts(t *testing.T) {
	h := newHarness(t)
	h.typeRunes("r")
	if h.ed.Tool() != editor.ToolRect {
		t.Fatalf("r: tool = %v", h.ed.Tool())
	}
	h.drag(10, 10, 60, 60)

	h.handleKey(key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress})
	if n := len(h.ed.Objects()); n != 0 {
		t.Fatalf("after undo objects = %d", n)
	}
	h.handleKey(key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift, Direction: key.DirPress})
	if n := len(h.ed.Objects()); n != 1 {
		t.Fatalf("after ctrl+shift+z objects = %d", n)
	}
	h.handleKey(key.Event{Rune: 0x1a, Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress})
	if n := len(h.ed.Objects()); n != 0 {
		t.Fatalf("control character undo: objects = %d", n)
	}
	h.handleKey(key.Event{Rune: 'y', Code: key.CodeY, Modifiers: key.ModControl, Direction: key.DirPress})
	if n := len(h.ed.Objects()); n != 1 {
		t.Fatalf("after ctrl+y objects = %d", n)
	}

	h.typeRunes("V")
	if h.ed.Tool() != editor.ToolSelect {
		t.Fatalf("V: tool = %v", h.ed.Tool())
	}
	h.press(10, 30)
	h.release(10, 30)
	if h.ed.Selected() == nil {
		t.Fatalf("click on the rect edge did not select it")
	}
	h.code(key.CodeDeleteForward, 0)
	if n := len(h.ed.Objects()); n != 0 {
		t.Fatalf("after delete objects = %d", n)
	}
}

func TestTextEntry(t *testing.T) {
	h := newHarness(t)
	h.typeRunes("t")
	h.press(50, 50)
	h.release(50, 50)
	if _, ok := h.ed.ActiveEdit(); !ok {
		t.Fatalf("no edit after text click")
	}
	h.typeRunes("hiя")
	h.code(key.CodeDeleteBackspace, 0)
	h.typeRunes("!")
	edit, _ := h.ed.ActiveEdit()
	if edit.Draft != "hi!" {
		t.Fatalf("draft = %q", edit.Draft)
	}
	h.code(key.CodeReturnEnter, 0)
	if _, ok := h.ed.ActiveEdit(); ok {
		t.Fatalf("edit still open after enter")
	}
	if got := onlyText(t, h.ed).Content; got != "hi!" {
		t.Fatalf("content = %q", got)
	}
}

func TestEscapeDropsPlaceholder(t *testing.T) {
	h := newHarness(t)
	h.ed.SetTool(editor.ToolText)
	h.press(5, 5)
	h.release(5, 5)
	h.code(key.CodeEscape, 0)
	if n := len(h.ed.Objects()); n != 0 {
		t.Fatalf("objects = %d after cancelling a fresh text", n)
	}
}

func TestBlurCommitsAfterGrace(t *testing.T) {
	h := newHarness(t)
	h.ed.SetTool(editor.ToolText)
	h.press(5, 5)
	h.release(5, 5)
	h.typeRunes("ok")

	h.handleFocus(false)
	if len(h.timers) != 1 {
		t.Fatalf("timers = %d", len(h.timers))
	}
	h.timers[0]()
	ev := (<-h.sent).(blurEvent)
	if !h.handleBlur(ev) {
		t.Fatalf("blur event ignored")
	}
	if got := onlyText(t, h.ed).Content; got != "ok" {
		t.Fatalf("content = %q", got)
	}
}

func TestRefocusCancelsBlur(t *testing.T) {
	h := newHarness(t)
	h.ed.SetTool(editor.ToolText)
	h.press(5, 5)
	h.release(5, 5)
	h.typeRunes("ok")

	h.handleFocus(false)
	h.handleFocus(true)
	h.timers[0]()
	if h.handleBlur((<-h.sent).(blurEvent)) {
		t.Fatalf("blur committed after focus returned")
	}
	if _, ok := h.ed.ActiveEdit(); !ok {
		t.Fatalf("edit closed")
	}
}

func TestDoubleClickReopensText(t *testing.T) {
	h := newHarness(t)
	h.ed.SetTool(editor.ToolText)
	h.press(50, 50)
	h.release(50, 50)
	h.typeRunes("abc")
	h.code(key.CodeReturnEnter, 0)
	h.clock = h.clock.Add(time.Second)

	h.typeRunes("v")
	h.press(60, 60)
	h.release(60, 60)
	if _, ok := h.ed.ActiveEdit(); ok {
		t.Fatalf("single click opened an edit")
	}
	h.clock = h.clock.Add(100 * time.Millisecond)
	h.press(61, 60)
	h.release(61, 60)
	edit, ok := h.ed.ActiveEdit()
	if !ok {
		t.Fatalf("double click did not open an edit")
	}
	if edit.Initial != "abc" {
		t.Fatalf("initial = %q", edit.Initial)
	}
}

func pngImage(t *testing.T, w, hgt int) ingest.Image {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, hgt))); err != nil {
		t.Fatal(err)
	}
	img, err := ingest.Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestPasteInsertsImage(t *testing.T) {
	h := newHarness(t)
	img := pngImage(t, 40, 20)
	h.paste = func() (ingest.Image, error) { return img, nil }
	h.actions["paste"]()
	ev := (<-h.sent).(imageEvent)
	h.handleImage(ev)
	objs := h.ed.Objects()
	if len(objs) != 1 || objs[0].Kind() != annotation.KindImage {
		t.Fatalf("objects = %+v", objs)
	}
	if !strings.Contains(h.message, "40x20") {
		t.Fatalf("message = %q", h.message)
	}

	h.paste = func() (ingest.Image, error) { return ingest.Image{}, ingest.ErrNoImage }
	h.actions["paste"]()
	h.handleImage((<-h.sent).(imageEvent))
	if !strings.Contains(h.message, "no image") {
		t.Fatalf("error message = %q", h.message)
	}
	if n := len(h.ed.Objects()); n != 1 {
		t.Fatalf("failed paste changed objects: %d", n)
	}
}

func TestSaveExport(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t, WithSaveDir(dir))
	h.actions["save"]()
	if !strings.Contains(h.message, "nothing") {
		t.Fatalf("empty save message = %q", h.message)
	}

	h.ed.SetTool(editor.ToolRect)
	h.drag(10, 10, 50, 50)
	h.actions["save"]()
	path := filepath.Join(dir, "annotated_20260102_030406.png")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v (message %q)", err, h.message)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 400 || cfg.Height != 300 {
		t.Fatalf("export size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSaveToOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sub", "out.png")
	h := newHarness(t, WithOutput(out))
	h.ed.SetTool(editor.ToolNumber)
	h.press(30, 30)
	h.release(30, 30)
	h.actions["save"]()
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}

func TestCopyReportsError(t *testing.T) {
	h := newHarness(t)
	h.ed.SetTool(editor.ToolNumber)
	h.press(30, 30)
	h.release(30, 30)
	var got image.Image
	h.copyImage = func(img image.Image) error { got = img; return nil }
	h.actions["copy"]()
	if got == nil || got.Bounds().Dx() != 400 {
		t.Fatalf("copied image = %v", got)
	}
	h.copyImage = func(image.Image) error { return errors.New("boom") }
	h.actions["copy"]()
	if !strings.Contains(h.message, "boom") {
		t.Fatalf("message = %q", h.message)
	}
}

func TestDisabledButtons(t *testing.T) {
	h := newHarness(t)
	for _, b := range h.bar.buttons {
		switch b.Label() {
		case "Undo", "Redo", "Delete", "Copy", "Save":
			if b.Enabled() {
				t.Errorf("%s enabled on an empty canvas", b.Label())
			}
		}
	}
	h.clickButton("Undo")
	if i, n := h.ed.History(); i != 1 || n != 1 {
		t.Fatalf("history = %d/%d", i, n)
	}
}

func TestWheelScroll(t *testing.T) {
	h := newHarness(t, WithEditorOptions(editor.WithCanvas(400, 2000)))
	h.handleMouse(mouse.Event{Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
	if h.scroll.Y != scrollStep {
		t.Fatalf("scroll = %v", h.scroll)
	}
	for i := 0; i < 5; i++ {
		h.handleMouse(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	}
	if h.scroll.Y != 0 {
		t.Fatalf("scroll below zero: %v", h.scroll)
	}
	h.handleMouse(mouse.Event{Button: mouse.ButtonWheelDown, Direction: mouse.DirStep, Modifiers: key.ModShift})
	if h.scroll.X != 0 {
		t.Fatalf("horizontal scroll past a narrow canvas: %v", h.scroll)
	}
}

func TestQuitEndsSession(t *testing.T) {
	h := newHarness(t)
	h.typeRunes("q")
	if !h.quit {
		t.Fatalf("quit not requested")
	}
	h.ed.SetTool(editor.ToolNumber)
	h.press(30, 30)
	if n := len(h.ed.Objects()); n != 0 {
		t.Fatalf("ended session accepted input")
	}
}

func TestFrame(t *testing.T) {
	h := newHarness(t, WithTheme(theme.Dark()))
	h.ed.SetTool(editor.ToolText)
	h.press(20, 20)
	h.release(20, 20)
	h.typeRunes("hello")

	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
	h.frame(dst)
	th := h.theme
	if got := dst.RGBAAt(1, 1); got != th.Toolbar {
		t.Errorf("toolbar pixel = %v, want %v", got, th.Toolbar)
	}
	if got := dst.RGBAAt(1, 598); got != th.Status {
		t.Errorf("status pixel = %v, want %v", got, th.Status)
	}
	if got := dst.RGBAAt(799, 300); got != th.Background {
		t.Errorf("background pixel = %v, want %v", got, th.Background)
	}
	if got := dst.RGBAAt(1, toolbarHeight+1); got != th.CheckerLight {
		t.Errorf("canvas pixel = %v, want %v", got, th.CheckerLight)
	}
	// Outline of the text widget one pixel outside its box.
	if got := dst.RGBAAt(25, toolbarHeight+19); got != th.EditorOutline {
		t.Errorf("widget outline = %v, want %v", got, th.EditorOutline)
	}
}
