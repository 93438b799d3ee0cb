// Package appstate hosts the annotation editor in a shiny window.
package appstate

import (
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/theme"
)

const (
	maxWindowWidth  = 1600
	maxWindowHeight = 1000
	minWindowWidth  = 640
	minWindowHeight = 400
)

// AppState holds the editor and the settings of the window around it.
type AppState struct {
	Editor         *editor.Editor
	Theme          *theme.Theme
	Notifier       *notify.Notifier
	Output         string
	SaveDir        string
	Title          string
	CaptureOptions capture.Options

	editorOpts []editor.Option
	onClose    func()
	closeOnce  sync.Once

	mu   sync.Mutex
	ctrl *controller
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithEditorOptions configures the editor created by New.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(a *AppState) { a.editorOpts = append(a.editorOpts, opts...) }
}

// WithTheme sets the window palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the notifier used after save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOutput sets a fixed export path. Without it Save writes a
// timestamped file into the save directory.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets the directory for timestamped exports.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithCaptureOptions configures screen capture from the window.
func WithCaptureOptions(o capture.Options) Option {
	return func(a *AppState) { a.CaptureOptions = o }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState and its editor.
func New(opts ...Option) *AppState {
	a := &AppState{Title: "snapmark"}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	a.Editor = editor.New(append(a.editorOpts, editor.WithExtentListener(a.extentChanged))...)
	return a
}

func (a *AppState) extentChanged(width, height int) {
	a.mu.Lock()
	c := a.ctrl
	a.mu.Unlock()
	if c != nil {
		c.clampScroll()
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// windowSize fits the canvas plus chrome within the allowed window range.
func windowSize(canvasW, canvasH int) (int, int) {
	w := min(max(canvasW, minWindowWidth), maxWindowWidth)
	h := min(max(canvasH+toolbarHeight+statusHeight, minWindowHeight), maxWindowHeight)
	return w, h
}

func (a *AppState) Main(s screen.Screen) {
	width, height := windowSize(a.Editor.Canvas())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	c := newController(a, w.Send)
	c.resize(width, height)
	a.mu.Lock()
	a.ctrl = c
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.ctrl = nil
		a.mu.Unlock()
	}()

	for {
		var repaint bool
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				a.Editor.EndSession()
				return
			}
			switch e.Crosses(lifecycle.StageFocused) {
			case lifecycle.CrossOn:
				c.handleFocus(true)
			case lifecycle.CrossOff:
				c.handleFocus(false)
			}
			repaint = true
		case size.Event:
			c.resize(e.WidthPx, e.HeightPx)
			repaint = true
		case paint.Event:
			a.paint(s, w, c)
		case mouse.Event:
			repaint = c.handleMouse(e)
		case key.Event:
			repaint = c.handleKey(e)
		case imageEvent:
			repaint = c.handleImage(e)
		case blurEvent:
			repaint = c.handleBlur(e)
		case error:
			log.Print(e)
		}
		if c.quit {
			return
		}
		if repaint {
			w.Send(paint.Event{})
		}
	}
}

func (a *AppState) paint(s screen.Screen, w screen.Window, c *controller) {
	if c.width <= 0 || c.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{c.width, c.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	c.frame(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
