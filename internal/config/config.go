package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/theme"
)

// Canvas holds the initial surface size and the image insertion cap.
type Canvas struct {
	Width          int
	Height         int
	ImageMaxWidth  int
	ImageMaxHeight int
}

// Stroke configures rectangles and arrows.
type Stroke struct {
	Color annotation.Color
	Width float64
}

// Text configures new text objects.
type Text struct {
	Size       float64
	Color      annotation.Color
	Background annotation.Color
	Padding    float64
}

// Stamp configures new number stamps.
type Stamp struct {
	Radius float64
	Color  annotation.Color
}

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Canvas  Canvas
	Rect    Stroke
	Arrow   Stroke
	Text    Text
	Stamp   Stamp
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	s := editor.DefaultStyle()
	return &Config{
		Canvas: Canvas{
			Width:          800,
			Height:         600,
			ImageMaxWidth:  editor.DefaultImageCap.X,
			ImageMaxHeight: editor.DefaultImageCap.Y,
		},
		Rect:   Stroke{Color: s.RectStroke, Width: s.RectWidth},
		Arrow:  Stroke{Color: s.ArrowStroke, Width: s.ArrowWidth},
		Text:   Text{Size: s.TextSize, Color: s.TextFill, Background: s.TextBackground, Padding: s.TextPadding},
		Stamp:  Stamp{Radius: s.StampRadius, Color: s.StampFill},
		Themes: make(map[string]*theme.Theme),
	}
}

// Style returns the editor style described by c.
func (c *Config) Style() editor.Style {
	s := editor.DefaultStyle()
	s.RectStroke, s.RectWidth = c.Rect.Color, c.Rect.Width
	s.ArrowStroke, s.ArrowWidth = c.Arrow.Color, c.Arrow.Width
	s.TextSize = c.Text.Size
	s.TextFill = c.Text.Color
	s.TextBackground = c.Text.Background
	s.TextPadding = c.Text.Padding
	s.StampRadius = c.Stamp.Radius
	s.StampFill = c.Stamp.Color
	return s
}

// EditorOptions returns the editor options for the configured canvas and
// style.
func (c *Config) EditorOptions() []editor.Option {
	return []editor.Option{
		editor.WithStyle(c.Style()),
		editor.WithCanvas(c.Canvas.Width, c.Canvas.Height),
		editor.WithImageCap(c.Canvas.ImageMaxWidth, c.Canvas.ImageMaxHeight),
	}
}

// ResolveTheme returns the configured UI theme, or name when it is not
// empty.
func (c *Config) ResolveTheme(name string) (*theme.Theme, error) {
	if name == "" {
		name = c.Theme
	}
	return theme.Resolve(name, c.Themes)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "image_max_width = %d\n", c.Canvas.ImageMaxWidth)
	fmt.Fprintf(&sb, "image_max_height = %d\n", c.Canvas.ImageMaxHeight)
	sb.WriteString("\n")

	writeStroke(&sb, "rect", c.Rect)
	writeStroke(&sb, "arrow", c.Arrow)

	sb.WriteString("[text]\n")
	fmt.Fprintf(&sb, "size = %g\n", c.Text.Size)
	fmt.Fprintf(&sb, "color = %s\n", c.Text.Color.Hex())
	fmt.Fprintf(&sb, "background = %s\n", c.Text.Background.Hex())
	fmt.Fprintf(&sb, "padding = %g\n", c.Text.Padding)
	sb.WriteString("\n")

	sb.WriteString("[stamp]\n")
	fmt.Fprintf(&sb, "radius = %g\n", c.Stamp.Radius)
	fmt.Fprintf(&sb, "color = %s\n", c.Stamp.Color.Hex())
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		writeTheme(&sb, name, c.Themes[name])
	}

	return sb.String()
}

func writeStroke(sb *strings.Builder, section string, s Stroke) {
	fmt.Fprintf(sb, "[%s]\n", section)
	fmt.Fprintf(sb, "color = %s\n", s.Color.Hex())
	fmt.Fprintf(sb, "width = %g\n", s.Width)
	sb.WriteString("\n")
}

// writeTheme emits every color field of t in declaration order.
func writeTheme(sb *strings.Builder, name string, t *theme.Theme) {
	fmt.Fprintf(sb, "[theme.%s]\n", name)
	fmt.Fprintf(sb, "Name: %s\n", t.Name)
	for _, f := range themeFields(t) {
		fmt.Fprintf(sb, "%s: %s\n", f.name, annotation.Color(f.value.(color.RGBA)).Hex())
	}
	sb.WriteString("\n")
}
