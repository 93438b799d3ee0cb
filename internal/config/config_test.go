package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/snapmark/internal/annotation"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/shots

[canvas]
width = 1024
height = 768
image_max_width = 800

[rect]
color = blue
width = 5

[arrow]
color = #00ff0080

[text]
size = 24
background = "#FFFFFF"
padding = 4

[stamp]
radius = 20
color = #112233

[notify]
save = true
copy = false

[theme.my_custom_theme]
Background = #111111
Handle: #ABCDEF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/shots" {
		t.Errorf("Expected save_dir '/tmp/shots', got '%s'", cfg.SaveDir)
	}
	if cfg.Canvas.Width != 1024 || cfg.Canvas.Height != 768 || cfg.Canvas.ImageMaxWidth != 800 {
		t.Errorf("Unexpected canvas: %+v", cfg.Canvas)
	}
	if cfg.Canvas.ImageMaxHeight != 1200 {
		t.Errorf("Unset image_max_height should keep default, got %d", cfg.Canvas.ImageMaxHeight)
	}
	if cfg.Rect.Color != (annotation.Color{R: 0, G: 0, B: 255, A: 255}) || cfg.Rect.Width != 5 {
		t.Errorf("Unexpected rect: %+v", cfg.Rect)
	}
	if cfg.Arrow.Color.A != 0x80 || cfg.Arrow.Width != 3 {
		t.Errorf("Unexpected arrow: %+v", cfg.Arrow)
	}
	if cfg.Text.Size != 24 || cfg.Text.Padding != 4 || cfg.Text.Background.Hex() != "#FFFFFF" {
		t.Errorf("Unexpected text: %+v", cfg.Text)
	}
	if cfg.Stamp.Radius != 20 || cfg.Stamp.Color.Hex() != "#112233" {
		t.Errorf("Unexpected stamp: %+v", cfg.Stamp)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy {
		t.Errorf("Unexpected notify: %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
	if th.Handle.R != 0xAB || th.Handle.B != 0xEF {
		t.Errorf("Unexpected Handle color: %+v", th.Handle)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"[rect]\ncolor = nope",
		"[canvas]\nwidth = -3",
		"[text]\nsize = 0",
		"[notify]\nsave = maybe",
		"[theme.x]\nBackground = #12",
	}
	for _, in := range tests {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestStyle(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[stamp]\nradius = 30\n[rect]\nwidth = 7\n"))
	if err != nil {
		t.Fatal(err)
	}
	s := cfg.Style()
	if s.StampRadius != 30 || s.RectWidth != 7 {
		t.Fatalf("Style() = %+v", s)
	}
	if s.TextWidth != 200 || s.TextHeight != 40 {
		t.Fatalf("Style() lost placement defaults: %+v", s)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/shots

[canvas]
width = 640

[rect]
color = #FF000080
width = 2.5

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Canvas != cfg2.Canvas || cfg.Rect != cfg2.Rect || cfg.Arrow != cfg2.Arrow {
		t.Errorf("Drawing settings mismatch:\n%+v\n%+v", cfg, cfg2)
	}
	if cfg.Text != cfg2.Text || cfg.Stamp != cfg2.Stamp {
		t.Errorf("Text/stamp mismatch: %+v %+v vs %+v %+v", cfg.Text, cfg.Stamp, cfg2.Text, cfg2.Stamp)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvPath, "")

	l := NewLoader("v1", "")
	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("no files: got %q", got)
	}
	cfg, err := l.Load()
	if err != nil || cfg.Canvas.Width != 800 {
		t.Fatalf("defaults: %+v %v", cfg, err)
	}

	xdg := filepath.Join(home, ".config", "snapmark", "config.rc")
	if err := os.MkdirAll(filepath.Dir(xdg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdg, []byte("save_dir = ~/pics\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != xdg {
		t.Fatalf("xdg: got %q", got)
	}
	cfg, err = l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SaveDir != filepath.Join(home, "pics") {
		t.Fatalf("save_dir not expanded: %q", cfg.SaveDir)
	}

	override := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(override, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, override)
	if got := NewLoader("v1", "").GetConfigPath(); got != override {
		t.Fatalf("env override: got %q", got)
	}
}

func TestLoaderSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.rc")
	l := NewLoader("v1", path)
	cfg := New()
	cfg.Theme = "dark"
	got, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got != path {
		t.Fatalf("Save wrote %q, want %q", got, path)
	}
	back, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if back.Theme != "dark" {
		t.Fatalf("reloaded theme = %q", back.Theme)
	}
}
