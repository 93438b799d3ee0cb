package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/editor"
	"github.com/example/snapmark/internal/ingest"
	"github.com/example/snapmark/internal/render"
)

var writeClipboardFn = clipboard.WriteImage

// drawCmd replays one annotation gesture through the editor and writes the
// flattened result. The canvas grows when the shape extends past the image.
type drawCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	width         float64
	textSize      float64
	radius        float64
	shape         string
	coords        []float64
	text          string
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }

func (d *drawCmd) Program() string { return "snapmark draw" }

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&d.colorSpec, "color", "", "stroke or fill color name or hex value (default from config)")
	fs.Float64Var(&d.width, "width", 0, "stroke width in pixels (default from config)")
	fs.Float64Var(&d.textSize, "text-size", 0, "text size in points (default from config)")
	fs.Float64Var(&d.radius, "radius", 0, "radius of number stamps in pixels (default from config)")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.shape = strings.ToLower(positionals[0])
	remaining := positionals[1:]
	switch d.shape {
	case "arrow", "rect":
		d.coords, err = expectNumbers(remaining, 4, d.shape)
	case "number":
		d.coords, err = expectNumbers(remaining, 2, d.shape)
	case "text":
		if len(remaining) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		d.coords, err = expectNumbers(remaining[:2], 2, d.shape)
		d.text = strings.Join(remaining[2:], " ")
		if err == nil && strings.TrimSpace(d.text) == "" {
			return nil, fmt.Errorf("text content cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unsupported shape %q", d.shape)
	}
	if err != nil {
		return nil, err
	}
	if d.colorSpec != "" {
		if _, err := annotation.ParseColor(d.colorSpec); err != nil {
			return nil, err
		}
	}
	if d.width < 0 || d.textSize < 0 || d.radius < 0 {
		return nil, fmt.Errorf("width, text-size and radius must not be negative")
	}
	if d.fromClipboard {
		if d.output == "" {
			if d.file == "" {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
			d.output = d.file
		}
	} else {
		if d.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if d.output == "" {
			d.output = d.file
		}
	}
	return d, nil
}

// style applies the command line overrides to the configured style.
func (d *drawCmd) style() editor.Style {
	s := d.settings().Style()
	if d.colorSpec != "" {
		c, err := annotation.ParseColor(d.colorSpec)
		if err == nil {
			s.RectStroke, s.ArrowStroke, s.TextFill, s.StampFill = c, c, c, c
		}
	}
	if d.width > 0 {
		s.RectWidth, s.ArrowWidth = d.width, d.width
	}
	if d.textSize > 0 {
		s.TextSize = d.textSize
	}
	if d.radius > 0 {
		s.StampRadius = d.radius
	}
	return s
}

func (d *drawCmd) loadSource() (ingest.Image, error) {
	if d.fromClipboard {
		img, err := fromClipboardFn()
		if err != nil {
			return ingest.Image{}, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	return fromFileFn(d.file)
}

// apply places src at its native size and replays the gesture for the shape.
func (d *drawCmd) apply(src ingest.Image) (*editor.Editor, error) {
	ed := editor.New(
		editor.WithStyle(d.style()),
		editor.WithCanvas(0, 0),
		editor.WithImageCap(0, 0),
		editor.WithImageScale(1),
		editor.WithExtentListener(func(w, h int) {
			if w > src.Width || h > src.Height {
				log.Printf("draw: canvas grown to %dx%d", w, h)
			}
		}),
	)
	ed.InsertImage(src.Source, src.Width, src.Height)
	before := len(ed.Objects())

	c := d.coords
	switch d.shape {
	case "rect", "arrow":
		tool, _ := editor.ParseTool(d.shape)
		ed.SetTool(tool)
		ed.PointerDown(c[0], c[1])
		ed.PointerMove(c[2], c[3])
		ed.PointerUp()
	case "number":
		ed.SetTool(editor.ToolNumber)
		ed.PointerDown(c[0], c[1])
	case "text":
		ed.SetTool(editor.ToolText)
		ed.PointerDown(c[0], c[1])
		edit, ok := ed.ActiveEdit()
		if !ok {
			return nil, fmt.Errorf("text edit did not start")
		}
		ed.CommitText(edit.Token, d.text)
	}
	if len(ed.Objects()) == before {
		return nil, fmt.Errorf("%s is too small and was discarded", d.shape)
	}
	return ed, nil
}

func (d *drawCmd) Run() error {
	src, err := d.loadSource()
	if err != nil {
		return err
	}
	ed, err := d.apply(src)
	if err != nil {
		return err
	}
	out := ed.Flatten()
	if err := writeFile(d.output, out); err != nil {
		return err
	}
	saved := d.output
	if abs, err := filepath.Abs(d.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	d.root.notifySave(saved)
	if d.toClipboard {
		if err := writeClipboardFn(out); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		d.root.notifyCopy(detail)
	}
	return nil
}

func writeFile(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.EncodePNG(out, img); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("error closing %q: %v", out.Name(), cerr)
		}
		return err
	}
	return out.Close()
}

func expectNumbers(args []string, n int, shape string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", shape, n)
	}
	vals := make([]float64, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

var drawFlagNames = map[string]struct{}{
	"file":           {},
	"output":         {},
	"from-clipboard": {},
	"to-clipboard":   {},
	"color":          {},
	"width":          {},
	"text-size":      {},
	"radius":         {},
}

var drawBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"to-clipboard":   {},
}

// splitDrawArgs lets flags follow the shape arguments. Anything that is not
// a known flag, including negative numbers, stays positional.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		base := strings.ToLower(name)
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		norm := "-" + base
		if hasValue {
			flags = append(flags, norm+"="+value)
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
