package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/theme"
)

// Parse reads configuration from an io.Reader. Unknown sections and keys
// are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				// Start with defaults so missing keys are fine
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := splitKV(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case current != nil:
			err = setThemeField(current, key, value)
		case section == "":
			setRootField(cfg, key, value)
		case section == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case section == "rect":
			err = setStrokeField(&cfg.Rect, key, value)
		case section == "arrow":
			err = setStrokeField(&cfg.Arrow, key, value)
		case section == "text":
			err = setTextField(&cfg.Text, key, value)
		case section == "stamp":
			err = setStampField(&cfg.Stamp, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			return nil, fmt.Errorf("line %d: error in section [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

// splitKV accepts both "key = value" and "key: value".
func splitKV(line string) (string, string, bool) {
	var key, value string
	var ok bool
	if strings.Contains(line, "=") {
		key, value, ok = strings.Cut(line, "=")
	} else {
		key, value, ok = strings.Cut(line, ":")
	}
	if !ok {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return strings.ToLower(strings.TrimSpace(key)), value, true
}

func setRootField(cfg *Config, key, value string) {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
}

func setCanvasField(c *Canvas, key, value string) error {
	var dst *int
	switch key {
	case "width":
		dst = &c.Width
	case "height":
		dst = &c.Height
	case "image_max_width":
		dst = &c.ImageMaxWidth
	case "image_max_height":
		dst = &c.ImageMaxHeight
	default:
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid size for key %s: %q", key, value)
	}
	*dst = n
	return nil
}

func setStrokeField(s *Stroke, key, value string) error {
	switch key {
	case "color":
		return parseColorInto(&s.Color, key, value)
	case "width":
		return parsePositive(&s.Width, key, value)
	}
	return nil
}

func setTextField(t *Text, key, value string) error {
	switch key {
	case "size":
		return parsePositive(&t.Size, key, value)
	case "color":
		return parseColorInto(&t.Color, key, value)
	case "background":
		return parseColorInto(&t.Background, key, value)
	case "padding":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid padding %q", value)
		}
		t.Padding = v
	}
	return nil
}

func setStampField(s *Stamp, key, value string) error {
	switch key {
	case "radius":
		return parsePositive(&s.Radius, key, value)
	case "color":
		return parseColorInto(&s.Color, key, value)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseColorInto(dst *annotation.Color, key, value string) error {
	c, err := annotation.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	*dst = c
	return nil
}

func parsePositive(dst *float64, key, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid value for key %s: %q", key, value)
	}
	*dst = v
	return nil
}

type themeField struct {
	name  string
	value any
}

var rgbaType = reflect.TypeOf(color.RGBA{})

// themeFields lists the color fields of t in declaration order.
func themeFields(t *theme.Theme) []themeField {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var out []themeField
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type == rgbaType {
			out = append(out, themeField{name: typ.Field(i).Name, value: val.Field(i).Interface()})
		}
	}
	return out
}

func setThemeField(t *theme.Theme, key, value string) error {
	if key == "name" {
		t.Name = value
		return nil
	}

	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !strings.EqualFold(f.Name, key) || f.Type != rgbaType {
			continue
		}
		col, err := annotation.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", f.Name, err)
		}
		val.Field(i).Set(reflect.ValueOf(color.RGBA(col)))
		return nil
	}
	return nil // Ignore unknown fields
}
