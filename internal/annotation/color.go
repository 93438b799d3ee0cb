package annotation

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an 8-bit RGBA color that serializes as "#RRGGBBAA".
type Color color.RGBA

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) { return color.RGBA(c).RGBA() }

// Hex formats c as #RRGGBB, adding the alpha byte only when it is not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor accepts a CSS color name or a #RRGGBB / #RRGGBBAA hex value.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return Color{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[v]; ok {
		return Color(c), nil
	}
	if !strings.HasPrefix(v, "#") || (len(v) != 7 && len(v) != 9) {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	val, err := strconv.ParseUint(v[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	if len(v) == 7 {
		return Color{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	}
	return Color{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

// ContrastText picks black or white for text drawn over fill.
func ContrastText(fill Color) Color {
	brightness := 0.299*float64(fill.R) + 0.587*float64(fill.G) + 0.114*float64(fill.B)
	if brightness < 128 {
		return Color{255, 255, 255, 255}
	}
	return Color{0, 0, 0, 255}
}
