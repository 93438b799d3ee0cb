package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font families understood by the renderer. Unknown names fall back to
// FamilyRegular.
const (
	FamilyRegular = "Go"
	FamilyBold    = "Go Bold"
	FamilyMono    = "Go Mono"
)

var (
	fontsOnce sync.Once
	fonts     map[string]*opentype.Font
	fontsErr  error

	faces sync.Map // faceKey -> font.Face
)

type faceKey struct {
	family string
	size   float64
}

func loadFonts() {
	fonts = map[string]*opentype.Font{}
	for name, ttf := range map[string][]byte{
		FamilyRegular: goregular.TTF,
		FamilyBold:    gobold.TTF,
		FamilyMono:    gomono.TTF,
	} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			fontsErr = fmt.Errorf("parse font %s: %w", name, err)
			return
		}
		fonts[name] = f
	}
}

func canonicalFamily(family string) string {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "go bold", "bold":
		return FamilyBold
	case "go mono", "mono", "monospace":
		return FamilyMono
	default:
		return FamilyRegular
	}
}

// Face returns a cached face for the family at size points (72 DPI, so
// points equal canvas pixels).
func Face(family string, size float64) (font.Face, error) {
	fontsOnce.Do(loadFonts)
	if fontsErr != nil {
		return nil, fontsErr
	}
	if size <= 0 {
		size = 18
	}
	key := faceKey{canonicalFamily(family), math.Round(size*100) / 100}
	if f, ok := faces.Load(key); ok {
		return f.(font.Face), nil
	}
	face, err := opentype.NewFace(fonts[key.family], &opentype.FaceOptions{Size: key.size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	actual, _ := faces.LoadOrStore(key, face)
	return actual.(font.Face), nil
}

// MeasureText returns the dimensions of text rendered with the given face
// settings. baseline is the offset from the top to the text baseline.
func MeasureText(text, family string, size float64) (width, height, baseline int, err error) {
	face, err := Face(family, size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	baseline = metrics.Ascent.Ceil()
	height = baseline + metrics.Descent.Ceil()
	return width, height, baseline, nil
}

// Measurer measures text widths with the bundled Go fonts.
type Measurer struct{}

// TextWidth returns the advance width of text, or an estimate when the
// font cannot be loaded.
func (Measurer) TextWidth(text, family string, size float64) float64 {
	w, _, _, err := MeasureText(text, family, size)
	if err != nil {
		return float64(len([]rune(text))) * size * 0.6
	}
	return float64(w)
}

// drawString renders text with its top-left corner at (x, y).
func drawString(img *image.RGBA, x, y int, text, family string, size float64, col color.Color) error {
	face, err := Face(family, size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}
