// Package render rasterizes annotation objects. It draws the full object
// sequence for export and the selection decoration for the window.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log"
	"strconv"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geometry"
)

// HandleSize is the side of the square drawn at each resize corner.
const HandleSize = 8

// Scaler resamples image objects. Export uses CatmullRom, the window uses
// a cheaper kernel while dragging.
var Scaler xdraw.Scaler = xdraw.CatmullRom

// Draw paints objs onto dst in sequence order.
func Draw(dst *image.RGBA, objs []*annotation.Object) {
	DrawWith(dst, objs, Scaler)
}

// DrawWith is Draw with an explicit image scaler.
func DrawWith(dst *image.RGBA, objs []*annotation.Object, scaler xdraw.Scaler) {
	for _, o := range objs {
		if err := drawObject(dst, o, scaler); err != nil {
			log.Printf("render object %d: %v", o.ID, err)
		}
	}
}

func drawObject(dst *image.RGBA, o *annotation.Object, scaler xdraw.Scaler) error {
	switch s := o.Shape.(type) {
	case *annotation.Image:
		src, err := s.Source.Image()
		if err != nil {
			return fmt.Errorf("decode image: %w", err)
		}
		scaler.Scale(dst, boxRect(s.Box), src, src.Bounds(), draw.Over, nil)
	case *annotation.Rect:
		drawRect(dst, boxRect(s.Box), s.Stroke, strokeWidth(s.StrokeWidth))
	case *annotation.Arrow:
		drawArrow(dst, round(s.X1), round(s.Y1), round(s.X2), round(s.Y2), s.Stroke, strokeWidth(s.StrokeWidth))
	case *annotation.Text:
		r := boxRect(s.Box)
		fillRect(dst, r, s.Background)
		pad := round(s.Padding)
		return drawString(dst, r.Min.X+pad, r.Min.Y+pad, s.Content, s.FontFamily, s.FontSize, s.Fill)
	case *annotation.Stamp:
		cx, cy := s.Center()
		drawFilledCircle(dst, round(cx), round(cy), round(s.Radius), s.Fill)
		label := strconv.Itoa(s.Number)
		size := s.Radius
		w, h, _, err := MeasureText(label, FamilyBold, size)
		if err != nil {
			return err
		}
		return drawString(dst, round(cx)-w/2, round(cy)-h/2, label, FamilyBold, size, s.TextColor)
	default:
		return fmt.Errorf("%w %q", annotation.ErrUnknownKind, o.Kind())
	}
	return nil
}

// Flatten composites objs over a transparent canvas of the given size.
// Selection decoration is never part of the result.
func Flatten(objs []*annotation.Object, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	Draw(img, objs)
	return img
}

// Overlay decorates the selected object: corner handles for the
// resizable variants, a dashed outline for arrows and stamps.
func Overlay(dst *image.RGBA, sel *annotation.Object, accent color.Color) {
	if sel == nil {
		return
	}
	r := sel.Shape.Bounds().Rectangle()
	switch sel.Kind() {
	case annotation.KindArrow, annotation.KindStamp:
		drawDashedRect(dst, r.Inset(-4), 4, accent, color.White)
		return
	}
	drawDashedRect(dst, r, 4, accent, color.White)
	for _, h := range HandleRects(r) {
		draw.Draw(dst, h, image.NewUniform(accent), image.Point{}, draw.Src)
		drawRect(dst, h, color.White, 1)
	}
}

// HandleRects returns the handle squares of r in corner scan order.
func HandleRects(r image.Rectangle) []image.Rectangle {
	hs := HandleSize / 2
	at := func(x, y int) image.Rectangle { return image.Rect(x-hs, y-hs, x+hs, y+hs) }
	return []image.Rectangle{
		at(r.Min.X, r.Min.Y),
		at(r.Max.X, r.Min.Y),
		at(r.Min.X, r.Max.Y),
		at(r.Max.X, r.Max.Y),
	}
}

func boxRect(b annotation.Box) image.Rectangle {
	x, y, w, h := geometry.Normalize(b.X, b.Y, b.Width, b.Height)
	return image.Rect(round(x), round(y), round(x+w), round(y+h))
}

func strokeWidth(w float64) int {
	if w < 1 {
		return 1
	}
	return round(w)
}

// Filename returns the default export name for t.
func Filename(t time.Time) string {
	return "annotated_" + t.Format("20060102_150405") + ".png"
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
