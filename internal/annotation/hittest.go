package annotation

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/snapmark/internal/geometry"
)

// PointIn reports whether (x, y) hits o.
func PointIn(o *Object, x, y float64) bool {
	p := r2.Vec{X: x, Y: y}
	switch s := o.Shape.(type) {
	case *Image:
		return inBox(p, s.Box)
	case *Rect:
		return inBox(p, s.Box)
	case *Text:
		return inBox(p, s.Box)
	case *Stamp:
		cx, cy := s.Center()
		return geometry.InCircle(p, r2.Vec{X: cx, Y: cy}, s.Radius)
	case *Arrow:
		a, b := r2.Vec{X: s.X1, Y: s.Y1}, r2.Vec{X: s.X2, Y: s.Y2}
		return geometry.SegmentDistance(p, a, b) <= geometry.LineTolerance
	}
	return false
}

// HandleAt returns the resize corner of o under (x, y). Only the
// bounding-box variants have handles.
func HandleAt(o *Object, x, y float64) geometry.Handle {
	box, ok := boxOf(o)
	if !ok {
		return geometry.HandleNone
	}
	return geometry.CornerAt(r2.Vec{X: x, Y: y}, box.X, box.Y, box.Width, box.Height)
}

func inBox(p r2.Vec, b Box) bool {
	x, y, w, h := geometry.Normalize(b.X, b.Y, b.Width, b.Height)
	return geometry.InBox(p, x, y, w, h)
}

// boxOf returns a pointer to the embedded Box of the resizable variants.
func boxOf(o *Object) (*Box, bool) {
	switch s := o.Shape.(type) {
	case *Image:
		return &s.Box, true
	case *Rect:
		return &s.Box, true
	case *Text:
		return &s.Box, true
	}
	return nil, false
}
