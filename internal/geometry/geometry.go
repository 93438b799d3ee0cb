// Package geometry holds the stateless hit-testing primitives shared by the
// annotation model and the editor.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// HandleTolerance is how close (on both axes) a point must be to a
	// corner to grab its resize handle.
	HandleTolerance = 10
	// LineTolerance is the maximum distance from an arrow shaft that still
	// counts as a hit.
	LineTolerance = 10
)

// Handle identifies a resize corner of a bounding box.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "tl"
	case HandleTopRight:
		return "tr"
	case HandleBottomLeft:
		return "bl"
	case HandleBottomRight:
		return "br"
	default:
		return "none"
	}
}

// InBox reports whether p lies inside the box at (x, y) with the given size.
// Edges are inclusive.
func InBox(p r2.Vec, x, y, w, h float64) bool {
	return p.X >= x && p.X <= x+w && p.Y >= y && p.Y <= y+h
}

// InCircle reports whether p is within r of center.
func InCircle(p, center r2.Vec, r float64) bool {
	return r2.Norm(r2.Sub(p, center)) <= r
}

// SegmentDistance returns the distance from p to the closest point of the
// finite segment a-b. A zero-length segment degrades to point distance.
func SegmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	lenSq := r2.Dot(ab, ab)
	if lenSq == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p, closest))
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// CornerAt returns the first corner of the box within HandleTolerance of p,
// scanning top-left, top-right, bottom-left, bottom-right.
func CornerAt(p r2.Vec, x, y, w, h float64) Handle {
	corners := [...]struct {
		handle Handle
		at     r2.Vec
	}{
		{HandleTopLeft, r2.Vec{X: x, Y: y}},
		{HandleTopRight, r2.Vec{X: x + w, Y: y}},
		{HandleBottomLeft, r2.Vec{X: x, Y: y + h}},
		{HandleBottomRight, r2.Vec{X: x + w, Y: y + h}},
	}
	for _, c := range corners {
		if math.Abs(p.X-c.at.X) < HandleTolerance && math.Abs(p.Y-c.at.Y) < HandleTolerance {
			return c.handle
		}
	}
	return HandleNone
}

// Normalize flips a box with negative extent so that width and height are
// non-negative while covering the same area.
func Normalize(x, y, w, h float64) (float64, float64, float64, float64) {
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return x, y, w, h
}
