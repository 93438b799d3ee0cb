package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name string
		p    r2.Vec
		a, b r2.Vec
		want float64
	}{
		{"perpendicular", r2.Vec{X: 5, Y: 3}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 0}, 3},
		{"past end clamps", r2.Vec{X: 13, Y: 4}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 0}, 5},
		{"before start clamps", r2.Vec{X: -3, Y: -4}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 0}, 5},
		{"on segment", r2.Vec{X: 5, Y: 5}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 10}, 0},
		{"degenerate", r2.Vec{X: 3, Y: 4}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 0, Y: 0}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentDistance(tt.p, tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("SegmentDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInBoxEdgesInclusive(t *testing.T) {
	if !InBox(r2.Vec{X: 10, Y: 10}, 10, 10, 90, 70) {
		t.Errorf("top-left corner should be inside")
	}
	if !InBox(r2.Vec{X: 100, Y: 80}, 10, 10, 90, 70) {
		t.Errorf("bottom-right corner should be inside")
	}
	if InBox(r2.Vec{X: 101, Y: 50}, 10, 10, 90, 70) {
		t.Errorf("point 1 unit right of the box should be outside")
	}
	if InBox(r2.Vec{X: 50, Y: 9}, 10, 10, 90, 70) {
		t.Errorf("point 1 unit above the box should be outside")
	}
}

func TestCornerAtScanOrder(t *testing.T) {
	// A box smaller than the tolerance puts every corner in range; the
	// first corner in scan order wins.
	if got := CornerAt(r2.Vec{X: 2, Y: 2}, 0, 0, 4, 4); got != HandleTopLeft {
		t.Fatalf("got %v, want tl", got)
	}
	cases := map[Handle]r2.Vec{
		HandleTopLeft:     {X: 12, Y: 8},
		HandleTopRight:    {X: 108, Y: 12},
		HandleBottomLeft:  {X: 5, Y: 95},
		HandleBottomRight: {X: 101, Y: 99},
	}
	for want, p := range cases {
		if got := CornerAt(p, 10, 10, 90, 80); got != want {
			t.Errorf("CornerAt(%v) = %v, want %v", p, got, want)
		}
	}
	if got := CornerAt(r2.Vec{X: 55, Y: 50}, 10, 10, 90, 80); got != HandleNone {
		t.Errorf("center should not hit a handle, got %v", got)
	}
	// Tolerance is exclusive.
	if got := CornerAt(r2.Vec{X: 20, Y: 10}, 10, 10, 90, 80); got != HandleNone {
		t.Errorf("point exactly at tolerance should miss, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	x, y, w, h := Normalize(100, 80, -90, -70)
	if x != 10 || y != 10 || w != 90 || h != 70 {
		t.Fatalf("Normalize = %v %v %v %v", x, y, w, h)
	}
}
