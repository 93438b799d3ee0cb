package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

// drawLine is Bresenham with a square brush of side thick.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	e := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

// drawArrow draws the shaft and a two-stroke head at (x1, y1). The head
// grows with the stroke width.
func drawArrow(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	drawLine(img, x0, y0, x1, y1, col, thick)
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	size := float64(6 + thick*3)
	for _, a := range []float64{angle + math.Pi/6, angle - math.Pi/6} {
		hx := x1 - int(math.Round(math.Cos(a)*size))
		hy := y1 - int(math.Round(math.Sin(a)*size))
		drawLine(img, x1, y1, hx, hy, col, thick)
	}
}

// drawRect strokes the inside edge of rect.
func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

func fillRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	draw.Draw(img, rect, image.NewUniform(col), image.Point{}, draw.Over)
}

func drawFilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	b := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			if p := image.Pt(cx+dx, cy+dy); p.In(b) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

// drawDashedRect outlines rect alternating c1 and c2 every dash pixels.
func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash int, c1, c2 color.Color) {
	if dash <= 0 {
		dash = 4
	}
	b := img.Bounds()
	set := func(x, y, i int) {
		if !image.Pt(x, y).In(b) {
			return
		}
		if (i/dash)%2 == 0 {
			img.Set(x, y, c1)
		} else {
			img.Set(x, y, c2)
		}
	}
	for x := rect.Min.X; x < rect.Max.X; x++ {
		set(x, rect.Min.Y, x-rect.Min.X)
		set(x, rect.Max.Y-1, x-rect.Min.X)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		set(rect.Min.X, y, y-rect.Min.Y)
		set(rect.Max.X-1, y, y-rect.Min.Y)
	}
}

// Checkerboard fills rect of dst with squares of the given size, used to
// show transparent canvas areas on screen.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round(v float64) int { return int(math.Round(v)) }
