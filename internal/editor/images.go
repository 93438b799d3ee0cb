package editor

import (
	"math"

	"github.com/example/snapmark/internal/annotation"
)

type pendingImage struct {
	src           annotation.Source
	width, height int
}

// InsertImage adds a decoded image of the given native size below the
// existing annotations. During a gesture or a text edit the insertion is
// queued and applied, in arrival order, once the model is idle again.
func (e *Editor) InsertImage(src annotation.Source, width, height int) {
	if e.ended || width <= 0 || height <= 0 {
		return
	}
	e.pending = append(e.pending, pendingImage{src: src, width: width, height: height})
	e.flushImages()
}

// Pending returns the number of queued image insertions.
func (e *Editor) Pending() int { return len(e.pending) }

func (e *Editor) flushImages() {
	if e.busy() {
		return
	}
	for len(e.pending) > 0 {
		p := e.pending[0]
		e.pending = e.pending[1:]
		e.placeImage(p)
	}
}

func (e *Editor) placeImage(p pendingImage) {
	w, h := e.placement(p.width, p.height)
	o := e.store.Create(&annotation.Image{
		Box:            annotation.Box{Width: w, Height: h},
		OriginalWidth:  p.width,
		OriginalHeight: p.height,
		Source:         p.src,
	})
	e.growExtent(o)
	e.commit()
}

// placement returns the initial size for an image of native size w×h:
// larger than the cap shrinks to fit, anything else takes imageScale.
func (e *Editor) placement(w, h int) (float64, float64) {
	fw, fh := float64(w), float64(h)
	capW, capH := float64(e.imageCap.X), float64(e.imageCap.Y)
	ratio := e.imageScale
	if capW > 0 && capH > 0 && (fw > capW || fh > capH) {
		ratio = math.Min(capW/fw, capH/fh)
	}
	if ratio <= 0 {
		ratio = 1
	}
	return math.Round(fw * ratio), math.Round(fh * ratio)
}
