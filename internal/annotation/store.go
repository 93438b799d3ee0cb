package annotation

import (
	"math"

	"github.com/example/snapmark/internal/geometry"
)

// MinSize is the smallest width or height a resize may produce.
const MinSize = 20

// Counters is the auxiliary state that travels with every snapshot.
type Counters struct {
	NextID          int `json:"nextId"`
	NextStampNumber int `json:"nextStampNumber"`
	CanvasWidth     int `json:"canvasWidth"`
	CanvasHeight    int `json:"canvasHeight"`
}

// Patch is a geometry delta. With HandleNone it translates the object,
// otherwise it resizes from the given corner.
type Patch struct {
	Handle geometry.Handle
	DX, DY float64
}

// Store owns the ordered object sequence. Index 0 is drawn first.
type Store struct {
	objects  []*Object
	selected int
	counters Counters
}

// NewStore returns an empty store with the given canvas extent.
func NewStore(width, height int) *Store {
	return &Store{counters: Counters{
		NextID:          1,
		NextStampNumber: 1,
		CanvasWidth:     width,
		CanvasHeight:    height,
	}}
}

// Create wraps shape in a new object with the next id. Images go to the
// bottom of the z-order, everything else on top.
func (s *Store) Create(shape Shape) *Object {
	o := &Object{ID: s.counters.NextID, Shape: shape}
	s.counters.NextID++
	if shape.Kind() == KindImage {
		s.objects = append([]*Object{o}, s.objects...)
	} else {
		s.objects = append(s.objects, o)
	}
	return o
}

// NextStamp hands out the next display number for a number stamp.
func (s *Store) NextStamp() int {
	n := s.counters.NextStampNumber
	s.counters.NextStampNumber++
	return n
}

// Delete removes the object with id. Unknown ids are ignored.
func (s *Store) Delete(id int) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	if s.selected == id {
		s.selected = 0
	}
}

// Get returns the live object with id, or nil.
func (s *Store) Get(id int) *Object {
	if i := s.index(id); i >= 0 {
		return s.objects[i]
	}
	return nil
}

func (s *Store) index(id int) int {
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// TopmostAt returns the highest object in z-order under (x, y).
func (s *Store) TopmostAt(x, y float64) *Object {
	for i := len(s.objects) - 1; i >= 0; i-- {
		if PointIn(s.objects[i], x, y) {
			return s.objects[i]
		}
	}
	return nil
}

// Mutate applies p to the object with id.
func (s *Store) Mutate(id int, p Patch) {
	o := s.Get(id)
	if o == nil {
		return
	}
	if p.Handle != geometry.HandleNone {
		if b, ok := boxOf(o); ok {
			resize(b, p)
		}
		return
	}
	switch sh := o.Shape.(type) {
	case *Image:
		sh.X, sh.Y = sh.X+p.DX, sh.Y+p.DY
	case *Rect:
		sh.X, sh.Y = sh.X+p.DX, sh.Y+p.DY
	case *Text:
		sh.X, sh.Y = sh.X+p.DX, sh.Y+p.DY
	case *Stamp:
		sh.X, sh.Y = sh.X+p.DX, sh.Y+p.DY
	case *Arrow:
		sh.X1, sh.Y1 = sh.X1+p.DX, sh.Y1+p.DY
		sh.X2, sh.Y2 = sh.X2+p.DX, sh.Y2+p.DY
	}
}

func resize(b *Box, p Patch) {
	switch p.Handle {
	case geometry.HandleTopLeft:
		b.X += p.DX
		b.Y += p.DY
		b.Width -= p.DX
		b.Height -= p.DY
	case geometry.HandleTopRight:
		b.Y += p.DY
		b.Width += p.DX
		b.Height -= p.DY
	case geometry.HandleBottomLeft:
		b.X += p.DX
		b.Width -= p.DX
		b.Height += p.DY
	case geometry.HandleBottomRight:
		b.Width += p.DX
		b.Height += p.DY
	}
	b.Width = math.Max(MinSize, b.Width)
	b.Height = math.Max(MinSize, b.Height)
}

// Stretch drags the free end of a draft: the far corner of a Rect or the
// second endpoint of an Arrow. Rect sizes keep their sign.
func (s *Store) Stretch(id int, x, y float64) {
	o := s.Get(id)
	if o == nil {
		return
	}
	switch sh := o.Shape.(type) {
	case *Rect:
		sh.Width = x - sh.X
		sh.Height = y - sh.Y
	case *Arrow:
		sh.X2, sh.Y2 = x, y
	}
}

// ReplaceAll swaps in a restored sequence and clears the selection. The
// id counter never moves backwards.
func (s *Store) ReplaceAll(objects []*Object, c Counters) {
	s.objects = objects
	s.selected = 0
	nextID := s.counters.NextID
	s.counters = c
	if nextID > s.counters.NextID {
		s.counters.NextID = nextID
	}
}

// EnsureExtent grows the canvas to contain o and reports whether it grew.
func (s *Store) EnsureExtent(o *Object) bool {
	r := o.Shape.Bounds().Rectangle()
	grew := false
	if r.Max.X > s.counters.CanvasWidth {
		s.counters.CanvasWidth = r.Max.X
		grew = true
	}
	if r.Max.Y > s.counters.CanvasHeight {
		s.counters.CanvasHeight = r.Max.Y
		grew = true
	}
	return grew
}

// Select marks the object with id as selected. It returns false, leaving
// the selection untouched, when id is not live.
func (s *Store) Select(id int) bool {
	if s.index(id) < 0 {
		return false
	}
	s.selected = id
	return true
}

func (s *Store) ClearSelection() { s.selected = 0 }

// Selected returns the selected object or nil.
func (s *Store) Selected() *Object {
	if s.selected == 0 {
		return nil
	}
	return s.Get(s.selected)
}

// Objects returns the sequence in z-order. The slice is a copy, the
// objects are live.
func (s *Store) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *Store) Len() int { return len(s.objects) }

func (s *Store) Counters() Counters { return s.counters }

// SetCanvas overrides the canvas extent.
func (s *Store) SetCanvas(width, height int) {
	s.counters.CanvasWidth = width
	s.counters.CanvasHeight = height
}
