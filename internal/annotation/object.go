// Package annotation is the in-memory annotation model: the drawable
// variants, their hit-testing, and the ordered Store that owns them.
package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
)

// Kind tags a Shape variant in serialized form.
type Kind string

const (
	KindImage Kind = "image"
	KindRect  Kind = "rect"
	KindArrow Kind = "arrow"
	KindText  Kind = "text"
	KindStamp Kind = "stamp"
)

var (
	// ErrUnknownKind is returned when decoding an object with an unknown tag.
	ErrUnknownKind = errors.New("unknown annotation kind")
	// ErrNoShape is returned when encoding an object without a shape.
	ErrNoShape = errors.New("annotation has no shape")
)

// Shape is implemented by exactly the five annotation variants.
type Shape interface {
	Kind() Kind
	// Bounds returns the axis-aligned area covered by the shape.
	Bounds() Bounds
	clone() Shape
}

// Bounds is a floating point rectangle with Min inclusive.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Rectangle rounds b outwards to integer pixels.
func (b Bounds) Rectangle() image.Rectangle {
	return image.Rect(int(math.Floor(b.MinX)), int(math.Floor(b.MinY)), int(math.Ceil(b.MaxX)), int(math.Ceil(b.MaxY)))
}

// Box is the geometry shared by the bounding-box variants.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b Box) bounds() Bounds {
	minX, maxX := math.Min(b.X, b.X+b.Width), math.Max(b.X, b.X+b.Width)
	minY, maxY := math.Min(b.Y, b.Y+b.Height), math.Max(b.Y, b.Y+b.Height)
	return Bounds{minX, minY, maxX, maxY}
}

// Image is a raster placed on the canvas. Pixels are never serialized; the
// encoded Source travels instead.
type Image struct {
	Box
	OriginalWidth  int    `json:"originalWidth"`
	OriginalHeight int    `json:"originalHeight"`
	Source         Source `json:"source"`
}

// Rect is a stroked rectangle outline.
type Rect struct {
	Box
	Stroke      Color   `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Arrow points from (X1, Y1) to (X2, Y2).
type Arrow struct {
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	Stroke      Color   `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Text is a single line label drawn over a filled background.
type Text struct {
	Box
	Content    string  `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	Fill       Color   `json:"fill"`
	Background Color   `json:"background"`
	Padding    float64 `json:"padding"`
}

// Stamp is a numbered disc. (X, Y) is the top-left of its bounding square.
type Stamp struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Number    int     `json:"number"`
	Fill      Color   `json:"fill"`
	TextColor Color   `json:"textColor"`
}

// Center returns the center of the disc.
func (s *Stamp) Center() (float64, float64) { return s.X + s.Radius, s.Y + s.Radius }

func (s *Image) Kind() Kind { return KindImage }
func (s *Rect) Kind() Kind  { return KindRect }
func (s *Arrow) Kind() Kind { return KindArrow }
func (s *Text) Kind() Kind  { return KindText }
func (s *Stamp) Kind() Kind { return KindStamp }

func (s *Image) Bounds() Bounds { return s.Box.bounds() }
func (s *Rect) Bounds() Bounds  { return s.Box.bounds() }
func (s *Text) Bounds() Bounds  { return s.Box.bounds() }

func (s *Arrow) Bounds() Bounds {
	return Bounds{math.Min(s.X1, s.X2), math.Min(s.Y1, s.Y2), math.Max(s.X1, s.X2), math.Max(s.Y1, s.Y2)}
}

func (s *Stamp) Bounds() Bounds {
	return Bounds{s.X, s.Y, s.X + 2*s.Radius, s.Y + 2*s.Radius}
}

func (s *Image) clone() Shape { c := *s; return &c }
func (s *Rect) clone() Shape  { c := *s; return &c }
func (s *Arrow) clone() Shape { c := *s; return &c }
func (s *Text) clone() Shape  { c := *s; return &c }
func (s *Stamp) clone() Shape { c := *s; return &c }

// Object is one entry of the Store.
type Object struct {
	ID    int
	Shape Shape
}

// Kind returns the variant tag of the object's shape.
func (o *Object) Kind() Kind {
	if o.Shape == nil {
		return ""
	}
	return o.Shape.Kind()
}

// Clone returns a deep copy of o. Encoded image bytes are shared because
// they are never written after creation.
func (o *Object) Clone() *Object {
	c := &Object{ID: o.ID}
	if o.Shape != nil {
		c.Shape = o.Shape.clone()
	}
	return c
}

type objectJSON struct {
	ID    int             `json:"id"`
	Type  Kind            `json:"type"`
	Shape json.RawMessage `json:"shape"`
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o.Shape == nil {
		return nil, fmt.Errorf("object %d: %w", o.ID, ErrNoShape)
	}
	data, err := json.Marshal(o.Shape)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", o.ID, err)
	}
	return json.Marshal(objectJSON{ID: o.ID, Type: o.Shape.Kind(), Shape: data})
}

func (o *Object) UnmarshalJSON(b []byte) error {
	var raw objectJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var shape Shape
	switch raw.Type {
	case KindImage:
		shape = &Image{}
	case KindRect:
		shape = &Rect{}
	case KindArrow:
		shape = &Arrow{}
	case KindText:
		shape = &Text{}
	case KindStamp:
		shape = &Stamp{}
	default:
		return fmt.Errorf("object %d: %w %q", raw.ID, ErrUnknownKind, raw.Type)
	}
	if err := json.Unmarshal(raw.Shape, shape); err != nil {
		return fmt.Errorf("object %d: %w", raw.ID, err)
	}
	o.ID = raw.ID
	o.Shape = shape
	return nil
}

// Source is the encoded form of an image (PNG, JPEG, ...). The decoded
// pixels are cached on first use and shared between clones.
type Source struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"`

	cache *decoded
}

type decoded struct {
	once sync.Once
	img  image.Image
	err  error
}

// NewSource wraps encoded image bytes. If img is non-nil it seeds the
// decode cache so the bytes are not decoded a second time.
func NewSource(mime string, data []byte, img image.Image) Source {
	s := Source{MIME: mime, Data: data, cache: &decoded{}}
	if img != nil {
		s.cache.once.Do(func() { s.cache.img = img })
	}
	return s
}

func (s *Source) UnmarshalJSON(b []byte) error {
	var raw struct {
		MIME string `json:"mime"`
		Data []byte `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = NewSource(raw.MIME, raw.Data, nil)
	return nil
}

// Image decodes the source. Decoders must be registered with the image
// package by the caller (see the ingest package).
func (s Source) Image() (image.Image, error) {
	if s.cache == nil {
		img, _, err := image.Decode(bytes.NewReader(s.Data))
		return img, err
	}
	s.cache.once.Do(func() {
		s.cache.img, _, s.cache.err = image.Decode(bytes.NewReader(s.Data))
	})
	return s.cache.img, s.cache.err
}
