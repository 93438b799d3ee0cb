// Package ingest turns encoded image bytes from files, the clipboard or a
// screen capture into sources the editor can place.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	// Decoders available to annotation.Source.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
)

var (
	// ErrNoImage is returned for empty input.
	ErrNoImage = errors.New("no image data")
	// ErrUnsupported is returned when no registered decoder recognises the
	// data.
	ErrUnsupported = errors.New("unsupported image format")
)

// Image is a decoded image ready for insertion.
type Image struct {
	Source        annotation.Source
	Width, Height int
}

// Decode validates data and records its native size. The decoded pixels
// are kept in the source so drawing does not decode again.
func Decode(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrNoImage
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Image{}, ErrUnsupported
		}
		return Image{}, fmt.Errorf("decode %s: %w", format, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return Image{}, ErrNoImage
	}
	return Image{
		Source: annotation.NewSource("image/"+format, data, img),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// FromFile reads and decodes an image file.
func FromFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read %s: %w", path, err)
	}
	img, err := Decode(data)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// FromClipboard decodes the image currently on the system clipboard.
func FromClipboard() (Image, error) {
	data, err := clipboard.ReadImage()
	if err != nil {
		if errors.Is(err, clipboard.ErrEmpty) {
			return Image{}, ErrNoImage
		}
		return Image{}, fmt.Errorf("paste: %w", err)
	}
	return Decode(data)
}

// FromCapture takes a screenshot and decodes it.
func FromCapture(ctx context.Context, opts capture.Options) (Image, error) {
	data, err := capture.Screenshot(ctx, opts)
	if err != nil {
		return Image{}, fmt.Errorf("capture: %w", err)
	}
	return Decode(data)
}
