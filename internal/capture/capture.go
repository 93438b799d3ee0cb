// Package capture grabs the desktop as an image source for the editor. It
// asks the xdg-desktop-portal over D-Bus first and falls back to reading
// the X11 root window.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
)

// ErrUnsupported is returned on platforms without a capture backend.
var ErrUnsupported = errors.New("screen capture is not supported on this platform")

// Options controls a capture.
type Options struct {
	// Interactive lets the user pick a region in the portal dialog. It
	// disables the X11 fallback.
	Interactive   bool
	IncludeCursor bool
}

type backend interface {
	// Portal returns the encoded PNG the portal wrote.
	Portal(ctx context.Context, opts Options) ([]byte, error)
	Root(ctx context.Context) (*image.RGBA, error)
}

var active backend = newBackend()

// Screenshot captures the desktop and returns it PNG encoded.
func Screenshot(ctx context.Context, opts Options) ([]byte, error) {
	data, portalErr := active.Portal(ctx, opts)
	if portalErr == nil {
		return data, nil
	}
	if opts.Interactive || ctx.Err() != nil {
		return nil, portalErr
	}
	log.Printf("portal screenshot failed, trying X11: %v", portalErr)
	img, err := active.Root(ctx)
	if err != nil {
		return nil, fmt.Errorf("screenshot: portal: %v; x11: %w", portalErr, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}
