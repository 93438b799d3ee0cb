//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = ErrNoDisplay
			return
		}
		if err := clipboard.Init(); err != nil {
			initErr = fmt.Errorf("init clipboard: %w", err)
		}
	})
	return initErr
}

// WriteImage publishes img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}

// ReadImage returns the PNG bytes currently on the clipboard.
func ReadImage() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}
