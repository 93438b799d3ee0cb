// Package clipboard moves images between the system clipboard and the
// editor: paste reads encoded PNG bytes, copy publishes the export.
package clipboard

import "errors"

var (
	// ErrNoDisplay is returned when no X11 or Wayland session is present.
	ErrNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty is returned when the clipboard holds no image.
	ErrEmpty = errors.New("clipboard does not contain image data")
	// ErrUnsupported is returned on builds without clipboard support.
	ErrUnsupported = errors.New("clipboard image operations are not supported in this build")
)
