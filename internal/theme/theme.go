// Package theme holds the palette of the editor window chrome. Annotation
// colors are not part of a theme.
package theme

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// Theme defines the colors used to paint the window around the canvas.
type Theme struct {
	Name string

	Background color.RGBA // behind the canvas
	Foreground color.RGBA

	Toolbar       color.RGBA
	ToolbarText   color.RGBA
	ToolActive    color.RGBA // selected tool button
	ToolDisabled  color.RGBA // text of buttons that cannot act
	ButtonBorder  color.RGBA
	Status        color.RGBA
	StatusText    color.RGBA
	Handle        color.RGBA // selection handles and outline
	CheckerLight  color.RGBA
	CheckerDark   color.RGBA
	EditorOutline color.RGBA // border of the text input box
}

// Default returns the light theme.
func Default() *Theme {
	return &Theme{
		Name:          "default",
		Background:    color.RGBA{220, 220, 220, 255},
		Foreground:    color.RGBA{0, 0, 0, 255},
		Toolbar:       color.RGBA{236, 236, 236, 255},
		ToolbarText:   color.RGBA{0, 0, 0, 255},
		ToolActive:    color.RGBA{190, 210, 235, 255},
		ToolDisabled:  color.RGBA{150, 150, 150, 255},
		ButtonBorder:  color.RGBA{120, 120, 120, 255},
		Status:        color.RGBA{236, 236, 236, 255},
		StatusText:    color.RGBA{60, 60, 60, 255},
		Handle:        color.RGBA{0x34, 0x98, 0xdb, 255},
		CheckerLight:  color.RGBA{220, 220, 220, 255},
		CheckerDark:   color.RGBA{192, 192, 192, 255},
		EditorOutline: color.RGBA{0x34, 0x98, 0xdb, 255},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return &Theme{
		Name:          "dark",
		Background:    color.RGBA{40, 40, 44, 255},
		Foreground:    color.RGBA{230, 230, 230, 255},
		Toolbar:       color.RGBA{30, 30, 33, 255},
		ToolbarText:   color.RGBA{230, 230, 230, 255},
		ToolActive:    color.RGBA{60, 90, 130, 255},
		ToolDisabled:  color.RGBA{110, 110, 110, 255},
		ButtonBorder:  color.RGBA{90, 90, 90, 255},
		Status:        color.RGBA{30, 30, 33, 255},
		StatusText:    color.RGBA{190, 190, 190, 255},
		Handle:        color.RGBA{0x34, 0x98, 0xdb, 255},
		CheckerLight:  color.RGBA{80, 80, 80, 255},
		CheckerDark:   color.RGBA{60, 60, 60, 255},
		EditorOutline: color.RGBA{0x5d, 0xad, 0xe2, 255},
	}
}

var builtin = map[string]func() *Theme{
	"default": Default,
	"light":   Default,
	"dark":    Dark,
}

// Builtin returns a fresh copy of the named built-in theme.
func Builtin(name string) (*Theme, bool) {
	fn, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Names lists the built-in theme names.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve picks the theme called name, preferring custom definitions over
// built-ins. An empty name selects Default.
func Resolve(name string, custom map[string]*Theme) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if t, ok := custom[name]; ok && t != nil {
		return t, nil
	}
	if t, ok := Builtin(name); ok {
		return t, nil
	}
	return Default(), fmt.Errorf("theme %q not found", name)
}
