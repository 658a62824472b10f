package gamedata

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000")
// to a colorful.Color.
func ParseHexColor(hex string) (colorful.Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return c, nil
}

// MustParseHexColor converts a hex color string, panicking on error.
func MustParseHexColor(hex string) colorful.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}

// TCellColor converts a colorful.Color to a tcell.Color for rendering.
func TCellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Shade blends a color toward black (t < 0) or white (t > 0) in Lab space.
// The tuner uses it to dim off-target chart bars without losing hue.
func Shade(c colorful.Color, t float64) colorful.Color {
	switch {
	case t < 0:
		return c.BlendLab(colorful.Color{}, -t).Clamped()
	case t > 0:
		return c.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, t).Clamped()
	default:
		return c
	}
}
