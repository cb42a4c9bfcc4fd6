package render

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an alias for color.RGBA for convenience.
// A zero Color (A == 0) asks the sink for its default foreground.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// ParseColor accepts "#rrggbb" hex notation or a "r,g,b" triple.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return RGB(r, g, b), nil
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("parse color %q: want #rrggbb or r,g,b", s)
	}
	return RGB(r, g, b), nil
}

// Palette returns n colors with evenly spaced hues and matched lightness,
// so neighbouring objects stay distinguishable on a dark terminal.
func Palette(n int) []Color {
	out := make([]Color, n)
	for i := range out {
		h := 360 * float64(i) / float64(max(n, 1))
		r, g, b := colorful.Hcl(h, 0.55, 0.75).Clamped().RGB255()
		out[i] = RGB(r, g, b)
	}
	return out
}

// Blend mixes a toward b by t in Lab space. t is clamped to [0, 1].
func Blend(a, b Color, t float64) Color {
	t = min(max(t, 0), 1)
	ca, _ := colorful.MakeColor(opaque(a))
	cb, _ := colorful.MakeColor(opaque(b))
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return RGB(r, g, bl)
}

func opaque(c Color) Color {
	c.A = 255
	return c
}
