package worldmap

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the stroke color used for country outlines.
var ColorWhite = Color{1, 1, 1, 1}

// ColorOcean is the background the map is drawn over (#153654).
var ColorOcean = ColorFromHex(0x153654)

// ColorFromHex converts a 0xRRGGBB integer into an opaque Color.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// ParseHexColor parses "#rrggbb" or "rrggbb" into a 0xRRGGBB integer.
func ParseHexColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return 0, fmt.Errorf("worldmap: empty color")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("worldmap: parse color %q: %w", s, err)
	}
	return uint32(v) & 0xffffff, nil
}

// Hex returns the color as a 0xRRGGBB integer, ignoring alpha.
func (c Color) Hex() uint32 {
	return uint32(channel8(c.R))<<16 | uint32(channel8(c.G))<<8 | uint32(channel8(c.B))
}

// HexString returns the color formatted as "#rrggbb".
func (c Color) HexString() string {
	return fmt.Sprintf("#%06x", c.Hex())
}

// WithAlpha returns a copy of c with the alpha channel replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Lighten raises the HSL lightness of c by amount (0..1), clamped at white.
// Alpha is preserved.
func (c Color) Lighten(amount float64) Color {
	h, s, l := c.colorful().Hsl()
	l = math.Min(1, l+amount)
	return fromColorful(colorful.Hsl(h, s, l), c.A)
}

// RotateHue returns c with its hue shifted by degrees. Saturation,
// lightness and alpha are preserved.
func (c Color) RotateHue(degrees float64) Color {
	h, s, l := c.colorful().Hsl()
	h = math.Mod(h+degrees+360, 360)
	return fromColorful(colorful.Hsl(h, s, l), c.A)
}

// NRGBA converts c to a straight-alpha color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: channel8(c.R), G: channel8(c.G), B: channel8(c.B), A: channel8(c.A)}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// fromColorful quantizes to 8 bits per channel so colors compare equal by
// their integer value.
func fromColorful(cc colorful.Color, alpha float64) Color {
	r, g, b := cc.Clamped().RGB255()
	out := ColorFromHex(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
	out.A = alpha
	return out
}

func channel8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
