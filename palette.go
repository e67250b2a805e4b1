package worldmap

import (
	"math"
	"strings"
	"unicode/utf16"

	"github.com/lucasb-eyer/go-colorful"
)

// Lightness offsets applied to a country's base color.
const (
	HighlightLighten = 0.18
	HoverLighten     = 0.28
)

const (
	goldenRatioConjugate = 0.61803398875
	maxAdjustAttempts    = 6
)

// CountryIdentity is what a ColorResolver keys colors on.
type CountryIdentity struct {
	Name string
	ISO3 string
	ISO2 string
}

// CountryColors is a resolved base color and its highlight variant.
type CountryColors struct {
	Base      Color
	Highlight Color
}

// ColorResolver maps a country identity to its colors. The projector treats
// it as opaque.
type ColorResolver interface {
	Resolve(id CountryIdentity) CountryColors
}

// ColorResolverFunc adapts a plain function to ColorResolver.
type ColorResolverFunc func(id CountryIdentity) CountryColors

// Resolve calls f(id).
func (f ColorResolverFunc) Resolve(id CountryIdentity) CountryColors { return f(id) }

// flagOverrides pins well-known countries to a color from their flag.
var flagOverrides = map[string]uint32{
	"CAN": 0xd62828, "CA": 0xd62828,
	"MEX": 0x167a3a, "MX": 0x167a3a,
	"IRL": 0x2f8f44, "IE": 0x2f8f44,
	"RUS": 0x82afe4, "RU": 0x82afe4,
	"IND": 0xff8f1a, "IN": 0xff8f1a,
	"USA": 0x7daedb, "US": 0x7daedb,
	"GBR": 0xc8102e, "GB": 0xc8102e,
	"FRA": 0x0055a4, "FR": 0x0055a4,
	"CHN": 0xc4271b, "CN": 0xc4271b,
	"AUS": 0x8dd4c3, "AU": 0x8dd4c3,
	"DEU": 0xffce00, "DE": 0xffce00,
	"BRA": 0x158f3f, "BR": 0x158f3f,
	"ZAF": 0x007a4d, "ZA": 0x007a4d,
	"JPN": 0xbc002d, "JP": 0xbc002d,
	"ATA": 0xf6f6f0, "AQ": 0xf6f6f0,
	"GRL": 0xf3f5f9, "GL": 0xf3f5f9,
}

// Palette is the default ColorResolver. Countries with a flag override get
// that color; everything else gets a hashed HSL color, rotated away from
// colors already handed out. The rotation gives up after a few attempts, so
// two countries can still share a color.
//
// A Palette is not safe for concurrent use.
type Palette struct {
	overrides map[string]uint32
	used      map[uint32]struct{}
	cache     map[string]CountryColors
}

// NewPalette returns a Palette with the built-in flag overrides plus extra,
// keyed by ISO3 or ISO2 code (case-insensitive) with "#rrggbb" or "rrggbb"
// values. Invalid extra values are reported as an error.
func NewPalette(extra map[string]string) (*Palette, error) {
	p := &Palette{
		overrides: make(map[string]uint32, len(flagOverrides)+len(extra)),
		used:      make(map[uint32]struct{}),
		cache:     make(map[string]CountryColors),
	}
	for code, hex := range flagOverrides {
		p.overrides[code] = hex
	}
	for code, value := range extra {
		hex, err := ParseHexColor(value)
		if err != nil {
			return nil, err
		}
		p.overrides[strings.ToUpper(code)] = hex
	}
	return p, nil
}

// Resolve returns the colors for id. Repeated calls with the same identity
// return the same colors.
func (p *Palette) Resolve(id CountryIdentity) CountryColors {
	iso3 := strings.ToUpper(id.ISO3)
	iso2 := strings.ToUpper(id.ISO2)
	key := iso3 + ":" + iso2 + ":" + id.Name
	if cc, ok := p.cache[key]; ok {
		return cc
	}

	var base uint32
	overridden := false
	for _, code := range [2]string{iso3, iso2} {
		if code == "" {
			continue
		}
		if hex, ok := p.overrides[code]; ok {
			base, overridden = hex, true
			break
		}
	}

	if !overridden {
		hash := hashString(id.Name + ":" + iso3 + ":" + iso2)
		c := colorFromHash(hash)
		for attempt := int32(0); attempt < maxAdjustAttempts; attempt++ {
			if _, taken := p.used[c.Hex()]; !taken {
				break
			}
			c = c.RotateHue(float64(40 + ((hash+attempt)%4)*17))
		}
		base = c.Hex()
	}

	p.used[base] = struct{}{}
	c := ColorFromHex(base)
	cc := CountryColors{Base: c, Highlight: c.Lighten(HighlightLighten)}
	p.cache[key] = cc
	return cc
}

// hashString is the classic 31-multiplier string hash over UTF-16 code
// units, wrapping at 32 bits.
func hashString(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(u)
	}
	return h
}

func colorFromHash(hash int32) Color {
	hue := math.Mod(math.Mod(float64(hash)*goldenRatioConjugate, 1)+1, 1)
	sat := clamp(0.58+float64((hash>>3)&3)*0.08, 0.5, 0.78)
	light := clamp(0.46+float64((hash>>5)&3)*0.05, 0.38, 0.64)
	return fromColorful(colorful.Hsl(hue*360, sat, light), 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
