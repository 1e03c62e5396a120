package scale

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tilewright/tilewright/pkg/errors"
)

// Color is an 8-bit RGBA display color.
type Color struct {
	R, G, B, A uint8
}

// ParseHex parses a CSS hex color (#RGB, #RRGGBB or #RRGGBBAA).
func ParseHex(s string) (Color, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return Color{}, err
	}
	hex := s[1:]
	if len(hex) == 3 {
		// Expand shorthand: #abc -> #aabbcc
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "cannot parse color %q", s)
	}
	c := Color{A: 0xff}
	if len(hex) == 8 {
		c.A = uint8(v & 0xff)
		v >>= 8
	}
	c.R = uint8(v >> 16)
	c.G = uint8(v >> 8)
	c.B = uint8(v)
	return c, nil
}

// MustHex parses a hex color and panics on failure. For package-level
// constants and tests only.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the CSS hex form of the color: #rrggbb, or #rrggbbaa when the
// color is not fully opaque.
func (c Color) Hex() string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opaque reports whether the color has any visible opacity.
func (c Color) Opaque() bool {
	return c.A > 0
}

// lerp interpolates linearly between two colors in RGBA space.
func lerp(a, b Color, t float64) Color {
	f := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + t*(float64(y)-float64(x))))
	}
	return Color{R: f(a.R, b.R), G: f(a.G, b.G), B: f(a.B, b.B), A: f(a.A, b.A)}
}

// Palette maps a unit-interval position to a display color by piecewise
// linear interpolation over an ordered list of stops.
type Palette struct {
	stops []Color
}

// NewPalette builds a palette from two or more hex color stops.
func NewPalette(hex ...string) (Palette, error) {
	if len(hex) < 2 {
		return Palette{}, errors.New(errors.ErrCodeInvalidInput,
			"palette requires at least 2 colors, got %d", len(hex))
	}
	stops := make([]Color, len(hex))
	for i, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			return Palette{}, err
		}
		stops[i] = c
	}
	return Palette{stops: stops}, nil
}

// MustPalette builds a palette and panics on failure. For tests and
// package-level defaults only.
func MustPalette(hex ...string) Palette {
	p, err := NewPalette(hex...)
	if err != nil {
		panic(err)
	}
	return p
}

// At evaluates the palette at position t. Positions outside [0, 1] are
// clamped to the nearest endpoint; NaN evaluates to the first stop.
func (p Palette) At(t float64) Color {
	if len(p.stops) == 0 {
		return Color{}
	}
	if math.IsNaN(t) || t <= 0 {
		return p.stops[0]
	}
	if t >= 1 {
		return p.stops[len(p.stops)-1]
	}
	segs := float64(len(p.stops) - 1)
	pos := t * segs
	i := int(pos)
	return lerp(p.stops[i], p.stops[i+1], pos-float64(i))
}

// Empty reports whether the palette has no stops (the zero value).
func (p Palette) Empty() bool {
	return len(p.stops) == 0
}
