// Package colour provides the colour arithmetic used to correct caption text.
package colour

import (
	"fmt"
	"strings"
)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Neutral is mid-grey, the colour given to captions that carry no colour of their own.
var Neutral = RGB{R: 127, G: 127, B: 127}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Shift adds delta to every channel, clamping each to [0, 255].
func (rgb RGB) Shift(delta int) RGB {
	return RGB{
		R: ClampChannel(int(rgb.R) + delta),
		G: ClampChannel(int(rgb.G) + delta),
		B: ClampChannel(int(rgb.B) + delta),
	}
}

// ParseHex parses a hex color string (#RRGGBB or RRGGBB). Digits are case-insensitive.
func ParseHex(hex string) (RGB, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: want 6 hex digits", hex)
	}

	var v [3]uint8
	for i := range v {
		hi, ok1 := hexDigit(s[2*i])
		lo, ok2 := hexDigit(s[2*i+1])
		if !ok1 || !ok2 {
			return RGB{}, fmt.Errorf("invalid hex colour %q: non-hex digit", hex)
		}
		v[i] = hi<<4 | lo
	}

	return RGB{R: v[0], G: v[1], B: v[2]}, nil
}

// MarshalText encodes the colour as lowercase #rrggbb.
func (rgb RGB) MarshalText() ([]byte, error) {
	return []byte(rgb.Hex()), nil
}

// UnmarshalText accepts #RRGGBB so colours can be written as hex in config files.
func (rgb *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*rgb = parsed
	return nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
