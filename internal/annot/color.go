// internal/annot/color.go
package annot

import "fmt"

// Color is an opaque RGB color. Transparency is carried separately as
// Base.Opacity so one object-level alpha covers stroke and fill alike,
// matching how highlight rendering works.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Common colors used as tool defaults.
var (
	Black  = Color{0x00, 0x00, 0x00}
	Red    = Color{0xe0, 0x2f, 0x2f}
	Yellow = Color{0xff, 0xe6, 0x3b}
	White  = Color{0xff, 0xff, 0xff}
)

// ParseColor parses "#rrggbb" (the form used in the config file).
func ParseColor(s string) (Color, error) {
	var c Color
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Floats returns the components scaled to [0,1], the range PDF content
// streams use.
func (c Color) Floats() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}
