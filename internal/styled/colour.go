// Package styled provides the styled text model shared by the scroll buffer,
// the layout engine and the renderer.
//
// An Entry is an ordered run of Chunks. A chunk is either a piece of text or
// a zero-width colour marker; the colour in effect for a text chunk is the
// most recent colour marker before it in the same entry.
package styled

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Colour is an opaque, comparable colour token.
//
// It holds either a palette name ("red", "lightblue", "reset", ...) or a
// normalized "#rrggbb" true colour. The zero value is not a valid colour.
type Colour string

// ColourReset restores the surface's default foreground.
const ColourReset Colour = "reset"

// palette maps named colours to their 16-colour palette index.
var palette = map[Colour]uint8{
	"black":        0,
	"red":          1,
	"green":        2,
	"yellow":       3,
	"blue":         4,
	"magenta":      5,
	"cyan":         6,
	"white":        7,
	"grey":         8,
	"lightred":     9,
	"lightgreen":   10,
	"lightyellow":  11,
	"lightblue":    12,
	"lightmagenta": 13,
	"lightcyan":    14,
	"lightwhite":   15,
}

// ParseColour validates and normalizes a colour token.
// Names are case-insensitive and ignore '-', '_' and spaces; "gray" is
// accepted as "grey". Hex tokens accept "#rgb" and "#rrggbb".
func ParseColour(s string) (Colour, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) != 4 && len(s) != 7 {
			return "", fmt.Errorf("invalid colour %q: want #rgb or #rrggbb", s)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return "", fmt.Errorf("invalid colour %q: %w", s, err)
		}
		return Colour(c.Hex()), nil
	}

	name := strings.ToLower(s)
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
	name = strings.ReplaceAll(name, "gray", "grey")

	c := Colour(name)
	if c == ColourReset {
		return c, nil
	}
	if _, ok := palette[c]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown colour %q", s)
}

// MustParseColour is like ParseColour but panics on error.
// Intended for constants and tests.
func MustParseColour(s string) Colour {
	c, err := ParseColour(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsReset reports whether the colour restores the default foreground.
func (c Colour) IsReset() bool {
	return c == ColourReset
}

// PaletteIndex returns the palette index for named colours.
func (c Colour) PaletteIndex() (uint8, bool) {
	idx, ok := palette[c]
	return idx, ok
}

// RGB returns the components of a true colour token.
func (c Colour) RGB() (r, g, b uint8, ok bool) {
	if !strings.HasPrefix(string(c), "#") {
		return 0, 0, 0, false
	}
	col, err := colorful.Hex(string(c))
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b = col.RGB255()
	return r, g, b, true
}

// String returns the token.
func (c Colour) String() string {
	return string(c)
}

// MarshalJSON encodes the colour as a JSON string.
func (c Colour) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

// UnmarshalJSON decodes and validates a colour token.
func (c *Colour) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("colour must be a string: %w", err)
	}
	parsed, err := ParseColour(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
