// Package core holds the cell and colour types shared by the renderer and
// its backends.
package core

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/scrollpane/internal/styled"
)

// Color is a terminal colour: the default colour, a palette index or an
// RGB triple. Values built with the constructors below compare with ==.
type Color struct {
	R, G, B uint8
	// Indexed colours keep the palette index in R.
	Indexed bool
	Default bool
}

// ColorDefault is the terminal's own foreground or background.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true colour.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates a palette colour.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromColour converts an entry colour. Reset and unknown colours map to
// the terminal default.
func ColorFromColour(c styled.Colour) Color {
	if c.IsReset() {
		return ColorDefault
	}
	if idx, ok := c.PaletteIndex(); ok {
		return ColorFromIndex(idx)
	}
	if r, g, b, ok := c.RGB(); ok {
		return ColorFromRGB(r, g, b)
	}
	return ColorDefault
}

func (c Color) IsDefault() bool {
	return c.Default
}

func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
}

// Style is the colour pair a cell is drawn with.
type Style struct {
	Foreground Color
	Background Color
}

// DefaultStyle uses the terminal default for both colours.
func DefaultStyle() Style {
	return NewStyle(ColorDefault)
}

// NewStyle creates a style with the given foreground on the default
// background. Entries never set a background.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg, Background: ColorDefault}
}

// Cell is one terminal cell. A wide rune occupies its own cell plus a
// following continuation cell of width 0.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell is a blank in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewStyledCell creates a cell for r, measuring its width.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// ContinuationCell fills the second column of a wide rune.
func ContinuationCell() Cell {
	return Cell{Style: DefaultStyle()}
}

func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// RuneWidth returns the display width of r. Control characters are 0 wide
// and are not drawn.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return runewidth.RuneWidth(r)
}
