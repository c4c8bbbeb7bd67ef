package renderer

import (
	"sync/atomic"

	"github.com/dshills/scrollpane/internal/renderer/backend"
	"github.com/dshills/scrollpane/internal/renderer/core"
	"github.com/dshills/scrollpane/internal/styled"
)

// Renderer paints display lines onto a backend.
type Renderer struct {
	backend backend.Backend
	frames  atomic.Uint64
}

// New creates a renderer drawing to b.
func New(b backend.Backend) *Renderer {
	return &Renderer{backend: b}
}

// Backend returns the underlying backend.
func (r *Renderer) Backend() backend.Backend {
	return r.backend
}

// Draw clears the screen and paints the last height lines, one per row.
// Nothing but the clear happens for a zero-sized screen. Draw does not
// flush; call Show afterwards.
func (r *Renderer) Draw(lines []styled.Entry, width, height int) {
	r.backend.Clear()

	if width <= 0 || height <= 0 {
		return
	}

	start := max(0, len(lines)-height)
	for y, line := range lines[start:] {
		r.drawLine(line, y, width)
	}
}

func (r *Renderer) drawLine(line styled.Entry, y, width int) {
	style := core.DefaultStyle()
	x := 0

	for _, chunk := range line {
		if chunk.IsColour() {
			style = core.NewStyle(core.ColorFromColour(chunk.Colour))
			continue
		}

		for _, ch := range chunk.Text {
			w := core.RuneWidth(ch)
			if w == 0 {
				continue
			}
			if x+w > width {
				return
			}

			r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
			if w == 2 {
				r.backend.SetCell(x+1, y, core.ContinuationCell())
			}
			x += w
		}
	}
}

// Show flushes drawn content to the display.
func (r *Renderer) Show() {
	r.backend.Show()
	r.frames.Add(1)
}

// Frames returns the number of frames shown.
func (r *Renderer) Frames() uint64 {
	return r.frames.Load()
}
