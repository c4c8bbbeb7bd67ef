// Package layout turns styled entries into display lines for a given width.
package layout

import (
	"slices"

	"github.com/dshills/scrollpane/internal/styled"
)

// Mode selects the line breaking algorithm.
type Mode int

const (
	// ModeTruncate maps every entry to exactly one line; overflow is dropped.
	ModeTruncate Mode = iota
	// ModeHardWrap breaks lines at the width regardless of words.
	ModeHardWrap
	// ModeWordWrap moves whole words to the next line where possible.
	ModeWordWrap
)

// ModeFor returns the mode selected by the line-wrap and word-wrap settings.
// wordWrap only matters when lineWrap is enabled.
func ModeFor(lineWrap, wordWrap bool) Mode {
	switch {
	case !lineWrap:
		return ModeTruncate
	case wordWrap:
		return ModeWordWrap
	default:
		return ModeHardWrap
	}
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTruncate:
		return "truncate"
	case ModeHardWrap:
		return "hard"
	case ModeWordWrap:
		return "word"
	default:
		return "unknown"
	}
}

// Engine computes display lines from entries.
type Engine struct {
	mode Mode
}

// NewEngine creates a layout engine using the given mode.
func NewEngine(mode Mode) *Engine {
	return &Engine{mode: mode}
}

// Mode returns the active mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Wrap lays out a single entry. It returns nil for non-positive widths.
func (e *Engine) Wrap(entry styled.Entry, width int) []styled.Entry {
	if width <= 0 {
		return nil
	}

	switch e.mode {
	case ModeTruncate:
		return []styled.Entry{entry.Truncate(width)}
	case ModeWordWrap:
		return wordWrap(entry, width)
	default:
		return hardWrap(entry, width)
	}
}

// WrapAll lays out entries in order and concatenates their lines.
func (e *Engine) WrapAll(entries []styled.Entry, width int) []styled.Entry {
	if width <= 0 {
		return nil
	}
	lines := make([]styled.Entry, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, e.Wrap(entry, width)...)
	}
	return lines
}

// hardWrap breaks an entry into lines of at most width code points.
//
// When a chunk overflows, its head fills the current line and the rest is
// reprocessed on a new line that starts with the last seen colour. The
// remainder is cut at Skip(width) because running is reset before it is
// computed: with text already on the line this drops the characters between
// the truncation point and width. Existing consumers rely on these split
// points.
func hardWrap(entry styled.Entry, width int) []styled.Entry {
	chunks := slices.Clone(entry)
	lines := []styled.Entry{{}}
	running := 0

	var (
		colour    styled.Chunk
		hasColour bool
	)

	for i := 0; i < len(chunks); {
		chunk := chunks[i]
		n := chunk.Len()

		if chunk.IsColour() {
			colour, hasColour = chunk, true
		}

		if running+n > width {
			last := len(lines) - 1
			lines[last] = append(lines[last], chunk.Truncate(width-running))

			lines = append(lines, styled.Entry{})
			running = 0
			if hasColour {
				lines[last+1] = append(lines[last+1], colour)
			}

			chunks[i] = chunk.Skip(width - running)
			continue
		}

		last := len(lines) - 1
		lines[last] = append(lines[last], chunk)
		running += n
		i++
	}

	return lines
}

// wordWrap breaks an entry at word boundaries.
//
// A word that does not fit moves whole to the next line. Only a word longer
// than width is split; its head fills the current line and the remainder
// continues from exactly where the head stopped.
func wordWrap(entry styled.Entry, width int) []styled.Entry {
	chunks := entry.SplitWords()
	lines := []styled.Entry{{}}
	running := 0

	var (
		colour    styled.Chunk
		hasColour bool
	)

	for i := 0; i < len(chunks); {
		chunk := chunks[i]
		n := chunk.Len()

		if chunk.IsColour() {
			colour, hasColour = chunk, true
		}

		if running+n > width {
			if n > width {
				last := len(lines) - 1
				lines[last] = append(lines[last], chunk.Truncate(width-running))
				chunks[i] = chunk.Skip(width - running)
			}

			lines = append(lines, styled.Entry{})
			running = 0
			if hasColour {
				last := len(lines) - 1
				lines[last] = append(lines[last], colour)
			}
			continue
		}

		last := len(lines) - 1
		lines[last] = append(lines[last], chunk)
		running += n
		i++
	}

	return lines
}
