package styled

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ChunkKind identifies the variant held by a Chunk.
type ChunkKind uint8

const (
	// KindText is a run of displayable text.
	KindText ChunkKind = iota
	// KindColour is a zero-width colour change marker.
	KindColour
)

// String returns the wire name of the kind.
func (k ChunkKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindColour:
		return "colour"
	default:
		return "unknown"
	}
}

// ErrUnknownChunk is returned when decoding a chunk with an unrecognized type.
var ErrUnknownChunk = errors.New("styled: unknown chunk type")

// Chunk is the atomic element of an Entry.
// Chunks are values; every transform returns a new chunk.
type Chunk struct {
	Kind   ChunkKind
	Text   string
	Colour Colour
}

// Text returns a text chunk.
func Text(s string) Chunk {
	return Chunk{Kind: KindText, Text: s}
}

// Paint returns a colour marker chunk.
func Paint(c Colour) Chunk {
	return Chunk{Kind: KindColour, Colour: c}
}

// IsColour reports whether the chunk is a colour marker.
func (c Chunk) IsColour() bool {
	return c.Kind == KindColour
}

// Len returns the width the chunk occupies: 0 for colour markers and the
// number of code points for text.
func (c Chunk) Len() int {
	if c.Kind != KindText {
		return 0
	}
	return utf8.RuneCountInString(c.Text)
}

// Truncate returns a copy whose text holds at most n code points.
// Colour markers are returned unchanged.
func (c Chunk) Truncate(n int) Chunk {
	if c.Kind != KindText {
		return c
	}
	c.Text = c.Text[:runeOffset(c.Text, n)]
	return c
}

// Skip returns a copy with the first n code points of text removed.
// Colour markers are returned unchanged.
func (c Chunk) Skip(n int) Chunk {
	if c.Kind != KindText {
		return c
	}
	c.Text = c.Text[runeOffset(c.Text, n):]
	return c
}

// String renders the chunk for debugging.
func (c Chunk) String() string {
	if c.Kind == KindColour {
		return fmt.Sprintf("Colour(%s)", c.Colour)
	}
	return fmt.Sprintf("Text(%q)", c.Text)
}

// runeOffset returns the byte offset of the n-th code point of s,
// clamped to [0, len(s)].
func runeOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}

type chunkWire struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the chunk as {"type": ..., "value": ...}.
func (c Chunk) MarshalJSON() ([]byte, error) {
	var (
		value []byte
		err   error
	)
	switch c.Kind {
	case KindText:
		value, err = json.Marshal(c.Text)
	case KindColour:
		value, err = json.Marshal(c.Colour)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownChunk, c.Kind)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(chunkWire{Type: c.Kind.String(), Value: value})
}

// UnmarshalJSON decodes a chunk from {"type": ..., "value": ...}.
func (c *Chunk) UnmarshalJSON(data []byte) error {
	var w chunkWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Value) == 0 {
		return fmt.Errorf("chunk %q: missing value", w.Type)
	}

	switch w.Type {
	case "text":
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return fmt.Errorf("text chunk: %w", err)
		}
		*c = Text(s)
	case "colour":
		var col Colour
		if err := json.Unmarshal(w.Value, &col); err != nil {
			return fmt.Errorf("colour chunk: %w", err)
		}
		*c = Paint(col)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChunk, w.Type)
	}
	return nil
}
