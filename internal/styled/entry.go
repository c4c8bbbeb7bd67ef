package styled

import "strings"

// Entry is one logical record: text runs interleaved with colour markers.
// Entries are treated as immutable; transforms return new entries.
type Entry []Chunk

// Width returns the total text length of the entry.
func (e Entry) Width() int {
	n := 0
	for _, c := range e {
		n += c.Len()
	}
	return n
}

// Plain returns the concatenated text with colour markers dropped.
func (e Entry) Plain() string {
	var sb strings.Builder
	for _, c := range e {
		if c.Kind == KindText {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// Truncate returns the prefix of the entry that fits in width.
// The first chunk that would overflow is cut to the remaining space and
// everything after it is dropped.
func (e Entry) Truncate(width int) Entry {
	if width < 0 {
		width = 0
	}
	out := make(Entry, 0, len(e))
	running := 0

	for _, c := range e {
		n := c.Len()
		if running+n > width {
			out = append(out, c.Truncate(width-running))
			break
		}
		out = append(out, c)
		running += n
	}

	return out
}

// SplitWords splits every text chunk on ' ' into one chunk per word.
// Each word keeps a trailing space except the last fragment of its source
// chunk. Colour markers pass through unchanged.
func (e Entry) SplitWords() Entry {
	out := make(Entry, 0, len(e))

	for _, c := range e {
		if c.Kind != KindText {
			out = append(out, c)
			continue
		}

		words := strings.Split(c.Text, " ")
		for _, w := range words[:len(words)-1] {
			out = append(out, Text(w+" "))
		}
		out = append(out, Text(words[len(words)-1]))
	}

	return out
}

// Clone returns a copy of the entry that shares no backing array.
func (e Entry) Clone() Entry {
	if e == nil {
		return nil
	}
	out := make(Entry, len(e))
	copy(out, e)
	return out
}
