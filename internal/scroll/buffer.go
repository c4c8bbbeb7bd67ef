package scroll

import (
	"slices"

	"github.com/dshills/scrollpane/internal/renderer/layout"
	"github.com/dshills/scrollpane/internal/styled"
)

// DefaultMaxEntries is the retention bound used when none is configured.
const DefaultMaxEntries = 100

// Record is a retained entry and its identifier.
type Record struct {
	UID   uint32
	Entry styled.Entry
}

// Options configures a Buffer.
type Options struct {
	// MaxEntries bounds the number of retained records. Values below 1 use
	// DefaultMaxEntries.
	MaxEntries int

	// Mode selects the line breaking algorithm used by Format.
	Mode layout.Mode
}

// DefaultOptions returns the default buffer options.
func DefaultOptions() Options {
	return Options{
		MaxEntries: DefaultMaxEntries,
		Mode:       layout.ModeHardWrap,
	}
}

// Buffer is the bounded ordered store of records plus its layout cache.
//
// Buffer is not safe for concurrent use; it is owned by a single worker.
type Buffer struct {
	skip       uint32
	records    []Record
	maxEntries int

	engine     *layout.Engine
	cache      []styled.Entry
	cacheWidth int
}

// NewBuffer creates an empty buffer.
func NewBuffer(opts Options) *Buffer {
	if opts.MaxEntries < 1 {
		opts.MaxEntries = DefaultMaxEntries
	}
	return &Buffer{
		maxEntries: opts.MaxEntries,
		records:    make([]Record, 0, min(opts.MaxEntries+1, 1024)),
		engine:     layout.NewEngine(opts.Mode),
	}
}

// Add inserts entry at the resolved position and returns its uid.
//
// A position before the retained window cannot be stored: Add reports false
// but still advances Skip by one so later relative positions keep counting
// the consumed slot. When the insert pushes the buffer past its bound the
// oldest record is evicted and Skip advances.
func (b *Buffer) Add(entry styled.Entry, pos Position) (uint32, bool) {
	index := pos.Eval(b.Cursor())
	if index < b.skip {
		b.skip++
		return 0, false
	}

	local := int(index - b.skip)
	uid := NextUID()
	rec := Record{UID: uid, Entry: entry}

	if local >= len(b.records) {
		b.records = append(b.records, rec)
	} else {
		b.records = slices.Insert(b.records, local, rec)
	}

	if len(b.records) > b.maxEntries {
		b.records = slices.Delete(b.records, 0, 1)
		b.skip++
	}

	return uid, true
}

// Remove deletes the record with the given uid.
func (b *Buffer) Remove(uid uint32) bool {
	i := b.indexOf(uid)
	if i < 0 {
		return false
	}
	b.records = slices.Delete(b.records, i, i+1)
	return true
}

// Update replaces the entry of the record with the given uid.
func (b *Buffer) Update(uid uint32, entry styled.Entry) bool {
	i := b.indexOf(uid)
	if i < 0 {
		return false
	}
	b.records[i].Entry = entry
	return true
}

func (b *Buffer) indexOf(uid uint32) int {
	return slices.IndexFunc(b.records, func(r Record) bool { return r.UID == uid })
}

// Format rebuilds the layout cache for width. A zero width is ignored.
func (b *Buffer) Format(width int) {
	if width <= 0 {
		return
	}

	lines := make([]styled.Entry, 0, len(b.records))
	for _, r := range b.records {
		lines = append(lines, b.engine.Wrap(r.Entry, width)...)
	}
	b.cache = lines
	b.cacheWidth = width
}

// Lines returns the cached display lines. Callers must not modify them.
func (b *Buffer) Lines() []styled.Entry {
	return b.cache
}

// CacheWidth returns the width the cache was computed for, or 0 if the
// cache has never been built.
func (b *Buffer) CacheWidth() int {
	return b.cacheWidth
}

// Mode returns the layout mode used by Format.
func (b *Buffer) Mode() layout.Mode {
	return b.engine.Mode()
}

// Skip returns the number of logical positions before the retained window.
func (b *Buffer) Skip() uint32 {
	return b.skip
}

// Len returns the number of retained records.
func (b *Buffer) Len() int {
	return len(b.records)
}

// Cursor returns the total logical count: Skip plus retained records.
func (b *Buffer) Cursor() uint32 {
	return b.skip + uint32(len(b.records))
}

// MaxEntries returns the retention bound.
func (b *Buffer) MaxEntries() int {
	return b.maxEntries
}

// Records returns a copy of the retained records, oldest first.
func (b *Buffer) Records() []Record {
	return slices.Clone(b.records)
}
