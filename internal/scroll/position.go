// Package scroll implements the bounded scrollback store and its layout cache.
//
// Entries are addressed by global logical index. The buffer retains at most
// MaxEntries records; positions before the retained window are counted by
// Skip so global numbering stays stable as old records are evicted.
package scroll

import (
	"fmt"
	"math"
)

// PositionKind identifies how a Position is resolved.
type PositionKind uint8

const (
	// PositionAbsolute addresses a global index.
	PositionAbsolute PositionKind = iota
	// PositionRelative addresses an offset from the cursor.
	PositionRelative
)

// String returns the wire name of the kind.
func (k PositionKind) String() string {
	switch k {
	case PositionAbsolute:
		return "absolute"
	case PositionRelative:
		return "relative"
	default:
		return "unknown"
	}
}

// Position is an insertion target.
type Position struct {
	Kind   PositionKind
	Index  uint32 // absolute global index
	Offset int32  // signed offset from the cursor
}

// Absolute returns a position at global index i.
func Absolute(i uint32) Position {
	return Position{Kind: PositionAbsolute, Index: i}
}

// Relative returns a position at offset o from the cursor.
// Relative(0) appends at the logical end.
func Relative(o int32) Position {
	return Position{Kind: PositionRelative, Offset: o}
}

// End is the append position.
var End = Relative(0)

// Eval resolves the position against cursor, the total logical count.
// The result never exceeds cursor; relative offsets saturate at zero.
func (p Position) Eval(cursor uint32) uint32 {
	var index uint32
	switch p.Kind {
	case PositionRelative:
		index = saturatingAdd(cursor, p.Offset)
	default:
		index = p.Index
	}
	return min(index, cursor)
}

// String renders the position for logs.
func (p Position) String() string {
	if p.Kind == PositionRelative {
		return fmt.Sprintf("relative(%+d)", p.Offset)
	}
	return fmt.Sprintf("absolute(%d)", p.Index)
}

func saturatingAdd(u uint32, d int32) uint32 {
	v := int64(u) + int64(d)
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
