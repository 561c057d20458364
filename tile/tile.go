// Package tile implements the packed tile identifier used by every layer
// cell: a single integer carrying the tile's local position inside its
// tileset, a reference to the tileset itself, and the two flip flags.
//
// The bit layout is part of the saved-level format and must not change
// within a format version:
//
//	bits  0-9   local tile column (localX)
//	bits 10-19  local tile row (localY)
//	bits 20-51  tileset reference (session index or name hash)
//	bit  52     reference scheme (0 = index, 1 = hash)
//	bit  53     occupancy marker, always set by Pack
//	bit  62     vertical flip
//	bit  63     horizontal flip
//
// The zero value is reserved as the empty-cell sentinel and is never
// produced by Pack.
package tile

import (
	"errors"
	"fmt"
)

// ID is a packed tile identifier. The zero value means "empty cell".
type ID uint64

// Empty is the reserved empty-cell sentinel.
const Empty ID = 0

const (
	localBits = 10
	refBits   = 32

	localMask = (1 << localBits) - 1
	refMask   = (1 << refBits) - 1

	shiftLocalY = localBits
	shiftRef    = 2 * localBits
	shiftScheme = shiftRef + refBits

	bitScheme = ID(1) << shiftScheme
	bitMarker = ID(1) << (shiftScheme + 1)
	bitFlipV  = ID(1) << 62
	bitFlipH  = ID(1) << 63
)

// MaxLocal is the largest local tile column/row a packed id can hold.
const MaxLocal = localMask

var (
	// ErrFieldRange is returned by Pack when a field value does not fit in
	// its reserved bits. Packing must fail loudly rather than let a value
	// wrap into a neighboring field.
	ErrFieldRange = errors.New("tile: field value exceeds bit width")

	// ErrEmpty is returned by Unpack for the empty sentinel; callers are
	// expected to check IsEmpty before unpacking.
	ErrEmpty = errors.New("tile: cannot unpack empty sentinel")
)

// RefScheme selects how the tileset reference bits are interpreted.
type RefScheme uint8

const (
	// RefIndex references the tileset by its position in the session's
	// load order. Compact, but only stable within one session.
	RefIndex RefScheme = iota
	// RefHash references the tileset by the FNV-1a hash of its name.
	// Stable across sessions and tileset reordering.
	RefHash
)

// Ref is a tagged tileset reference. The two schemes coexist in saved
// data; a Ref decodes deterministically and is never coerced from one
// scheme to the other.
type Ref struct {
	Scheme RefScheme
	Value  uint32
}

// IndexRef builds a session-index reference.
func IndexRef(index int) Ref {
	return Ref{Scheme: RefIndex, Value: uint32(index)}
}

// HashRef builds a name-hash reference.
func HashRef(name string) Ref {
	return Ref{Scheme: RefHash, Value: HashName(name)}
}

func (r Ref) String() string {
	if r.Scheme == RefHash {
		return fmt.Sprintf("hash:%08x", r.Value)
	}
	return fmt.Sprintf("index:%d", r.Value)
}

// Cell is the unpacked form of a non-empty ID.
type Cell struct {
	LocalX int
	LocalY int
	Ref    Ref
	FlipX  bool
	FlipY  bool
}

// Pack encodes the given fields into a single ID. It never returns Empty:
// the occupancy marker bit is always set. Values outside their field width
// are rejected with ErrFieldRange.
func Pack(localX, localY int, ref Ref, flipX, flipY bool) (ID, error) {
	if localX < 0 || localX > localMask {
		return Empty, fmt.Errorf("%w: localX=%d", ErrFieldRange, localX)
	}
	if localY < 0 || localY > localMask {
		return Empty, fmt.Errorf("%w: localY=%d", ErrFieldRange, localY)
	}

	id := ID(localX) | ID(localY)<<shiftLocalY | ID(ref.Value)<<shiftRef | bitMarker
	if ref.Scheme == RefHash {
		id |= bitScheme
	}
	if flipX {
		id |= bitFlipH
	}
	if flipY {
		id |= bitFlipV
	}
	return id, nil
}

// MustPack is Pack for callers with statically in-range fields.
func MustPack(localX, localY int, ref Ref, flipX, flipY bool) ID {
	id, err := Pack(localX, localY, ref, flipX, flipY)
	if err != nil {
		panic(err)
	}
	return id
}

// Unpack decodes a non-empty ID back into its fields.
func Unpack(id ID) (Cell, error) {
	if id == Empty {
		return Cell{}, ErrEmpty
	}
	c := Cell{
		LocalX: int(id & localMask),
		LocalY: int((id >> shiftLocalY) & localMask),
		Ref:    Ref{Scheme: RefIndex, Value: uint32((id >> shiftRef) & refMask)},
		FlipX:  id&bitFlipH != 0,
		FlipY:  id&bitFlipV != 0,
	}
	if id&bitScheme != 0 {
		c.Ref.Scheme = RefHash
	}
	return c, nil
}

// IsEmpty reports whether the id is the empty-cell sentinel.
func (id ID) IsEmpty() bool { return id == Empty }

// Local returns the local tile column and row without a full Unpack.
func (id ID) Local() (x, y int) {
	return int(id & localMask), int((id >> shiftLocalY) & localMask)
}

// Ref returns the tileset reference without a full Unpack.
func (id ID) Ref() Ref {
	r := Ref{Scheme: RefIndex, Value: uint32((id >> shiftRef) & refMask)}
	if id&bitScheme != 0 {
		r.Scheme = RefHash
	}
	return r
}

// Flipped returns the two flip flags.
func (id ID) Flipped() (flipX, flipY bool) {
	return id&bitFlipH != 0, id&bitFlipV != 0
}

// WithFlips returns a copy of the id with the flip bits replaced.
func (id ID) WithFlips(flipX, flipY bool) ID {
	id &^= bitFlipH | bitFlipV
	if flipX {
		id |= bitFlipH
	}
	if flipY {
		id |= bitFlipV
	}
	return id
}

func (id ID) String() string {
	if id.IsEmpty() {
		return "empty"
	}
	x, y := id.Local()
	fx, fy := id.Flipped()
	return fmt.Sprintf("tile(%d,%d %s flipx=%v flipy=%v)", x, y, id.Ref(), fx, fy)
}

// HashName returns the 32-bit FNV-1a hash of a tileset name, the stable
// half of the dual reference scheme.
func HashName(name string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		hash ^= uint32(name[i])
		hash *= 16777619
	}
	return hash
}
