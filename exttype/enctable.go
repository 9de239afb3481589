// Package exttype implements the two ext-type dispatch tables used by this
// codec: an open-addressed, prefix-sum bucket table keyed by the runtime
// type of the value being encoded, and a dense 256-slot array keyed by the
// one-byte ext id for decoding.
//
// The encode table's bucket layout is 256 fixed slots with uint8
// offsets/lengths into a flat pairs array, filled via a single prefix-sum
// pass at construction time. The hash source is a reflect.Type's stable,
// process-wide pointer identity — the same kind of cheap, comparable type
// handle several reflection-heavy libraries in the Go ecosystem rely on.
package exttype

import (
	"reflect"
	"unsafe"

	"github.com/svenboertjens/cmsgpack-sub000/errs"
)

// tableSlots is the fixed number of buckets in the encode table.
const tableSlots = 256

// EncodeFunc produces the (id, payload) pair for an ext value, given the
// Go value that matched its registered type. id must be in [-128, 127] and
// payload must be non-empty; EncodeTable.Lookup does not itself validate
// these, the encoder core does so after calling the matched function.
type EncodeFunc func(v any) (id int8, payload []byte, err error)

type encPair struct {
	typ reflect.Type
	fn  EncodeFunc
}

// EncodeTable is an immutable, perfect-for-its-input bucket table mapping a
// runtime type to its EncodeFunc. Build once with NewEncodeTable; safe for
// concurrent Lookup from any number of encoders.
type EncodeTable struct {
	offsets [tableSlots]uint8
	lengths [tableSlots]uint8
	pairs   []encPair
}

// typeIdentity returns a hash derived from the stable, process-wide
// pointer that backs a reflect.Type value. reflect.Type is implemented by a
// single *rtype per distinct type (the runtime interns them), so two
// reflect.TypeOf calls for the same type always carry the same data word.
func typeIdentity(t reflect.Type) uintptr {
	// reflect.Type is a two-word interface (type descriptor, data
	// pointer); the data pointer is the *rtype. This is the same
	// technique used by several reflection-heavy libraries in the
	// ecosystem to get a hashable, comparable type identity cheaper
	// than string-formatting the type.
	words := (*[2]unsafe.Pointer)(unsafe.Pointer(&t))

	return uintptr(words[1])
}

// encodeHash shifts the address right 8 bits to discard bits commonly
// aligned to pointer-size boundaries, then masks to the slot count.
func encodeHash(t reflect.Type) uint8 {
	return uint8((typeIdentity(t) >> 8) % tableSlots)
}

// NewEncodeTable builds an EncodeTable from a { type -> EncodeFunc }
// mapping. Construction is O(n) in the number of entries: one pass to
// count per-bucket lengths, a prefix sum over the 256 buckets to compute
// offsets, then one pass to place entries into their bucket's slice.
func NewEncodeTable(pairs map[reflect.Type]EncodeFunc) *EncodeTable {
	t := &EncodeTable{pairs: make([]encPair, len(pairs))}
	if len(pairs) == 0 {
		return t
	}

	hashes := make([]uint8, 0, len(pairs))
	types := make([]reflect.Type, 0, len(pairs))
	fns := make([]EncodeFunc, 0, len(pairs))
	for typ, fn := range pairs {
		h := encodeHash(typ)
		hashes = append(hashes, h)
		types = append(types, typ)
		fns = append(fns, fn)
		t.lengths[h]++
	}

	for i := 1; i < tableSlots; i++ {
		t.offsets[i] = t.offsets[i-1] + t.lengths[i-1]
	}

	cursor := t.offsets
	for i, h := range hashes {
		idx := cursor[h]
		cursor[h]++
		t.pairs[idx] = encPair{typ: types[i], fn: fns[i]}
	}

	return t
}

// Lookup returns the EncodeFunc registered for t, trying t's base-kind
// type once as a fallback if there is no exact match — see baseKindType for
// what "base type" means in Go terms.
func (t *EncodeTable) Lookup(typ reflect.Type) (EncodeFunc, bool) {
	if fn, ok := t.lookupExact(typ); ok {
		return fn, true
	}

	if base := baseKindType(typ); base != nil && base != typ {
		return t.lookupExact(base)
	}

	return nil, false
}

func (t *EncodeTable) lookupExact(typ reflect.Type) (EncodeFunc, bool) {
	if t == nil || len(t.pairs) == 0 {
		return nil, false
	}

	h := encodeHash(typ)
	offset := t.offsets[h]
	length := t.lengths[h]

	for i := uint8(0); i < length; i++ {
		pair := t.pairs[offset+i]
		if pair.typ == typ {
			return pair.fn, true
		}
	}

	return nil, false
}

// baseKindType returns the reflect.Type of the zero value of typ's
// underlying kind for the small set of kinds the encoder core already
// knows how to fall back to — the Go analogue of "try the value's parent
// class once" for a named type such as `type Meters float64`. Returns nil
// if typ's kind has no such fallback (structs, pointers, channels, ...).
func baseKindType(typ reflect.Type) reflect.Type {
	switch typ.Kind() {
	case reflect.Bool:
		return reflect.TypeOf(false)
	case reflect.Int:
		return reflect.TypeOf(int(0))
	case reflect.Int8:
		return reflect.TypeOf(int8(0))
	case reflect.Int16:
		return reflect.TypeOf(int16(0))
	case reflect.Int32:
		return reflect.TypeOf(int32(0))
	case reflect.Int64:
		return reflect.TypeOf(int64(0))
	case reflect.Uint:
		return reflect.TypeOf(uint(0))
	case reflect.Uint8:
		return reflect.TypeOf(uint8(0))
	case reflect.Uint16:
		return reflect.TypeOf(uint16(0))
	case reflect.Uint32:
		return reflect.TypeOf(uint32(0))
	case reflect.Uint64:
		return reflect.TypeOf(uint64(0))
	case reflect.Float32:
		return reflect.TypeOf(float32(0))
	case reflect.Float64:
		return reflect.TypeOf(float64(0))
	case reflect.String:
		return reflect.TypeOf("")
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			return reflect.TypeOf([]byte(nil))
		}

		return nil
	default:
		return nil
	}
}

// ValidateExtID reports an error if id is outside the range ext ids may
// take, [-128, 127]. Exported for callers building a DecodeTable from an
// API surface whose input ids aren't already constrained to int8 by the Go
// type system; the root package's ExtTypesDecode takes int8 ids and does
// not call it.
func ValidateExtID(id int) error {
	if id < -128 || id > 127 {
		return errs.ErrExtIDOutOfRange
	}

	return nil
}
