package codec

import (
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/svenboertjens/cmsgpack-sub000/bigint"
	"github.com/svenboertjens/cmsgpack-sub000/buffer"
	"github.com/svenboertjens/cmsgpack-sub000/endian"
	"github.com/svenboertjens/cmsgpack-sub000/errs"
	"github.com/svenboertjens/cmsgpack-sub000/wire"
)

// EncodeOptions carries the per-call knobs the encoder core needs that
// aren't already on the EncBuffer (strict_keys and the ext table are).
type EncodeOptions struct {
	// MaxDepth bounds container recursion, guarding against
	// self-referential containers. Zero means "use the package default" (512).
	MaxDepth int
}

const defaultMaxDepth = 512

func (o EncodeOptions) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}

	return defaultMaxDepth
}

// Encode writes v's MessagePack encoding into b, dispatching on v's runtime
// type: nil, string, integer kinds, float, bool, bytes, then a
// reflect-based fallback for arrays/maps/ext.
func Encode(b *buffer.EncBuffer, v any, opts EncodeOptions) error {
	return encodeValue(b, v, opts, 0)
}

func encodeValue(b *buffer.EncBuffer, v any, opts EncodeOptions, depth int) error {
	if depth > opts.maxDepth() {
		return fmt.Errorf("%w: depth %d", errs.ErrMaxDepthExceeded, depth)
	}

	switch x := v.(type) {
	case nil:
		b.WriteByte(wire.Nil)
		return nil
	case string:
		return encodeString(b, x)
	case int:
		return encodeSignedInt(b, int64(x))
	case int8:
		return encodeSignedInt(b, int64(x))
	case int16:
		return encodeSignedInt(b, int64(x))
	case int32:
		return encodeSignedInt(b, int64(x))
	case int64:
		return encodeSignedInt(b, x)
	case uint:
		return encodeUnsignedInt(b, uint64(x))
	case uint8:
		return encodeUnsignedInt(b, uint64(x))
	case uint16:
		return encodeUnsignedInt(b, uint64(x))
	case uint32:
		return encodeUnsignedInt(b, uint64(x))
	case uint64:
		return encodeUnsignedInt(b, x)
	case *big.Int:
		return encodeBigInt(b, x)
	case float32:
		encodeFloat64(b, float64(x))
		return nil
	case float64:
		encodeFloat64(b, x)
		return nil
	case bool:
		encodeBool(b, x)
		return nil
	case []byte:
		return encodeBin(b, x)
	case Ext:
		return encodeExt(b, x.ID, x.Data)
	}

	return encodeReflect(b, v, opts, depth)
}

func encodeSignedInt(b *buffer.EncBuffer, v int64) error {
	switch {
	case v >= 0 && v <= wire.PositiveFixintMax:
		b.WriteByte(byte(v))
	case v >= wire.NegativeFixintMin && v <= wire.NegativeFixintMax:
		b.WriteByte(wire.NegativeFixintBase | byte(v&0x1F))
	case v >= 0:
		return encodeUnsignedInt(b, uint64(v))
	case v >= math.MinInt8:
		b.WriteByte(wire.Int8)
		b.WriteByte(byte(int8(v)))
	case v >= math.MinInt16:
		writeHeaderAndInt(b, wire.Int16, uint64(uint16(int16(v))), 2)
	case v >= math.MinInt32:
		writeHeaderAndInt(b, wire.Int32, uint64(uint32(int32(v))), 4)
	default:
		writeHeaderAndInt(b, wire.Int64, uint64(v), 8)
	}

	return nil
}

func encodeUnsignedInt(b *buffer.EncBuffer, v uint64) error {
	switch {
	case v <= wire.PositiveFixintMax:
		b.WriteByte(byte(v))
	case v <= math.MaxUint8:
		b.WriteByte(wire.Uint8)
		b.WriteByte(byte(v))
	case v <= math.MaxUint16:
		writeHeaderAndInt(b, wire.Uint16, v, 2)
	case v <= math.MaxUint32:
		writeHeaderAndInt(b, wire.Uint32, v, 4)
	default:
		writeHeaderAndInt(b, wire.Uint64, v, 8)
	}

	return nil
}

// writeHeaderAndInt writes header followed by the low n bytes of v,
// big-endian: every multi-byte field on the wire is big-endian regardless
// of host byte order.
func writeHeaderAndInt(b *buffer.EncBuffer, header byte, v uint64, n int) {
	b.WriteByte(header)
	dst := b.Reserve(n)

	for i := range n {
		shift := uint((n - 1 - i) * 8)
		dst[i] = byte(v >> shift)
	}
}

func encodeBigInt(b *buffer.EncBuffer, v *big.Int) error {
	if v.Sign() < 0 {
		n, err := bigint.ExtractInt64(v)
		if err != nil {
			return err
		}

		return encodeSignedInt(b, n)
	}

	n, err := bigint.ExtractUint64(v)
	if err != nil {
		return err
	}

	return encodeUnsignedInt(b, n)
}

func encodeFloat64(b *buffer.EncBuffer, v float64) {
	b.WriteByte(wire.Float64)
	dst := b.Reserve(8)
	endian.Wire().PutUint64(dst, math.Float64bits(v))
}

func encodeBool(b *buffer.EncBuffer, v bool) {
	if v {
		b.WriteByte(wire.True)
	} else {
		b.WriteByte(wire.False)
	}
}

func encodeString(b *buffer.EncBuffer, s string) error {
	data := []byte(s)
	n := uint64(len(data))

	if err := buffer.CheckSize("string", n); err != nil {
		return err
	}

	switch {
	case n <= uint64(wire.FixstrMax):
		b.WriteByte(wire.FixstrBase | byte(n))
	case n <= wire.Str8Max:
		b.WriteByte(wire.Str8)
		b.WriteByte(byte(n))
	case n <= wire.Str16Max:
		writeHeaderAndInt(b, wire.Str16, n, 2)
	default:
		writeHeaderAndInt(b, wire.Str32, n, 4)
	}

	b.Write(data)

	return nil
}

func encodeBin(b *buffer.EncBuffer, data []byte) error {
	n := uint64(len(data))
	if err := buffer.CheckSize("bin", n); err != nil {
		return err
	}

	switch {
	case n <= wire.Bin8Max:
		b.WriteByte(wire.Bin8)
		b.WriteByte(byte(n))
	case n <= wire.Bin16Max:
		writeHeaderAndInt(b, wire.Bin16, n, 2)
	default:
		writeHeaderAndInt(b, wire.Bin32, n, 4)
	}

	b.Write(data)

	return nil
}

func encodeArrayHeader(b *buffer.EncBuffer, n uint64) error {
	if err := buffer.CheckSize("array", n); err != nil {
		return err
	}

	switch {
	case n <= uint64(wire.FixarrayMax):
		b.WriteByte(wire.FixarrayBase | byte(n))
	case n <= wire.Array16Max:
		writeHeaderAndInt(b, wire.Array16, n, 2)
	default:
		writeHeaderAndInt(b, wire.Array32, n, 4)
	}

	return nil
}

func encodeMapHeader(b *buffer.EncBuffer, n uint64) error {
	if err := buffer.CheckSize("map", n); err != nil {
		return err
	}

	switch {
	case n <= uint64(wire.FixmapMax):
		b.WriteByte(wire.FixmapBase | byte(n))
	case n <= wire.Map16Max:
		writeHeaderAndInt(b, wire.Map16, n, 2)
	default:
		writeHeaderAndInt(b, wire.Map32, n, 4)
	}

	return nil
}

func encodeExt(b *buffer.EncBuffer, id int8, data []byte) error {
	if len(data) == 0 {
		return errs.ErrEmptyExtPayload
	}

	n := uint64(len(data))
	if header, ok := wire.ExtHeaderFor(len(data)); ok {
		b.WriteByte(header)
		b.WriteByte(byte(id))
		b.Write(data)
		return nil
	}

	if err := buffer.CheckSize("ext", n); err != nil {
		return err
	}

	switch {
	case n <= wire.Bin8Max:
		b.WriteByte(wire.Ext8)
		b.WriteByte(byte(n))
	case n <= wire.Bin16Max:
		writeHeaderAndInt(b, wire.Ext16, n, 2)
	default:
		writeHeaderAndInt(b, wire.Ext32, n, 4)
	}

	b.WriteByte(byte(id))
	b.Write(data)

	return nil
}

// encodeReflect handles arrays/slices, maps, and the ext-table fallback for
// any other type.
func encodeReflect(b *buffer.EncBuffer, v any, opts EncodeOptions, depth int) error {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return encodeBin(b, byteSliceOf(rv))
		}

		return encodeSequence(b, rv, opts, depth)
	case reflect.Map:
		return encodeMap(b, rv, opts, depth)
	}

	return encodeExtFallback(b, v)
}

// byteSliceOf extracts the raw bytes of a []byte or [N]byte value. Arrays
// reached through an any parameter aren't addressable, so reflect.Value.Bytes
// can't be used directly on them; copy element by element instead.
func byteSliceOf(rv reflect.Value) []byte {
	if rv.Kind() == reflect.Slice {
		return rv.Bytes()
	}

	out := make([]byte, rv.Len())
	for i := range out {
		out[i] = byte(rv.Index(i).Uint())
	}

	return out
}

func encodeSequence(b *buffer.EncBuffer, rv reflect.Value, opts EncodeOptions, depth int) error {
	n := rv.Len()
	if err := encodeArrayHeader(b, uint64(n)); err != nil {
		return err
	}

	for i := range n {
		if err := encodeValue(b, rv.Index(i).Interface(), opts, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func encodeMap(b *buffer.EncBuffer, rv reflect.Value, opts EncodeOptions, depth int) error {
	keys := rv.MapKeys()
	if err := encodeMapHeader(b, uint64(len(keys))); err != nil {
		return err
	}

	for _, k := range keys {
		key := k.Interface()

		if b.StrictKeys() {
			if _, ok := key.(string); !ok {
				return fmt.Errorf("%w: %T", errs.ErrKeyType, key)
			}
		}

		if err := encodeValue(b, key, opts, depth+1); err != nil {
			return err
		}

		if err := encodeValue(b, rv.MapIndex(k).Interface(), opts, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func encodeExtFallback(b *buffer.EncBuffer, v any) error {
	fn, ok := b.ExtTable().Lookup(reflect.TypeOf(v))
	if !ok {
		return fmt.Errorf("%w: %T", errs.ErrUnexpectedType, v)
	}

	id, payload, err := fn(v)
	if err != nil {
		return err
	}

	return encodeExt(b, id, payload)
}
