package codec

import (
	"fmt"
	"math"

	"github.com/svenboertjens/cmsgpack-sub000/buffer"
	"github.com/svenboertjens/cmsgpack-sub000/cache"
	"github.com/svenboertjens/cmsgpack-sub000/endian"
	"github.com/svenboertjens/cmsgpack-sub000/errs"
	"github.com/svenboertjens/cmsgpack-sub000/exttype"
	"github.com/svenboertjens/cmsgpack-sub000/wire"
)

// DecodeOptions mirrors EncodeOptions for the decode side.
type DecodeOptions struct {
	MaxDepth int
}

func (o DecodeOptions) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}

	return defaultMaxDepth
}

// Decode reads one MessagePack value from b and advances its cursor past
// it, dispatching on the header byte.
func Decode(b *buffer.DecBuffer, opts DecodeOptions) (any, error) {
	return decodeValue(b, opts, 0)
}

func decodeValue(b *buffer.DecBuffer, opts DecodeOptions, depth int) (any, error) {
	if depth > opts.maxDepth() {
		return nil, fmt.Errorf("%w: depth %d", errs.ErrMaxDepthExceeded, depth)
	}

	header, err := b.ReadByte()
	if err != nil {
		return nil, err
	}

	if wire.IsFixedFamily(header) {
		return decodeFixedFamily(b, header, opts, depth)
	}

	switch header {
	case wire.Nil:
		return nil, nil
	case wire.False:
		return false, nil
	case wire.True:
		return true, nil
	case wire.Float32:
		return decodeFloat32(b)
	case wire.Float64:
		return decodeFloat64(b)
	case wire.Uint8:
		return decodeUint(b, 1)
	case wire.Uint16:
		return decodeUint(b, 2)
	case wire.Uint32:
		return decodeUint(b, 4)
	case wire.Uint64:
		return decodeUint(b, 8)
	case wire.Int8:
		return decodeInt(b, 1)
	case wire.Int16:
		return decodeInt(b, 2)
	case wire.Int32:
		return decodeInt(b, 4)
	case wire.Int64:
		return decodeInt(b, 8)
	case wire.Bin8:
		return decodeBin(b, 1)
	case wire.Bin16:
		return decodeBin(b, 2)
	case wire.Bin32:
		return decodeBin(b, 4)
	case wire.Str8:
		return decodeStr(b, 1)
	case wire.Str16:
		return decodeStr(b, 2)
	case wire.Str32:
		return decodeStr(b, 4)
	case wire.Array16:
		return decodeArray(b, 2, opts, depth)
	case wire.Array32:
		return decodeArray(b, 4, opts, depth)
	case wire.Map16:
		return decodeMap(b, 2, opts, depth)
	case wire.Map32:
		return decodeMap(b, 4, opts, depth)
	case wire.FixExt1, wire.FixExt2, wire.FixExt4, wire.FixExt8, wire.FixExt16:
		return decodeFixExt(b, header)
	case wire.Ext8:
		return decodeExt(b, 1)
	case wire.Ext16:
		return decodeExt(b, 2)
	case wire.Ext32:
		return decodeExt(b, 4)
	}

	return nil, fmt.Errorf("%w: 0x%02X", errs.ErrInvalidHeader, header)
}

// decodeFixedFamily handles the fixint/fixstr/fixarray/fixmap dense mask
// table: the value or length lives in the header byte's low bits, no
// further size bytes are read.
func decodeFixedFamily(b *buffer.DecBuffer, header byte, opts DecodeOptions, depth int) (any, error) {
	switch {
	case header <= wire.PositiveFixintMax:
		return boxUint(uint64(header)), nil
	case header&0xE0 == wire.NegativeFixintBase:
		return int64(int8(header)), nil
	case wire.IsFixstr(header):
		return decodeStrPayload(b, int(header&wire.FixstrMask))
	case header&0xF0 == wire.FixarrayBase:
		return decodeArrayPayload(b, int(header&wire.FixarrayMask), opts, depth)
	case header&0xF0 == wire.FixmapBase:
		return decodeMapPayload(b, int(header&wire.FixmapMask), opts, depth)
	}

	return nil, fmt.Errorf("%w: 0x%02X", errs.ErrInvalidHeader, header)
}

// boxUint materializes a decoded non-negative integer, using the small-int
// cache where it applies. A value beyond math.MaxInt64 can't be represented
// as a signed 64-bit integer without changing its meaning, so it's handed
// back as uint64 instead, preserving values beyond the signed 64-bit range.
func boxUint(v uint64) any {
	if cached, ok := cache.SmallInt(v); ok {
		return cached
	}

	if v > math.MaxInt64 {
		return v
	}

	return int64(v)
}

func readSize(b *buffer.DecBuffer, n int) (uint64, error) {
	data, err := b.ReadN(n)
	if err != nil {
		return 0, err
	}

	switch n {
	case 1:
		return uint64(data[0]), nil
	case 2:
		return uint64(endian.Wire().Uint16(data)), nil
	case 4:
		return uint64(endian.Wire().Uint32(data)), nil
	default:
		return endian.Wire().Uint64(data), nil
	}
}

func decodeUint(b *buffer.DecBuffer, n int) (any, error) {
	v, err := readSize(b, n)
	if err != nil {
		return nil, err
	}

	return boxUint(v), nil
}

func decodeInt(b *buffer.DecBuffer, n int) (any, error) {
	v, err := readSize(b, n)
	if err != nil {
		return nil, err
	}

	switch n {
	case 1:
		return int64(int8(v)), nil
	case 2:
		return int64(int16(v)), nil
	case 4:
		return int64(int32(v)), nil
	default:
		return int64(v), nil
	}
}

func decodeFloat32(b *buffer.DecBuffer) (any, error) {
	data, err := b.ReadN(4)
	if err != nil {
		return nil, err
	}

	return float64(math.Float32frombits(endian.Wire().Uint32(data))), nil
}

func decodeFloat64(b *buffer.DecBuffer) (any, error) {
	data, err := b.ReadN(8)
	if err != nil {
		return nil, err
	}

	return math.Float64frombits(endian.Wire().Uint64(data)), nil
}

func decodeStr(b *buffer.DecBuffer, sizeLen int) (any, error) {
	n, err := readSize(b, sizeLen)
	if err != nil {
		return nil, err
	}

	return decodeStrPayload(b, int(n))
}

// decodeStrPayload tries the short-string cache before allocating a fresh
// string.
func decodeStrPayload(b *buffer.DecBuffer, n int) (any, error) {
	data, err := b.ReadN(n)
	if err != nil {
		return nil, err
	}

	if n <= wire.FixstrMax {
		if s, ok := cache.Lookup(data); ok {
			return s, nil
		}
	}

	s := string(data)

	if n <= wire.FixstrMax && cache.IsASCII(data) {
		cache.Store(s)
	}

	return s, nil
}

func decodeBin(b *buffer.DecBuffer, sizeLen int) (any, error) {
	n, err := readSize(b, sizeLen)
	if err != nil {
		return nil, err
	}

	data, err := b.ReadN(int(n))
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

func decodeArray(b *buffer.DecBuffer, sizeLen int, opts DecodeOptions, depth int) (any, error) {
	n, err := readSize(b, sizeLen)
	if err != nil {
		return nil, err
	}

	return decodeArrayPayload(b, int(n), opts, depth)
}

func decodeArrayPayload(b *buffer.DecBuffer, n int, opts DecodeOptions, depth int) (any, error) {
	out := make([]any, n)

	for i := range n {
		v, err := decodeValue(b, opts, depth+1)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func decodeMap(b *buffer.DecBuffer, sizeLen int, opts DecodeOptions, depth int) (any, error) {
	n, err := readSize(b, sizeLen)
	if err != nil {
		return nil, err
	}

	return decodeMapPayload(b, int(n), opts, depth)
}

// decodeMapPayload applies a map-key fast path: when the next byte is a
// fixstr header, go straight to the string payload instead of
// round-tripping through the general dispatch.
func decodeMapPayload(b *buffer.DecBuffer, n int, opts DecodeOptions, depth int) (map[any]any, error) {
	out := make(map[any]any, n)

	for range n {
		key, err := decodeMapKey(b, opts, depth)
		if err != nil {
			return nil, err
		}

		if b.StrictKeys() {
			if _, ok := key.(string); !ok {
				return nil, fmt.Errorf("%w: %T", errs.ErrKey, key)
			}
		}

		val, err := decodeValue(b, opts, depth+1)
		if err != nil {
			return nil, err
		}

		out[key] = val
	}

	return out, nil
}

func decodeMapKey(b *buffer.DecBuffer, opts DecodeOptions, depth int) (any, error) {
	header, err := b.PeekByte()
	if err != nil {
		return nil, err
	}

	if wire.IsFixstr(header) {
		if _, err := b.ReadByte(); err != nil {
			return nil, err
		}

		return decodeStrPayload(b, int(header&wire.FixstrMask))
	}

	return decodeValue(b, opts, depth+1)
}

func decodeFixExt(b *buffer.DecBuffer, header byte) (any, error) {
	n := wire.FixExtLen(header)
	return decodeExtPayload(b, n)
}

func decodeExt(b *buffer.DecBuffer, sizeLen int) (any, error) {
	n, err := readSize(b, sizeLen)
	if err != nil {
		return nil, err
	}

	return decodeExtPayload(b, int(n))
}

// decodeExtPayload reads the id byte and payload, then dispatches to the
// matched DecodeFunc.
func decodeExtPayload(b *buffer.DecBuffer, n int) (any, error) {
	if n == 0 {
		return nil, errs.ErrEmptyExtPayload
	}

	idByte, err := b.ReadByte()
	if err != nil {
		return nil, err
	}

	id := int8(idByte)

	payload, err := b.ReadN(n)
	if err != nil {
		return nil, err
	}

	table := b.ExtTable()

	fn, ok := table.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownExtID, id)
	}

	if table.ArgKind() == exttype.ArgBytes {
		owned := make([]byte, len(payload))
		copy(owned, payload)
		payload = owned
	}

	return fn(payload)
}
