package cmsgpack

import (
	"reflect"

	"github.com/svenboertjens/cmsgpack-sub000/exttype"
)

// defaultMaxDepth mirrors codec's own default; repeated here so the zero
// value of encodeConfig/decodeConfig needs no extra branch to reach it.
const defaultMaxDepth = 512

type encodeConfig struct {
	ext        *exttype.EncodeTable
	strictKeys bool
	maxDepth   int
	fileName   string
}

func newEncodeConfig(opts []EncodeOption) encodeConfig {
	cfg := encodeConfig{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// EncodeOption configures Encode and Encoder.
type EncodeOption func(*encodeConfig)

// WithEncodeExtTypes installs the ext-type encode table Encode/Encoder use
// to serialize values the core type switch doesn't otherwise recognize.
// Build one with ExtTypesEncode.
func WithEncodeExtTypes(table *exttype.EncodeTable) EncodeOption {
	return func(c *encodeConfig) { c.ext = table }
}

// WithStrictKeys rejects non-string map keys during encoding instead of
// widening them to their MessagePack representation unconditionally.
func WithStrictKeys(strict bool) EncodeOption {
	return func(c *encodeConfig) { c.strictKeys = strict }
}

// WithEncodeMaxDepth overrides the default container recursion limit (512).
func WithEncodeMaxDepth(depth int) EncodeOption {
	return func(c *encodeConfig) { c.maxDepth = depth }
}

// WithFileName switches Encoder to streaming mode, appending every encoded
// value to the named file instead of returning its bytes.
func WithFileName(name string) EncodeOption {
	return func(c *encodeConfig) { c.fileName = name }
}

type decodeConfig struct {
	ext           *exttype.DecodeTable
	strictKeys    bool
	maxDepth      int
	allowTrailing bool
	fileName      string
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	cfg := decodeConfig{maxDepth: defaultMaxDepth, allowTrailing: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// DecodeOption configures Decode and Decoder.
type DecodeOption func(*decodeConfig)

// WithDecodeExtTypes installs the ext-type decode table Decode/Decoder use
// to resolve ext ids encountered in the input. Build one with
// ExtTypesDecode.
func WithDecodeExtTypes(table *exttype.DecodeTable) DecodeOption {
	return func(c *decodeConfig) { c.ext = table }
}

// WithDecodeStrictKeys rejects non-string map keys during decoding.
func WithDecodeStrictKeys(strict bool) DecodeOption {
	return func(c *decodeConfig) { c.strictKeys = strict }
}

// WithDecodeMaxDepth overrides the default container recursion limit (512).
func WithDecodeMaxDepth(depth int) DecodeOption {
	return func(c *decodeConfig) { c.maxDepth = depth }
}

// WithAllowTrailing controls whether bytes left over after the decoded
// value are an error. Defaults to true: a decoder call that only needs the
// first value in a buffer shouldn't have to know its exact length up
// front.
func WithAllowTrailing(allow bool) DecodeOption {
	return func(c *decodeConfig) { c.allowTrailing = allow }
}

// WithDecodeFileName switches Decoder to streaming mode, reading
// sequentially from the named file instead of a caller-supplied slice.
func WithDecodeFileName(name string) DecodeOption {
	return func(c *decodeConfig) { c.fileName = name }
}

// topLevelCount returns v's element count if it's a list or map-shaped
// value, 0 otherwise — the nitems hint buffer.EncBuffer.Prepare uses to
// size its initial allocation.
func topLevelCount(v any) int {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return 0
		}

		return rv.Len()
	case reflect.Map:
		return rv.Len()
	default:
		return 0
	}
}
