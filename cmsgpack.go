// Package cmsgpack provides a high-performance MessagePack encoder/decoder
// with an adaptive output buffer, an interned-value decode cache, a
// user-extensible ext-type dispatch mechanism, and a file-backed streaming
// mode.
//
// # Basic Usage
//
// One-shot encode and decode:
//
//	data, err := cmsgpack.Encode(map[string]any{"a": 1, "b": []any{1, 2, 3}})
//	if err != nil {
//	    // handle error
//	}
//
//	v, err := cmsgpack.Decode(data)
//	if err != nil {
//	    // handle error
//	}
//
// Custom ext types round-trip a Go type through a registered (id, bytes)
// pair:
//
//	enc := cmsgpack.ExtTypesEncode(map[reflect.Type]exttype.EncodeFunc{
//	    reflect.TypeOf(time.Time{}): encodeTime,
//	})
//	dec := cmsgpack.ExtTypesDecode(map[int8]exttype.DecodeFunc{
//	    1: decodeTime,
//	})
//	data, err := cmsgpack.Encode(time.Now(), cmsgpack.WithEncodeExtTypes(enc))
//
// Streaming encode/decode appends MessagePack values to a file with no
// separator between them; see the stream package for the underlying
// Encoder/Decoder types this package's Encoder/Decoder wrap.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the buffer,
// codec, exttype, and stream packages, simplifying the most common use
// cases. For advanced usage and fine-grained control, use those packages
// directly.
package cmsgpack

import (
	"fmt"

	"github.com/svenboertjens/cmsgpack-sub000/buffer"
	"github.com/svenboertjens/cmsgpack-sub000/codec"
	"github.com/svenboertjens/cmsgpack-sub000/errs"
)

// defaultStats is the process-wide adaptive-size statistics shared by every
// one-shot Encode call. Encoder instances get their own Stats instead, so
// their sizing adapts independently of the package-level helpers.
var defaultStats = buffer.NewStats()

// Encode serializes v to MessagePack bytes in one call.
func Encode(v any, opts ...EncodeOption) ([]byte, error) {
	cfg := newEncodeConfig(opts)

	b := buffer.NewEncBuffer(defaultStats, cfg.ext, cfg.strictKeys)
	b.Prepare(topLevelCount(v))

	if err := codec.Encode(b, v, codec.EncodeOptions{MaxDepth: cfg.maxDepth}); err != nil {
		return nil, err
	}

	out := b.Finish()
	// Finish's slice aliases the buffer's backing array; the one-shot
	// caller needs a copy it can retain independently of this buffer,
	// which is discarded on return.
	owned := make([]byte, len(out))
	copy(owned, out)

	return owned, nil
}

// Decode parses one MessagePack value from data. With
// WithAllowTrailing(false), any bytes left over after the value are
// reported as an error.
func Decode(data []byte, opts ...DecodeOption) (any, error) {
	cfg := newDecodeConfig(opts)

	b := buffer.NewDecBuffer(data, cfg.ext, cfg.strictKeys)

	v, err := codec.Decode(b, codec.DecodeOptions{MaxDepth: cfg.maxDepth})
	if err != nil {
		return nil, err
	}

	if !cfg.allowTrailing && !b.AtEnd() {
		return nil, fmt.Errorf("%w: %d bytes left over", errs.ErrTrailingData, b.Remaining())
	}

	return v, nil
}
