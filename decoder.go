package cmsgpack

import (
	"fmt"

	"github.com/svenboertjens/cmsgpack-sub000/buffer"
	"github.com/svenboertjens/cmsgpack-sub000/codec"
	"github.com/svenboertjens/cmsgpack-sub000/errs"
	"github.com/svenboertjens/cmsgpack-sub000/stream"
)

// Decoder is a stateful decoder. Without WithDecodeFileName, each Decode
// call parses one value from the bytes passed to it; with
// WithDecodeFileName, Decode instead reads the next value from the
// decoder's file. Not safe for concurrent use.
type Decoder struct {
	cfg    decodeConfig
	stream *stream.Decoder
}

// NewDecoder creates a stateful Decoder.
func NewDecoder(opts ...DecodeOption) *Decoder {
	cfg := newDecodeConfig(opts)

	d := &Decoder{cfg: cfg}

	if cfg.fileName != "" {
		d.stream = stream.NewDecoder(cfg.fileName,
			stream.WithDecodeExtTypes(cfg.ext),
			stream.WithDecodeStrictKeys(cfg.strictKeys),
			stream.WithDecodeMaxDepth(cfg.maxDepth),
		)
	}

	return d
}

// Decode parses the next MessagePack value. In streaming mode (
// WithDecodeFileName) data is ignored and the value is read from the
// decoder's file instead.
func (d *Decoder) Decode(data []byte) (any, error) {
	if d.stream != nil {
		return d.stream.Decode()
	}

	b := buffer.NewDecBuffer(data, d.cfg.ext, d.cfg.strictKeys)

	v, err := codec.Decode(b, codec.DecodeOptions{MaxDepth: d.cfg.maxDepth})
	if err != nil {
		return nil, err
	}

	if !d.cfg.allowTrailing && !b.AtEnd() {
		return nil, fmt.Errorf("%w: %d bytes left over", errs.ErrTrailingData, b.Remaining())
	}

	return v, nil
}

// Close releases the decoder's file handle, in streaming mode. A no-op
// otherwise.
func (d *Decoder) Close() error {
	if d.stream != nil {
		return d.stream.Close()
	}

	return nil
}
