package cmsgpack

import (
	"github.com/svenboertjens/cmsgpack-sub000/buffer"
	"github.com/svenboertjens/cmsgpack-sub000/codec"
	"github.com/svenboertjens/cmsgpack-sub000/stream"
)

// Encoder is a stateful encoder reusing one adaptive-size buffer across
// calls. Without WithFileName it behaves like repeated one-shot Encode
// calls sharing a Stats; with WithFileName, Encode instead appends to the
// named file and always returns nil bytes. Not safe for concurrent use.
type Encoder struct {
	cfg    encodeConfig
	buf    *buffer.EncBuffer
	stats  *buffer.Stats
	stream *stream.Encoder
}

// NewEncoder creates a stateful Encoder. Its own Stats instance tracks
// this encoder's adaptive sizing independently of the package-level
// one-shot Encode calls.
func NewEncoder(opts ...EncodeOption) *Encoder {
	cfg := newEncodeConfig(opts)

	e := &Encoder{cfg: cfg, stats: buffer.NewStats()}

	if cfg.fileName != "" {
		e.stream = stream.NewEncoder(cfg.fileName,
			stream.WithEncodeExtTypes(cfg.ext),
			stream.WithStrictKeys(cfg.strictKeys),
			stream.WithEncodeMaxDepth(cfg.maxDepth),
		)

		return e
	}

	e.buf = buffer.NewEncBuffer(e.stats, cfg.ext, cfg.strictKeys)

	return e
}

// Encode serializes v. In streaming mode (WithFileName) it appends to the
// encoder's file and always returns a nil slice; otherwise it returns v's
// encoded bytes directly.
func (e *Encoder) Encode(v any) ([]byte, error) {
	if e.stream != nil {
		return nil, e.stream.Encode(v)
	}

	e.buf.Prepare(topLevelCount(v))

	if err := codec.Encode(e.buf, v, codec.EncodeOptions{MaxDepth: e.cfg.maxDepth}); err != nil {
		return nil, err
	}

	out := e.buf.Finish()
	owned := make([]byte, len(out))
	copy(owned, out)

	return owned, nil
}

// Close releases the encoder's file handle, in streaming mode. A no-op
// otherwise.
func (e *Encoder) Close() error {
	if e.stream != nil {
		return e.stream.Close()
	}

	return nil
}
