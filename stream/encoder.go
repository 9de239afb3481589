// Package stream implements the file-backed streaming encoder and decoder:
// a concatenation of MessagePack values with no separator, written by
// repeated Encoder.Encode calls and read back by repeated Decoder.Decode
// calls.
//
// The file handle is opened lazily on first use, deferring os.OpenFile
// until a write or read actually needs it rather than eagerly in the
// constructor.
package stream

import (
	"fmt"
	"os"

	"github.com/svenboertjens/cmsgpack-sub000/buffer"
	"github.com/svenboertjens/cmsgpack-sub000/codec"
	"github.com/svenboertjens/cmsgpack-sub000/compress"
	"github.com/svenboertjens/cmsgpack-sub000/endian"
	"github.com/svenboertjens/cmsgpack-sub000/errs"
	"github.com/svenboertjens/cmsgpack-sub000/exttype"
)

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*Encoder)

// WithEncodeExtTypes installs the ext-type encode table used to serialize
// values the core type switch doesn't otherwise recognize.
func WithEncodeExtTypes(table *exttype.EncodeTable) EncoderOption {
	return func(e *Encoder) { e.ext = table }
}

// WithStrictKeys rejects non-string map keys instead of encoding them like
// any other value.
func WithStrictKeys(strict bool) EncoderOption {
	return func(e *Encoder) { e.strictKeys = strict }
}

// WithEncodeMaxDepth overrides the default container recursion limit.
func WithEncodeMaxDepth(depth int) EncoderOption {
	return func(e *Encoder) { e.maxDepth = depth }
}

// WithCompression compresses every value's committed bytes with c before
// they reach the file, each prefixed with a 4-byte big-endian length so the
// matching Decoder can tell where one compressed block ends and the next
// begins — a compressed block isn't self-delimiting the way a MessagePack
// header is, so the plain concatenation the uncompressed file format uses
// needs this one extra framing byte count per value. Off by default; the
// wire format itself never changes, only what lands on disk.
func WithCompression(c compress.Codec) EncoderOption {
	return func(e *Encoder) { e.compressor = c }
}

// Encoder owns a file path and a lazily opened file handle, writing one
// MessagePack value per Encode call in append mode. Not safe for
// concurrent use.
type Encoder struct {
	fileName   string
	file       *os.File
	buf        *buffer.EncBuffer
	stats      *buffer.Stats
	ext        *exttype.EncodeTable
	strictKeys bool
	maxDepth   int
	compressor compress.Codec
}

// NewEncoder creates a streaming encoder that appends to fileName, creating
// it if it doesn't exist. The file is not opened until the first Encode
// call.
func NewEncoder(fileName string, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		fileName: fileName,
		stats:    buffer.NewStats(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.NewEncBuffer(e.stats, e.ext, e.strictKeys)

	return e
}

// ensureOpen opens the file in append mode on first use.
func (e *Encoder) ensureOpen() error {
	if e.file != nil {
		return nil
	}

	f, err := os.OpenFile(e.fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrFileOpen, e.fileName, err)
	}

	e.file = f

	return nil
}

// Encode appends v's MessagePack encoding to the file: open-if-absent,
// encode to the in-memory buffer, write the committed region in one call,
// truncate back on a short write (reopening the handle if truncation
// itself fails), and return no value on success.
func (e *Encoder) Encode(v any) error {
	if err := e.ensureOpen(); err != nil {
		return err
	}

	e.buf.Prepare(topLevelCount(v))

	if err := codec.Encode(e.buf, v, codec.EncodeOptions{MaxDepth: e.maxDepth}); err != nil {
		return err
	}

	out := e.buf.Finish()

	if e.compressor != nil {
		compressed, err := e.compressor.Compress(out)
		if err != nil {
			return fmt.Errorf("stream: compressing encoded value: %w", err)
		}

		framed := make([]byte, 4+len(compressed))
		endian.Wire().PutUint32(framed, uint32(len(compressed)))
		copy(framed[4:], compressed)
		out = framed
	}

	info, err := e.file.Stat()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrFileWrite, e.fileName, err)
	}

	preWriteSize := info.Size()

	n, err := e.file.Write(out)
	if err == nil && n == len(out) {
		return nil
	}

	if err == nil {
		err = fmt.Errorf("short write: wrote %d of %d bytes", n, len(out))
	}

	if truncErr := e.file.Truncate(preWriteSize); truncErr != nil {
		e.file.Close()
		e.file = nil

		return fmt.Errorf("%w: %w (and %w: %w)", errs.ErrFileWrite, err, errs.ErrFileTruncate, truncErr)
	}

	return fmt.Errorf("%w: %s: %w", errs.ErrFileWrite, e.fileName, err)
}

// Close releases the file handle, if one was opened.
func (e *Encoder) Close() error {
	if e.file == nil {
		return nil
	}

	f := e.file
	e.file = nil

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrFileWrite, e.fileName, err)
	}

	return nil
}
