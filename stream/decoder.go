package stream

import (
	"fmt"
	"io"
	"os"

	"github.com/svenboertjens/cmsgpack-sub000/buffer"
	"github.com/svenboertjens/cmsgpack-sub000/codec"
	"github.com/svenboertjens/cmsgpack-sub000/compress"
	"github.com/svenboertjens/cmsgpack-sub000/endian"
	"github.com/svenboertjens/cmsgpack-sub000/errs"
	"github.com/svenboertjens/cmsgpack-sub000/exttype"
)

// defaultWindowCapacity is the initial read-ahead window size. Chosen to
// hold several small values without a refill on the common path while
// staying far below the smallest reasonable page cache read-ahead.
const defaultWindowCapacity = 64 * 1024

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*Decoder)

// WithDecodeExtTypes installs the ext-type decode table used to resolve
// ext ids encountered in the stream.
func WithDecodeExtTypes(table *exttype.DecodeTable) DecoderOption {
	return func(d *Decoder) { d.ext = table }
}

// WithDecodeStrictKeys rejects non-string map keys while decoding.
func WithDecodeStrictKeys(strict bool) DecoderOption {
	return func(d *Decoder) { d.strictKeys = strict }
}

// WithDecodeMaxDepth overrides the default container recursion limit.
func WithDecodeMaxDepth(depth int) DecoderOption {
	return func(d *Decoder) { d.maxDepth = depth }
}

// WithWindowCapacity overrides the initial read-ahead window size. Only
// meaningful without WithDecompression, which reads exactly one
// length-framed block per Decode instead of window-filling ahead.
func WithWindowCapacity(n int) DecoderOption {
	return func(d *Decoder) { d.capacity = n }
}

// WithDecompression reads each value as a 4-byte length-prefixed block and
// decompresses it with c before handing the plain MessagePack bytes to the
// decoder core. Must match the Encoder's WithCompression codec exactly.
func WithDecompression(c compress.Codec) DecoderOption {
	return func(d *Decoder) { d.compressor = c }
}

// Decoder owns a file, a window buffer, and a window capacity, reading one
// MessagePack value per Decode call. Not safe for concurrent use.
type Decoder struct {
	fileName   string
	file       *os.File
	buf        *buffer.DecBuffer
	window     []byte
	capacity   int
	ext        *exttype.DecodeTable
	strictKeys bool
	maxDepth   int
	compressor compress.Codec
}

// NewDecoder creates a streaming decoder reading fileName from the start.
// The file is not opened until the first Decode call.
func NewDecoder(fileName string, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		fileName: fileName,
		capacity: defaultWindowCapacity,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.window = make([]byte, d.capacity)
	d.buf = buffer.NewDecBuffer(nil, d.ext, d.strictKeys)
	d.buf.SetRefiller(d)

	return d
}

func (d *Decoder) ensureOpen() error {
	if d.file != nil {
		return nil
	}

	f, err := os.Open(d.fileName)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrFileOpen, d.fileName, err)
	}

	d.file = f

	return nil
}

// readFull reads exactly len(buf) bytes, distinguishing a clean EOF on the
// very first byte (errs.ErrEOF, meaning "no more values") from a truncated
// read partway through a block (errs.ErrTruncated, meaning "the file was
// cut short mid-value").
func (d *Decoder) readFull(buf []byte) error {
	n, err := io.ReadFull(d.file, buf)
	if err == nil {
		return nil
	}

	if err == io.EOF && n == 0 {
		return errs.ErrEOF
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: wanted %d bytes, got %d", errs.ErrTruncated, len(buf), n)
	}

	return fmt.Errorf("%w: %s: %w", errs.ErrFileRead, d.fileName, err)
}

// decodeFramed reads one length-prefixed, compressed block and decodes it
// as a self-contained one-shot value: a compressed block isn't a
// MessagePack header the core can resume mid-stream, so there is nothing
// to refill here — the whole decompressed payload is handed to the decoder
// core at once (see WithCompression's doc comment on why framing exists).
func (d *Decoder) decodeFramed() (any, error) {
	var lenBuf [4]byte
	if err := d.readFull(lenBuf[:]); err != nil {
		return nil, err
	}

	n := endian.Wire().Uint32(lenBuf[:])

	compressed := make([]byte, n)
	if err := d.readFull(compressed); err != nil {
		return nil, err
	}

	plain, err := d.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("stream: decompressing block: %w", err)
	}

	one := buffer.NewDecBuffer(plain, d.ext, d.strictKeys)

	return codec.Decode(one, codec.DecodeOptions{MaxDepth: d.maxDepth})
}

// Decode reads the next MessagePack value from the file. Any bytes already
// buffered but unconsumed from a previous call are read first; Refill is
// only invoked — for both the very first read and every later continuation
// — when a read needs more bytes than remain in the window, so a window
// holding several small values is drained one Decode call at a time
// instead of being re-read from the file.
func (d *Decoder) Decode() (any, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}

	if d.compressor != nil {
		return d.decodeFramed()
	}

	return codec.Decode(d.buf, codec.DecodeOptions{MaxDepth: d.maxDepth})
}

// Refill implements buffer.Refiller, invoked by the decoder core when the
// cursor would overrun the current window. Rather than discarding
// unconsumed bytes on refresh, it carries the unconsumed [cursor, end)
// prefix forward before reading more, so a header read that left its
// payload unread can never lose bytes on the next refill.
func (d *Decoder) Refill(b *buffer.DecBuffer, need int) error {
	unread := append([]byte(nil), b.Data()[b.Cursor():b.End()]...)
	carried := len(unread)

	if need > len(d.window) {
		d.window = make([]byte, int(float64(need)*1.2))
	}

	copy(d.window, unread)

	n, err := d.file.Read(d.window[carried:])
	if n == 0 {
		if err != nil && err != io.EOF {
			return fmt.Errorf("%w: %s: %w", errs.ErrFileRead, d.fileName, err)
		}

		// A carried prefix that already satisfies need just needed
		// its capacity grown, not more bytes — only EOF-with-nothing-
		// new is fatal when the prefix alone still falls short.
		if carried < need {
			return errs.ErrEOF
		}
	}

	end := carried + n
	b.Reset(d.window, 0, end)

	if end < need {
		return fmt.Errorf("%w: need %d bytes, window holds %d after refill", errs.ErrTruncated, need, end)
	}

	return nil
}

// Close releases the file handle, if one was opened.
func (d *Decoder) Close() error {
	if d.file == nil {
		return nil
	}

	f := d.file
	d.file = nil

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrFileRead, d.fileName, err)
	}

	return nil
}
