// Package buffer implements the adaptive, growable byte buffers that sit
// between the encoder/decoder core and the caller: EncBuffer for output and
// DecBuffer for input, the latter supporting an overread/refresh contract
// for streaming callers.
//
// The growth strategy is deliberately hand-rolled rather than relying on
// Go's built-in append growth: an exact 1.5x factor and an initial size
// predicted from the adaptive Stats give tighter control over allocation
// behavior than append alone.
package buffer

import (
	"fmt"

	"github.com/svenboertjens/cmsgpack-sub000/errs"
	"github.com/svenboertjens/cmsgpack-sub000/exttype"
)

// EncBuffer accumulates MessagePack output bytes for a single top-level
// encode. Not safe for concurrent use; the Stats it reports to may be
// shared across many EncBuffers.
type EncBuffer struct {
	buf        []byte
	nitems     int // top-level element count, 0 if not applicable
	strictKeys bool
	ext        *exttype.EncodeTable
	stats      *Stats
}

// NewEncBuffer creates an EncBuffer that will report its outcome to stats
// and resolve ext values through ext (which may be nil).
func NewEncBuffer(stats *Stats, ext *exttype.EncodeTable, strictKeys bool) *EncBuffer {
	return &EncBuffer{stats: stats, ext: ext, strictKeys: strictKeys}
}

// StrictKeys reports whether only string map keys are permitted.
func (b *EncBuffer) StrictKeys() bool { return b.strictKeys }

// ExtTable returns the ext-encode table this buffer resolves ext values
// through. May be nil.
func (b *EncBuffer) ExtTable() *exttype.EncodeTable { return b.ext }

// Prepare allocates the buffer's initial capacity from the adaptive
// prediction, given the top-level value's element count (0 if the
// top-level value isn't a list or map). Must be called once at the start of
// every top-level encode, before any Write; it discards earlier contents.
func (b *EncBuffer) Prepare(nitems int) {
	b.nitems = nitems

	size := DefaultBufferSize
	if b.stats != nil {
		if predicted := b.stats.Predict(nitems); predicted > 0 {
			size = predicted
		}
	}

	b.buf = make([]byte, 0, size)
}

// ensure grows the buffer so that extra more bytes can be written without
// another reallocation, using the documented 1.5x growth factor applied to
// the post-write size.
func (b *EncBuffer) ensure(extra int) {
	if len(b.buf)+extra <= cap(b.buf) {
		return
	}

	newCap := int(float64(len(b.buf)+extra) * 1.5)
	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown
}

// WriteByte appends a single byte, growing the buffer if needed.
func (b *EncBuffer) WriteByte(c byte) {
	b.ensure(1)
	b.buf = append(b.buf, c)
}

// Write appends p, growing the buffer if needed.
func (b *EncBuffer) Write(p []byte) {
	b.ensure(len(p))
	b.buf = append(b.buf, p...)
}

// Reserve grows the buffer to fit n more bytes and returns the slice to
// write them into directly, advancing the committed length by n. Used by
// the encoder core for fixed-size fields, which it writes directly into the
// backing array (byte shifts or encoding/binary's Put helpers), avoiding an
// intermediate copy.
func (b *EncBuffer) Reserve(n int) []byte {
	b.ensure(n)
	start := len(b.buf)
	b.buf = b.buf[:start+n]

	return b.buf[start : start+n]
}

// Len returns the number of committed bytes so far.
func (b *EncBuffer) Len() int { return len(b.buf) }

// CheckSize rejects any family whose size field would exceed the wire
// format's 2^32-1 ceiling.
func CheckSize(name string, size uint64) error {
	if size > 0xFFFFFFFF {
		return fmt.Errorf("%w: %s length %d", errs.ErrSizeLimit, name, size)
	}

	return nil
}

// Finish reports the encode's outcome to Stats and returns the committed
// bytes. The returned slice aliases the buffer's backing array; callers
// that need to retain it across another encode on the same EncBuffer must
// copy it first.
func (b *EncBuffer) Finish() []byte {
	if b.stats != nil {
		b.stats.Update(len(b.buf), b.nitems)
	}

	return b.buf
}
