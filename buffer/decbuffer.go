package buffer

import (
	"fmt"

	"github.com/svenboertjens/cmsgpack-sub000/errs"
	"github.com/svenboertjens/cmsgpack-sub000/exttype"
)

// Refiller refills a DecBuffer's window when the cursor would overrun it.
// Implemented by the stream package; a one-shot DecBuffer has none, so any
// overread is simply a value error.
type Refiller interface {
	// Refill is called with the number of bytes the decoder is about to
	// need that the current window doesn't have. It must leave the
	// buffer's cursor and end positioned over at least need unread bytes,
	// or return an error.
	Refill(b *DecBuffer, need int) error
}

// DecBuffer is the cursor over the bytes the decoder core reads from. In
// one-shot mode it borrows the caller's slice outright; in streaming mode
// the window it points into is owned by a stream.Decoder and refilled via
// Refiller.
type DecBuffer struct {
	data       []byte
	cursor     int
	end        int
	ext        *exttype.DecodeTable
	strictKeys bool
	refiller   Refiller
}

// NewDecBuffer wraps data for one-shot decoding.
func NewDecBuffer(data []byte, ext *exttype.DecodeTable, strictKeys bool) *DecBuffer {
	return &DecBuffer{data: data, end: len(data), ext: ext, strictKeys: strictKeys}
}

// StrictKeys reports whether only string map keys are permitted.
func (b *DecBuffer) StrictKeys() bool { return b.strictKeys }

// ExtTable returns the ext-decode table this buffer resolves ext ids
// through. May be nil.
func (b *DecBuffer) ExtTable() *exttype.DecodeTable { return b.ext }

// SetRefiller installs the callback used when the cursor would run past the
// window's end. Used by stream.Decoder to wire itself in as the source of
// more bytes.
func (b *DecBuffer) SetRefiller(r Refiller) { b.refiller = r }

// Reset repositions the buffer over a (possibly new) backing array, for
// reuse across streaming reads.
func (b *DecBuffer) Reset(data []byte, cursor, end int) {
	b.data = data
	b.cursor = cursor
	b.end = end
}

// Data returns the buffer's current backing array.
func (b *DecBuffer) Data() []byte { return b.data }

// Cursor returns the current read position.
func (b *DecBuffer) Cursor() int { return b.cursor }

// End returns the current end-of-window position.
func (b *DecBuffer) End() int { return b.end }

// Remaining returns the number of unread bytes in the current window.
func (b *DecBuffer) Remaining() int { return b.end - b.cursor }

// AtEnd reports whether the cursor has consumed the entire window.
func (b *DecBuffer) AtEnd() bool { return b.cursor >= b.end }

// overreadCheck is the bounds check every multi-byte read goes through
// first: in one-shot mode it's a straight comparison; in streaming mode a
// miss triggers a refill.
func (b *DecBuffer) overreadCheck(need int) error {
	if b.cursor+need <= b.end {
		return nil
	}

	if b.refiller == nil {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrTruncated, need, b.end-b.cursor)
	}

	return b.refiller.Refill(b, need)
}

// PeekByte returns the next byte without advancing the cursor.
func (b *DecBuffer) PeekByte() (byte, error) {
	if err := b.overreadCheck(1); err != nil {
		return 0, err
	}

	return b.data[b.cursor], nil
}

// ReadByte returns the next byte and advances the cursor.
func (b *DecBuffer) ReadByte() (byte, error) {
	if err := b.overreadCheck(1); err != nil {
		return 0, err
	}

	c := b.data[b.cursor]
	b.cursor++

	return c, nil
}

// ReadN returns the next n bytes and advances the cursor past them. The
// returned slice aliases the buffer's backing array; callers that need to
// retain it past the buffer's next refill must copy it — this is the
// owned-vs-borrowed distinction ext payload decoding exposes to callers.
func (b *DecBuffer) ReadN(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length", errs.ErrInvalidHeader)
	}

	if err := b.overreadCheck(n); err != nil {
		return nil, err
	}

	out := b.data[b.cursor : b.cursor+n]
	b.cursor += n

	return out, nil
}
