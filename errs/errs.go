// Package errs defines the sentinel errors returned by this module's
// packages. Call sites wrap a sentinel with additional context using
// fmt.Errorf("%w: ...", errs.ErrXxx, detail) rather than constructing ad-hoc
// error strings, so that callers can still errors.Is against the category.
package errs

import "errors"

// Type errors: an argument, map key, or ext result had the wrong shape.
var (
	ErrUnexpectedType = errors.New("unexpected type")
	ErrExtResultShape = errors.New("ext encoder must return a (id, bytes) pair")
	ErrKeyType        = errors.New("map key type not allowed under strict_keys")
)

// Value errors: the encoded bytes (or an argument derived from them) are
// not a valid MessagePack encoding.
var (
	ErrInvalidHeader    = errors.New("invalid MessagePack header byte")
	ErrTruncated        = errors.New("truncated MessagePack data")
	ErrUnknownExtID     = errors.New("no decoder registered for ext id")
	ErrSizeLimit        = errors.New("size exceeds 2^32-1")
	ErrEmptyExtPayload  = errors.New("ext payload must be non-empty")
	ErrExtIDOutOfRange  = errors.New("ext id must be in [-128, 127]")
	ErrMaxDepthExceeded = errors.New("max recursion depth exceeded")
	ErrTrailingData     = errors.New("trailing bytes after decoded value")
)

// ErrOverflow: an integer did not fit in 64 bits signed or unsigned.
var ErrOverflow = errors.New("integer overflows 64-bit range")

// ErrKey: a non-string map key was encountered in strict mode while
// decoding. The encoder reports the same condition as ErrKeyType.
var ErrKey = errors.New("map key must be a string under strict_keys")

// ErrMemory: an allocation failed.
var ErrMemory = errors.New("allocation failed")

// I/O errors. The stdlib already supplies errno and filename via
// *os.PathError, so these wrap that rather than re-deriving it.
var (
	ErrFileOpen     = errors.New("failed to open file")
	ErrFileWrite    = errors.New("failed to write to file")
	ErrFileRead     = errors.New("failed to read from file")
	ErrFileTruncate = errors.New("failed to truncate file")
)

// ErrEOF: a streaming read reached end of file with no bytes returned.
var ErrEOF = errors.New("reached end of file")
