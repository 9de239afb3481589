// Package compress implements the optional file-level compression layer
// that stream.Encoder/Decoder can wrap around their raw MessagePack byte
// stream. MessagePack values themselves are never transparently compressed
// — compressing the wire bytes is strictly an application-level choice, one
// a caller opts into via stream.WithCompression/WithDecompression.
//
package compress

import "fmt"

// Type identifies one of the codecs this package implements.
type Type int

const (
	None Type = iota
	ZstdType
	ZstdCGOType
	LZ4Type
	S2Type
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case ZstdType:
		return "zstd"
	case ZstdCGOType:
		return "zstd-cgo"
	case LZ4Type:
		return "lz4"
	case S2Type:
		return "s2"
	default:
		return "unknown"
	}
}

// Codec compresses and decompresses whole byte buffers. Every
// implementation here is stateless between calls, so a single Codec value
// may be shared across any number of concurrent stream.Encoder/Decoder
// instances.
type Codec interface {
	// Compress compresses data and returns the compressed result; data is
	// not modified. Every codec except NoOp returns a newly allocated
	// slice; NoOp returns data itself.
	Compress(data []byte) ([]byte, error)

	// Decompress reverses Compress; data is not modified. Every codec
	// except NoOp returns a newly allocated slice; NoOp returns data itself.
	Decompress(data []byte) ([]byte, error)

	// Type reports which codec this is, for error messages and logging.
	Type() Type
}

// NewCodec is a factory returning the concrete Codec for one of the named
// types.
func NewCodec(t Type) (Codec, error) {
	switch t {
	case None:
		return NoOp{}, nil
	case ZstdType:
		return Zstd{}, nil
	case ZstdCGOType:
		return ZstdCGO{}, nil
	case LZ4Type:
		return LZ4{}, nil
	case S2Type:
		return S2{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}
