package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Zstd is the pure-Go Zstandard codec (klauspost/compress/zstd), available
// on every platform Go supports regardless of cgo. Prefer this over
// ZstdCGO unless a cross-compiled build can't afford its slightly lower
// throughput.
type Zstd struct{}

var _ Codec = Zstd{}

func (c Zstd) Type() Type { return ZstdType }

// ZstdCGO is the cgo-backed Zstandard codec (valyala/gozstd, a binding to
// the reference C library). Its Compress/Decompress methods live in
// zstd_cgo.go (built with cgo) or zstd_pure.go (built without it, where
// they fail fast) — the type itself has to be visible to both files and to
// NewCodec regardless of which one wins.
type ZstdCGO struct{}

var _ Codec = ZstdCGO{}

func (c ZstdCGO) Type() Type { return ZstdCGOType }

// zstdDecoderPool and zstdEncoderPool exist because klauspost/compress/zstd's
// encoder and decoder are explicitly documented as allocation-free after
// warmup when reused, so a pool amortizes that warmup across every
// streamed file this codec compresses.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

func (c Zstd) Compress(data []byte) ([]byte, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

func (c Zstd) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
