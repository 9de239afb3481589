//go:build cgo

package compress

import "github.com/valyala/gozstd"

// Compress compresses data via gozstd's binding to the reference C zstd
// library. Level 3 matches klauspost's SpeedDefault used by the pure-Go
// Zstd codec, so switching between the two doesn't change the compression
// ratio a caller should expect.
func (c ZstdCGO) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (c ZstdCGO) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
