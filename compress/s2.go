package compress

import "github.com/klauspost/compress/s2"

// S2 is klauspost/compress/s2, a Snappy-compatible codec tuned for very
// high throughput at the cost of ratio relative to Zstd.
type S2 struct{}

var _ Codec = S2{}

func (c S2) Type() Type { return S2Type }

func (c S2) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (c S2) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
