package compress

// NoOp is the zero-overhead codec: it passes bytes through unchanged.
// stream.Encoder does not use it when WithCompression is never set (no
// codec and no framing apply then); passing NoOp to WithCompression still
// writes each value as a length-prefixed block.
type NoOp struct{}

var _ Codec = NoOp{}

func (c NoOp) Compress(data []byte) ([]byte, error) { return data, nil }

func (c NoOp) Decompress(data []byte) ([]byte, error) { return data, nil }

func (c NoOp) Type() Type { return None }
