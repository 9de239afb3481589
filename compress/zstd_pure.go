//go:build !cgo

package compress

import "fmt"

// ZstdCGO requires gozstd's cgo bindings to the reference C library; a
// build without cgo can't satisfy it. Compile it in anyway so NewCodec's
// switch and any code that names compress.ZstdCGO still build — just fail
// at the call site instead of at compile time.
func (c ZstdCGO) Compress(data []byte) ([]byte, error) {
	return nil, fmt.Errorf("compress: ZstdCGO requires a cgo build")
}

func (c ZstdCGO) Decompress(data []byte) ([]byte, error) {
	return nil, fmt.Errorf("compress: ZstdCGO requires a cgo build")
}
