// Package compress provides the compression codecs stream.Encoder and
// stream.Decoder use to optionally wrap a streamed MessagePack file.
//
// Five codecs are available, matching the dependencies retrieved
// alongside this module: NoOp (no compression), Zstd
// (klauspost/compress, pure Go), ZstdCGO (valyala/gozstd, requires a cgo
// build), LZ4 (pierrec/lz4), and S2 (klauspost/compress/s2). Pick whichever
// fits the deployment: Zstd/ZstdCGO favor ratio, LZ4/S2 favor throughput.
// A stream without WithCompression uses none of them.
//
// Compression operates on each encoded MessagePack value separately: the
// stream writes every value as its own length-prefixed compressed block.
// The MessagePack bytes inside a block are unchanged.
package compress
