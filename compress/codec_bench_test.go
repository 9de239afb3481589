package compress

import (
	"fmt"
	"testing"
)

func generateBenchmarkData(size int, compressibility string) []byte {
	data := make([]byte, size)

	switch compressibility {
	case "highly_compressible":
		// data already zeroed
	case "compressible":
		pattern := []byte("deadbeef timestamp 1234567890 value 3.14159")
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
	case "semi_compressible":
		for i := range data {
			if i%100 < 50 {
				data[i] = byte(i % 256)
			} else {
				data[i] = byte((i*7 + i*i) % 256)
			}
		}
	default:
		for i := range data {
			data[i] = byte((i*31 + i*i*7 + i*i*i*3) % 256)
		}
	}

	return data
}

func BenchmarkNoOpCompress(b *testing.B) {
	c := NoOp{}
	benchSizes := []int{1024, 4096, 16384, 65536}

	for _, size := range benchSizes {
		data := generateBenchmarkData(size, "compressible")

		b.Run(fmt.Sprintf("%dKB", size/1024), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ResetTimer()

			for b.Loop() {
				if _, err := c.Compress(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAllCodecsCompress(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 262144, 1048576}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	for codecName, c := range allCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					name := fmt.Sprintf("%dKB_%s", size/1024, comp)
					b.Run(name, func(b *testing.B) {
						data := generateBenchmarkData(size, comp)

						b.ResetTimer()
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))

						for b.Loop() {
							if _, err := c.Compress(data); err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

func BenchmarkAllCodecsDecompress(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 262144, 1048576}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	for codecName, c := range allCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					name := fmt.Sprintf("%dKB_%s", size/1024, comp)
					b.Run(name, func(b *testing.B) {
						data := generateBenchmarkData(size, comp)

						compressed, err := c.Compress(data)
						if err != nil {
							b.Fatal(err)
						}

						b.ResetTimer()
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))

						for b.Loop() {
							if _, err := c.Decompress(compressed); err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

func BenchmarkAllCodecsRoundTrip(b *testing.B) {
	const size = 65536
	data := generateBenchmarkData(size, "compressible")

	for codecName, c := range allCodecs() {
		b.Run(codecName, func(b *testing.B) {
			b.ResetTimer()
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))

			for b.Loop() {
				compressed, err := c.Compress(data)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := c.Decompress(compressed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAllCodecsParallel(b *testing.B) {
	const size = 65536
	data := generateBenchmarkData(size, "compressible")

	for codecName, c := range allCodecs() {
		b.Run(codecName+"_Compress", func(b *testing.B) {
			b.ResetTimer()
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := c.Compress(data); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run(codecName+"_Decompress", func(b *testing.B) {
			compressed, err := c.Compress(data)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := c.Decompress(compressed); err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	}
}
