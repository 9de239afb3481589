package buffer

import "sync"

// Minimum values the adaptive statistics are clamped to. A value that
// drifts below its minimum would make the next top-level encode
// under-allocate for even the smallest values, defeating the point of the
// prediction.
const (
	ExtraAllocMin = 64
	ItemAllocMin  = 6

	// DefaultBufferSize is the fallback initial allocation used when an
	// EncBuffer has no Stats or the prediction is not positive.
	DefaultBufferSize = 256
)

// Stats holds the two rolling size averages the adaptive buffer uses to
// predict a top-level encode's output size before encoding it. The zero
// value is not ready to use; call NewStats.
//
// A Stats is safe for concurrent use: it's meant to be shared process-wide,
// mutated at the end of every top-level encode regardless of which encoder
// instance produced it, so concurrent encoders sharing one Stats must not
// tear each other's updates.
type Stats struct {
	mu       sync.Mutex
	extraAvg uint64
	itemAvg  uint64
}

// NewStats returns a Stats initialized to the documented minima.
func NewStats() *Stats {
	return &Stats{extraAvg: ExtraAllocMin, itemAvg: ItemAllocMin}
}

// Predict returns the sizing hint for a top-level value with nitems
// elements (0 if the value isn't a list or map).
func (s *Stats) Predict(nitems int) int {
	s.mu.Lock()
	extra, item := s.extraAvg, s.itemAvg
	s.mu.Unlock()

	size := extra
	if nitems > 0 {
		size += uint64(nitems) * item
	}

	return int(size)
}

// Update folds the outcome of a top-level encode (used bytes, nitems
// elements) into the running averages.
func (s *Stats) Update(used, nitems int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extraAvg = clamp(biasedAverage(s.extraAvg, uint64(used)), ExtraAllocMin)

	if nitems > 0 {
		perItem := uint64(used) / uint64(nitems)
		s.itemAvg = clamp(biasedAverage(s.itemAvg, perItem), ItemAllocMin)
	}
}

// biasedAverage computes a rolling statistic that leans toward the current
// value, but caps one-step growth at 2x so a single outlier can't blow up
// the next allocation.
func biasedAverage(cur, new uint64) uint64 {
	doubled := cur * 2
	if new > doubled {
		return doubled
	}

	return (doubled + new) / 3
}

func clamp(v, min uint64) uint64 {
	if v < min {
		return min
	}

	return v
}
