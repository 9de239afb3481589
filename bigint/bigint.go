// Package bigint extracts fixed-width integers from arbitrary-precision
// math/big.Int values: combine the words from most significant to least,
// shifting in the next word's bits and checking after every shift that no
// bits were lost. Go's big.Int exposes its words as []big.Word
// (least-significant first) via Bits(), which this walk consumes directly
// in terms of bits.UintSize-wide digits.
package bigint

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/svenboertjens/cmsgpack-sub000/errs"
)

// ExtractUint64 reduces v to a uint64, failing if v doesn't fit. A negative
// v always overflows, since an unsigned result can't represent it.
func ExtractUint64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative value does not fit in uint64", errs.ErrOverflow)
	}

	return extractMagnitude(v)
}

// ExtractInt64 reduces v to an int64, failing if v doesn't fit in the
// signed 64-bit range.
func ExtractInt64(v *big.Int) (int64, error) {
	mag, err := extractMagnitude(v)
	if err != nil {
		return 0, err
	}

	if v.Sign() >= 0 {
		if mag > 1<<63-1 {
			return 0, fmt.Errorf("%w: value exceeds math.MaxInt64", errs.ErrOverflow)
		}

		return int64(mag), nil
	}

	// Two's complement minimum, -2^63, is the one magnitude equal to
	// 1<<63 that's still representable once negated.
	if mag > 1<<63 {
		return 0, fmt.Errorf("%w: value is below math.MinInt64", errs.ErrOverflow)
	}

	return -int64(mag), nil
}

// extractMagnitude walks v's words from most significant to least,
// combining them into a single uint64 and checking after each shift that
// the high word's bits weren't shifted out and lost.
func extractMagnitude(v *big.Int) (uint64, error) {
	words := v.Bits()
	if len(words) == 0 {
		return 0, nil
	}

	num := uint64(words[len(words)-1])

	for i := len(words) - 2; i >= 0; i-- {
		last := num

		num <<= bits.UintSize
		num |= uint64(words[i])

		if num>>bits.UintSize != last {
			return 0, fmt.Errorf("%w: magnitude exceeds 64 bits", errs.ErrOverflow)
		}
	}

	return num, nil
}
