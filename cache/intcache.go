package cache

// intSlots is the number of preallocated entries in the small-nonnegative-
// integer cache.
const intSlots = 4096

// smallInts holds one boxed int64 per value in [0, intSlots), built once at
// package init. Returning one of these from Decode instead of boxing a
// fresh int64 avoids an allocation on the hot path for the common case of
// small counters, indices, and enum-like values.
var smallInts [intSlots]any

func init() {
	for i := range smallInts {
		smallInts[i] = int64(i)
	}
}

// SmallInt returns the cached boxed int64 for v, and true, if v is within
// the cache's range. The caller still owns deciding whether v is eligible
// (non-negative and read as unsigned on the wire); SmallInt itself just
// does the bounds check.
func SmallInt(v uint64) (any, bool) {
	if v < intSlots {
		return smallInts[v], true
	}

	return nil, false
}
