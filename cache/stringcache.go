// Package cache implements the two process-wide interning caches used by
// the decoder's hot path: a short-string cache indexed by an FNV-1a hash of
// the string's bytes, and a small-nonnegative-integer cache that is just a
// dense, pre-built array.
//
// Both caches are intentionally simple, fixed-size, and collision-tolerant:
// a slot holds at most one entry and a collision silently evicts the old
// one. That trade favors steady-state hit rate on repeated keys (metric
// names, JSON-ish object keys, small counters) over correctness of a
// full hash map, which the decode hot path cannot afford to build.
//
// These caches are process-wide and shared across concurrently running
// decoders, so slot replacement must itself be atomic. Every slot is
// published via an atomic store of a fully-constructed entry pointer
// rather than a per-slot lock.
package cache

import "sync/atomic"

// stringSlots is the number of slots in the short-string cache. Must be a
// power of two: the cache masks the FNV-1a hash instead of taking a modulus.
const stringSlots = 1024

const fnvOffsetBasis uint32 = 0x811C9DC5
const fnvPrime uint32 = 0x01000193

// fnv1a hashes data with the 32-bit FNV-1a algorithm.
func fnv1a(data []byte) uint32 {
	hash := fnvOffsetBasis
	for _, b := range data {
		hash = (hash ^ uint32(b)) * fnvPrime
	}

	return hash
}

type stringEntry struct {
	data []byte
	val  string
}

// StringCache is the short-string decode cache. The zero value is ready to
// use and safe for concurrent use from multiple decoder instances.
type StringCache struct {
	slots [stringSlots]atomic.Pointer[stringEntry]
}

// NewStringCache returns an empty short-string cache with stringSlots slots.
func NewStringCache() *StringCache {
	return &StringCache{}
}

// Lookup returns the cached string equal to data, if one is present in the
// slot that data's hash maps to.
func (c *StringCache) Lookup(data []byte) (string, bool) {
	idx := fnv1a(data) & (stringSlots - 1)

	entry := c.slots[idx].Load()
	if entry == nil || len(entry.data) != len(data) {
		return "", false
	}

	for i := range data {
		if entry.data[i] != data[i] {
			return "", false
		}
	}

	return entry.val, true
}

// Store places s into the slot its bytes hash to, evicting whatever was
// there before. Callers should only store strings they've verified are
// pure ASCII: the cache indexes by raw byte hash and has no way to
// validate UTF-8 multi-byte sequences landing across a collision.
func (c *StringCache) Store(s string) {
	data := []byte(s)
	idx := fnv1a(data) & (stringSlots - 1)
	c.slots[idx].Store(&stringEntry{data: data, val: s})
}

// IsASCII reports whether every byte of data is in the 7-bit ASCII range.
func IsASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}

	return true
}

// shared is the process-wide cache instance used by the package-level
// Lookup/Store helpers.
var shared = NewStringCache()

// Lookup consults the process-wide short-string cache.
func Lookup(data []byte) (string, bool) {
	return shared.Lookup(data)
}

// Store publishes s into the process-wide short-string cache.
func Store(s string) {
	shared.Store(s)
}
