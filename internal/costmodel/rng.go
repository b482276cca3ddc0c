package costmodel

import "hash/fnv"

// seedFrom derives a deterministic int64 seed from a string, the same way
// FingerprintOf derives a cache key: FNV-1a, truncated to a signed value
// math/rand.NewSource accepts. Using a fixed literal here (prngSeed) is
// what makes the disk-cost working-set simulation reproducible across
// repeated evaluations of the same design.
func seedFrom(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
