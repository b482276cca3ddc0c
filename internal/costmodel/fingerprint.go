package costmodel

import (
	"hash/fnv"
	"sync"

	"github.com/google/btree"
)

// Fingerprint is the FNV-1a hash of a design's stable string rendering,
// used as the memoization key for repeated cost evaluations of designs
// that share a prefix across BB sibling branches and successive LNS
// rounds.
type Fingerprint uint64

// FingerprintOf hashes the stable rendering of a design.
func FingerprintOf(rendering string) Fingerprint {
	h := fnv.New64a()
	_, _ = h.Write([]byte(rendering))
	return Fingerprint(h.Sum64())
}

type cacheEntry struct {
	key  Fingerprint
	cost float64
}

func lessEntry(a, b cacheEntry) bool {
	return a.key < b.key
}

// FingerprintCache memoizes overall_cost results by design fingerprint in
// an ordered btree, bounded to a configured capacity. When full, the
// entry with the lowest fingerprint is evicted first; this is an
// arbitrary but deterministic eviction order, not an LRU policy, chosen
// because btree.BTreeG only exposes ordered traversal/removal cheaply.
type FingerprintCache struct {
	mu       sync.Mutex
	tree     *btree.BTreeG[cacheEntry]
	capacity int
}

// NewFingerprintCache builds an empty cache bounded to capacity entries.
// A non-positive capacity disables eviction (unbounded growth); callers
// running long LNS sweeps should supply a real bound.
func NewFingerprintCache(capacity int) *FingerprintCache {
	return &FingerprintCache{
		tree:     btree.NewG(32, lessEntry),
		capacity: capacity,
	}
}

// Get returns the memoized cost for a fingerprint, if present.
func (c *FingerprintCache) Get(fp Fingerprint) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.tree.Get(cacheEntry{key: fp})
	return item.cost, ok
}

// Put stores the cost for a fingerprint, evicting the lowest-fingerprint
// entry if the cache is at capacity.
func (c *FingerprintCache) Put(fp Fingerprint, cost float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tree.Get(cacheEntry{key: fp}); !exists {
		if c.capacity > 0 && c.tree.Len() >= c.capacity {
			c.tree.DeleteMin()
		}
	}
	c.tree.ReplaceOrInsert(cacheEntry{key: fp, cost: cost})
}

// Len returns the number of memoized entries.
func (c *FingerprintCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.Len()
}
