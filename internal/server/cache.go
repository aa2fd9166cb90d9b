package server

import (
	"crypto/sha256"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/calc"
)

// cacheKey identifies a request by the digest of its canonical form, so
// that keys stay small whatever the operand sizes.
type cacheKey [sha256.Size]byte

func keyFor(algo string, req calc.Request) cacheKey {
	h := sha256.New()
	for _, part := range []string{algo, string(req.Op), req.A.String(), req.B.String(), req.M.String()} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	var k cacheKey
	h.Sum(k[:0])
	return k
}

// resultCache is an LRU cache of results bounded both by entry count and
// by the total number of limbs held.
type resultCache struct {
	mu       sync.Mutex
	data     *lru.Cache
	sizes    map[cacheKey]int
	limbs    int
	maxLimbs int
	capacity int
}

// newResultCache returns nil when entries <= 0, which disables caching.
func newResultCache(entries, maxLimbs int) (*resultCache, error) {
	if entries <= 0 {
		return nil, nil
	}
	data, err := lru.New(entries)
	if err != nil {
		return nil, err
	}
	return &resultCache{
		data:     data,
		sizes:    make(map[cacheKey]int),
		maxLimbs: maxLimbs,
		capacity: entries,
	}, nil
}

func (c *resultCache) Get(k cacheKey) (bigint.BigInt, bool) {
	if c == nil {
		return bigint.BigInt{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data.Get(k)
	if !ok {
		return bigint.BigInt{}, false
	}
	return v.(bigint.BigInt), true
}

// Add stores v unless it alone exceeds the limb budget, evicting the
// oldest entries until both bounds hold.
func (c *resultCache) Add(k cacheKey, v bigint.BigInt) bool {
	if c == nil {
		return false
	}
	size := v.LimbCount()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data.Contains(k) {
		c.data.Remove(k)
		c.limbs -= c.sizes[k]
		delete(c.sizes, k)
	}
	if size > c.maxLimbs {
		return false
	}
	for c.limbs+size > c.maxLimbs || c.data.Len() >= c.capacity {
		old, _, ok := c.data.RemoveOldest()
		if !ok {
			break
		}
		c.limbs -= c.sizes[old.(cacheKey)]
		delete(c.sizes, old.(cacheKey))
	}
	c.data.Add(k, v)
	c.sizes[k] = size
	c.limbs += size
	return true
}

func (c *resultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Len()
}
