package suggest

import (
	"math"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

type cacheKey struct {
	prefix string
	k      int
}

// Cache memoizes TopMatches results of another Autocompletor and evicts
// the least recently used entry once maxEntries is reached. TopMatch and
// WeightOf pass straight through.
type Cache struct {
	next       Autocompletor
	entries    map[cacheKey][]string
	accessTime map[cacheKey]int64
	clock      int64
	hits       int64
	misses     int64
	maxEntries int
	mu         sync.Mutex
}

// NewCache wraps next. A non-positive maxEntries returns next unchanged.
func NewCache(next Autocompletor, maxEntries int) Autocompletor {
	if maxEntries <= 0 {
		return next
	}
	return &Cache{
		next:       next,
		entries:    make(map[cacheKey][]string, maxEntries),
		accessTime: make(map[cacheKey]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func (c *Cache) TopMatches(prefix string, k int) ([]string, error) {
	key := cacheKey{prefix: prefix, k: k}

	c.mu.Lock()
	if words, ok := c.entries[key]; ok {
		c.hits++
		c.markAccessed(key)
		c.mu.Unlock()
		return slices.Clone(words), nil
	}
	c.misses++
	c.mu.Unlock()

	words, err := c.next.TopMatches(prefix, k)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictLRU()
	}
	c.entries[key] = slices.Clone(words)
	c.markAccessed(key)
	return words, nil
}

func (c *Cache) TopMatch(prefix string) string { return c.next.TopMatch(prefix) }

func (c *Cache) WeightOf(term string) float64 { return c.next.WeightOf(term) }

// Stats reports cache counters.
func (c *Cache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]int{
		"cacheEntries": len(c.entries),
		"maxEntries":   c.maxEntries,
		"cacheHits":    int(c.hits),
		"cacheMisses":  int(c.misses),
	}
}

func (c *Cache) markAccessed(key cacheKey) {
	c.clock++
	c.accessTime[key] = c.clock
}

func (c *Cache) evictLRU() {
	var oldest cacheKey
	oldestTime := int64(math.MaxInt64)
	for key, t := range c.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = key
		}
	}
	if oldestTime == math.MaxInt64 {
		return
	}
	delete(c.entries, oldest)
	delete(c.accessTime, oldest)
	log.Debugf("Evicted prefix %q (k=%d) from result cache", oldest.prefix, oldest.k)
}
