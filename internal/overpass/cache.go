package overpass

import (
	"container/list"
	"math"
	"sync"
	"time"

	"github.com/hyperjump/tomaru/internal/models"
)

const (
	// cellsPerDegree sets the grid used to share cached results between nearby query points.
	cellsPerDegree = 1000
	// cellSlackMeters covers the distance from any point in a cell to its center.
	cellSlackMeters = 80.0
)

type cellKey struct {
	lat, lng int64
}

func cellOf(lat, lng float64) cellKey {
	return cellKey{
		lat: int64(math.Round(lat * cellsPerDegree)),
		lng: int64(math.Round(lng * cellsPerDegree)),
	}
}

func (k cellKey) center() (lat, lng float64) {
	return float64(k.lat) / cellsPerDegree, float64(k.lng) / cellsPerDegree
}

// resultCache is an LRU cache of candidates keyed by grid cell, with a TTL per entry.
type resultCache struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	cache    map[cellKey]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key        cellKey
	candidates []*models.Candidate
	expires    time.Time
}

func newResultCache(capacity int, ttl time.Duration) *resultCache {
	return &resultCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[cellKey]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached candidates for key if present and not expired.
func (c *resultCache) Get(key cellKey) ([]*models.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.ttl > 0 && c.now().After(entry.expires) {
		c.lru.Remove(elem)
		delete(c.cache, key)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return append([]*models.Candidate(nil), entry.candidates...), true
}

// Set stores candidates for key, evicting the least recently used entry if at capacity.
func (c *resultCache) Set(key cellKey, candidates []*models.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.candidates = candidates
		entry.expires = expires
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, candidates: candidates, expires: expires})
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached cells.
func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
