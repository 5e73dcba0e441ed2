package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TTLCache is a thread-safe in-memory cache with per-entry expiry. Expired
// entries are dropped lazily on read. Keys are expected to carry a time
// bucket (hour/day) so cardinality stays bounded; there is no LRU eviction.
type TTLCache struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value     any
	expiresAt time.Time
}

func New(clock clockwork.Clock) *TTLCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TTLCache{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}
