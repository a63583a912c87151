package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/aretw0/metron/pkg/domain"
)

type entry struct {
	table     domain.RateTable
	expiresAt time.Time
}

// Cache implements ports.RateCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]entry
	mu   sync.RWMutex
	now  func() time.Time
}

// NewCache creates a new in-memory rate cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns the table cached for base. Expired entries are misses and are dropped.
func (c *Cache) Get(ctx context.Context, base string) (domain.RateTable, bool, error) {
	c.mu.RLock()
	e, ok := c.data[base]
	c.mu.RUnlock()

	if !ok {
		return domain.RateTable{}, false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.data[base]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.data, base)
		}
		c.mu.Unlock()
		return domain.RateTable{}, false, nil
	}

	// Copy on read so callers can't mutate the cached map.
	ret := e.table
	ret.Rates = maps.Clone(e.table.Rates)
	return ret, true, nil
}

// Set stores a copy of table under its base.
func (c *Cache) Set(ctx context.Context, table domain.RateTable, ttl time.Duration) error {
	copied := table
	copied.Rates = maps.Clone(table.Rates)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[table.Base] = entry{table: copied, expiresAt: expiresAt}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
