package market

import (
	"strings"
	"sync"
	"time"

	"github.com/battvalue/valuator/internal/domain"
)

// snapshotTTL bounds how long one snapshot is reused before a refresh.
const snapshotTTL = 15 * time.Minute

type cacheEntry struct {
	snapshot   domain.MarketSnapshot
	insertedAt time.Time
}

// snapshotCache holds one entry per currency. Entries are replaced whole on
// refresh, never mutated in place.
type snapshotCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

func (c *snapshotCache) get(currency string) (domain.MarketSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey(currency)]
	if !ok || time.Since(entry.insertedAt) >= c.ttl {
		return domain.MarketSnapshot{}, false
	}
	return entry.snapshot, true
}

// latest returns the resident snapshot regardless of expiry, for timestamp
// monotonicity checks.
func (c *snapshotCache) latest(currency string) (domain.MarketSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey(currency)]
	return entry.snapshot, ok
}

func (c *snapshotCache) set(currency string, snapshot domain.MarketSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(currency)] = cacheEntry{
		snapshot:   snapshot,
		insertedAt: time.Now(),
	}
}
