package ledger

import (
	"sync"

	"github.com/divvyup/backend/internal/types"
	"github.com/google/uuid"
)

type cacheKey struct {
	category uuid.UUID
	month    types.Month
}

// balanceCache memoizes per-month closing balances per category.
// Carryover chains forward, so an invalidation for a month always
// covers every later month of the same category.
type balanceCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]types.Cents
}

func newBalanceCache() *balanceCache {
	return &balanceCache{
		entries: make(map[cacheKey]types.Cents),
	}
}

func (c *balanceCache) get(category uuid.UUID, month types.Month) (types.Cents, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[cacheKey{category, month}]
	return v, ok
}

func (c *balanceCache) set(category uuid.UUID, month types.Month, balance types.Cents) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey{category, month}] = balance
}

// invalidateFrom drops the cached closing balances of the category for
// the given month and every later month.
func (c *balanceCache) invalidateFrom(category uuid.UUID, month types.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.category == category && !key.month.Before(month) {
			delete(c.entries, key)
		}
	}
}

// clear drops everything. Used when recompute-from-scratch correctness
// is verified in tests.
func (c *balanceCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey]types.Cents)
}

// size returns the number of cached entries.
func (c *balanceCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
