// Package ledger implements the envelope budgeting engine: category and
// account balances, monthly allocations with carryover, and the
// transaction operations that keep them consistent.
//
// Balances are pure projections over the Store; the per-month closing
// balance cache is an optimization with explicit invalidation, never a
// source of truth.
package ledger

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Ledger is the budgeting engine. All methods are safe for concurrent
// use; mutations of a category are serialized against balance reads of
// the same category, reads of unrelated categories never block.
type Ledger struct {
	store  Store
	cache  *balanceCache
	flight singleflight.Group

	mu     sync.Mutex
	scopes map[string]*sync.RWMutex
}

// New returns a Ledger on top of the given store.
func New(store Store) *Ledger {
	return &Ledger{
		store:  store,
		cache:  newBalanceCache(),
		scopes: make(map[string]*sync.RWMutex),
	}
}

func categoryScope(id uuid.UUID) string {
	return "category/" + id.String()
}

func accountScope(id uuid.UUID) string {
	return "account/" + id.String()
}

func (l *Ledger) scope(key string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.scopes[key]
	if !ok {
		m = &sync.RWMutex{}
		l.scopes[key] = m
	}

	return m
}

// lockWrite acquires the write locks for all scopes in a deterministic
// order so that operations touching multiple scopes cannot deadlock.
// The returned function releases them.
func (l *Ledger) lockWrite(keys ...string) func() {
	keys = dedupeSorted(keys)

	locks := make([]*sync.RWMutex, 0, len(keys))
	for _, key := range keys {
		m := l.scope(key)
		m.Lock()
		locks = append(locks, m)
	}

	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

// lockRead acquires the read locks for all scopes, ordered like lockWrite.
func (l *Ledger) lockRead(keys ...string) func() {
	keys = dedupeSorted(keys)

	locks := make([]*sync.RWMutex, 0, len(keys))
	for _, key := range keys {
		m := l.scope(key)
		m.RLock()
		locks = append(locks, m)
	}

	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].RUnlock()
		}
	}
}

func dedupeSorted(keys []string) []string {
	sort.Strings(keys)

	out := keys[:0]
	var last string
	for i, key := range keys {
		if i == 0 || key != last {
			out = append(out, key)
		}
		last = key
	}

	return out
}
