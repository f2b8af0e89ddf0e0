// Package cache provides the short-TTL response cache guarding the fetch
// pipeline. It is injected behind an interface so a distributed store could
// replace the in-memory map without touching the engine.
package cache

import (
	"sync"
	"time"
)

// Cache is the engine-facing contract.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type entry struct {
	createdAt time.Time
	payload   any
}

// Memory is an in-process cache with one fixed TTL and lazy expiry: entries
// past their TTL are treated as absent on read and overwritten on the next
// write. There is no background eviction. Each slot is replaced atomically
// under the lock, never patched in place.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]entry
}

// NewMemory creates a Memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]entry),
	}
}

// Get returns the cached payload if it exists and has not expired.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.createdAt) >= m.ttl {
		m.mu.Lock()
		// Re-check: another writer may have refreshed the slot.
		if cur, ok := m.items[key]; ok && m.now().Sub(cur.createdAt) >= m.ttl {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.payload, true
}

// Set stores the payload, replacing any previous entry for the key.
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	m.items[key] = entry{createdAt: m.now(), payload: value}
	m.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
