package cache

import (
	"sync"
	"time"
)

// Store is a small get/set/expire cache abstraction. The in-memory
// implementation below is process-local and advisory only; callers must
// treat a swap for a distributed store as transparent.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
}

// MemoryStore is a mutex-guarded in-process cache with per-entry TTL.
// Single-node only.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*cacheItem
}

type cacheItem struct {
	value      interface{}
	expiration time.Time
}

// NewMemoryStore creates a new in-memory cache store
func NewMemoryStore() *MemoryStore {
	cs := &MemoryStore{
		items: make(map[string]*cacheItem),
	}

	// Start cleanup goroutine
	go cs.cleanupExpired()

	return cs
}

// Get retrieves a value from cache
func (cs *MemoryStore) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	item, exists := cs.items[key]
	if !exists {
		return nil, false
	}

	// Check if expired
	if time.Now().After(item.expiration) {
		return nil, false
	}

	return item.value, true
}

// Set stores a value in cache with TTL
func (cs *MemoryStore) Set(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.items[key] = &cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
}

// Delete removes a value from cache
func (cs *MemoryStore) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.items, key)
}

// Clear removes all items from cache
func (cs *MemoryStore) Clear() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.items = make(map[string]*cacheItem)
}

// cleanupExpired periodically removes expired items
func (cs *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cs.mu.Lock()
		now := time.Now()
		for key, item := range cs.items {
			if now.After(item.expiration) {
				delete(cs.items, key)
			}
		}
		cs.mu.Unlock()
	}
}
