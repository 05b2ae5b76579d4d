package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alinamichelle/utilify/internal/domain/providers"
)

// MemoryAdapter implements CacheProvider with an in-process map. It is the
// fallback when Redis is unavailable. Expiry is lazy: stale entries are
// dropped on the next read, there is no background sweep.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryAdapter creates an in-memory cache adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves a value, dropping it if the entry has expired.
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if a.now().After(entry.expiresAt) {
		a.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, stillThere := a.entries[key]; stillThere && a.now().After(current.expiresAt) {
			delete(a.entries, key)
		}
		a.mu.Unlock()
		return nil, fmt.Errorf("key not found: %s", key)
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores a value with an absolute expiry.
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	a.mu.Lock()
	a.entries[key] = memoryEntry{
		value:     stored,
		expiresAt: a.now().Add(time.Duration(expirationSeconds) * time.Second),
	}
	a.mu.Unlock()
	return nil
}

// Delete removes a value.
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)
