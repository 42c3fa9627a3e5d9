package cache

import (
	"context"
	"sync"
	"time"
)

// entry is a single stored value and the instant it stops being servable.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryBackend is a process-local Backend. Expired entries are treated as
// absent on read and evicted opportunistically every sweepEvery writes.
//
// This type is safe for concurrent use.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]entry

	sweepEvery int
	writes     int
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries:    make(map[string]entry),
		sweepEvery: 1000,
	}
}

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string, now time.Time) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || !now.Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implements Backend.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, now time.Time, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Sweep before writing so the fresh entry is never considered.
	m.writes++
	if m.writes >= m.sweepEvery {
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
		m.writes = 0
	}

	m.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
