package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type entry struct {
	payload  []byte
	storedAt time.Time
	ttl      time.Duration
}

// Memory is a process-local SourceCache with TTL expiration, used when Redis
// is not configured.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemory creates an in-memory source cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

func (m *Memory) Get(_ context.Context, source, key string, out any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[cacheKey(source, key)]
	m.mu.RUnlock()

	if !ok || time.Since(e.storedAt) >= e.ttl {
		return false, nil
	}
	if err := json.Unmarshal(e.payload, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, source, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[cacheKey(source, key)] = entry{payload: payload, storedAt: time.Now(), ttl: ttl}
	m.mu.Unlock()
	return nil
}
