package cache

import (
	"sync"
	"time"
)

// MockCache is an in-memory Cache used when Redis is not configured and in tests.
type MockCache struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string]string)}
}

func (m *MockCache) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.items[key]
	return val, ok
}

func (m *MockCache) Set(key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}
