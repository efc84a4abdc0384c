package repository

import (
	"context"
	"sync"
	"time"
)

// MockCache is an in-process CacheRepository used in tests and when no redis
// address is configured. TTLs are ignored.
type MockCache struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string]string)}
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *MockCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
