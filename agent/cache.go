package agent

import (
	"context"
	"sync"
	"time"
)

// Cache is the key-value backend behind Store.
type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type memoryEntry[S any] struct {
	val     S
	touched time.Time
}

// MemoryCache keeps values in process. With a TTL, entries not written
// within it are treated as missing and dropped on the next access.
type MemoryCache[S any] struct {
	mu  sync.RWMutex
	m   map[string]memoryEntry[S]
	ttl time.Duration
	now func() time.Time
}

type MemoryCacheOption[S any] func(*MemoryCache[S])

// WithTTL expires sessions idle for longer than ttl.
func WithTTL[S any](ttl time.Duration) MemoryCacheOption[S] {
	return func(m *MemoryCache[S]) {
		m.ttl = ttl
	}
}

func NewMemoryCache[S any](opts ...MemoryCacheOption[S]) *MemoryCache[S] {
	m := &MemoryCache[S]{m: map[string]memoryEntry[S]{}, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryCache[S]) expired(e memoryEntry[S]) bool {
	return m.ttl > 0 && m.now().Sub(e.touched) > m.ttl
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = memoryEntry[S]{val: val, touched: m.now()}
	return nil
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	m.mu.RLock()
	e, ok := m.m[key]
	m.mu.RUnlock()
	if !ok || !m.expired(e) {
		return e.val, ok, nil
	}
	m.mu.Lock()
	if cur, ok := m.m[key]; ok && m.expired(cur) {
		delete(m.m, key)
	}
	m.mu.Unlock()
	var zero S
	return zero, false, nil
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
	return nil
}

func (m *MemoryCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Get(ctx, key)
	return ok, err
}

// Len reports the number of stored sessions, expired ones included until
// they are next read.
func (m *MemoryCache[S]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
