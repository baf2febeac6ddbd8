package state

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in process memory. It is the injected substitute
// for durable storage in tests and can simulate backend failures.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string

	// Fail* make the matching operation return the error when non-nil.
	FailGet    error
	FailSet    error
	FailRemove error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string]string{}}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(ctx, key); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailGet != nil {
		return "", false, m.FailGet
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key, value string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.values[key] = value
	return nil
}

func (m *MemoryBackend) Remove(ctx context.Context, key string) error {
	if err := checkKey(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemove != nil {
		return m.FailRemove
	}
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
