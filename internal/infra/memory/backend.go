package memory

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable simulates a backend outage; see SetAvailable.
var ErrUnavailable = errors.New("memory backend unavailable")

// Backend is an in-memory implementation of store.Backend.
type Backend struct {
	mu        sync.RWMutex
	data      map[string]string
	available bool
}

func NewBackend() *Backend {
	return &Backend{
		data:      make(map[string]string),
		available: true,
	}
}

// SetAvailable toggles a simulated outage. While unavailable every operation
// fails, which the store adapter turns into silent no-ops.
func (b *Backend) SetAvailable(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.available = ok
}

func (b *Backend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.available {
		return "", false, ErrUnavailable
	}
	value, ok := b.data[key]
	return value, ok, nil
}

func (b *Backend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.available {
		return ErrUnavailable
	}
	b.data[key] = value
	return nil
}

func (b *Backend) Del(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.available {
		return ErrUnavailable
	}
	delete(b.data, key)
	return nil
}

// Put seeds a raw value directly, bypassing the adapter. Used by tests to
// plant corrupted payloads.
func (b *Backend) Put(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}

// Dump returns a copy of the stored keys, for assertions.
func (b *Backend) Dump() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.data))
	for k, v := range b.data {
		out[k] = v
	}
	return out
}
