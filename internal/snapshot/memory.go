package snapshot

import (
	"context"
	"sync"

	"github.com/cesarmodas/storefront-cart/internal/cart"
)

// Memory keeps snapshots in process memory. Default driver for dev and the
// backing store for tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory builds an empty in-memory snapshot store.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Load(ctx context.Context, key string) ([]cart.LineItem, error) {
	m.mu.RLock()
	payload, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decode(payload)
}

func (m *Memory) Save(ctx context.Context, key string, items []cart.LineItem) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = payload
	m.mu.Unlock()
	return nil
}
