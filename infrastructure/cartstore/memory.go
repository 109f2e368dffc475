package cartstore

import (
	"context"
	"sync"

	"storefront/domain/cart"
)

// MemoryStore 单进程部署时使用，重启即清空
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]cart.Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]cart.Item)}
}

func (s *MemoryStore) Get(_ context.Context, ownerID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.carts[ownerID]
	if !ok {
		return nil, cart.ErrCacheMiss
	}
	return cart.FromItems(items), nil
}

func (s *MemoryStore) Set(_ context.Context, ownerID string, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[ownerID] = c.Items()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, ownerID)
	return nil
}

var _ cart.Store = (*MemoryStore)(nil)
