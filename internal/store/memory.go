package store

import (
	"context"
	"fmt"
	"sync"

	"storefront-service/internal/models"
)

// MemoryOrderStore keeps orders in process memory in insertion order
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders []models.Order
	byID   map[string]int
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		byID: make(map[string]int),
	}
}

func (m *MemoryOrderStore) Append(ctx context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[order.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.ID)
	}
	m.byID[order.ID] = len(m.orders)
	m.orders = append(m.orders, cloneOrder(order))
	return nil
}

func (m *MemoryOrderStore) FindByID(ctx context.Context, id string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return cloneOrder(m.orders[i]), nil
}

// Len returns the number of stored orders
func (m *MemoryOrderStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// List returns every order, oldest first
func (m *MemoryOrderStore) List() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Order, len(m.orders))
	for i, o := range m.orders {
		out[i] = cloneOrder(o)
	}
	return out
}
