package internal

import (
	"context"
	"fmt"
	"redsys-orders/entity"
	"sort"
	"sync"
)

// MemoryStore keeps orders in memory. It backs the service when MongoDB is disabled.
type MemoryStore struct {
	mutex  sync.RWMutex
	orders map[string]*entity.Order
}

func NewMemoryStore(orders ...*entity.Order) *MemoryStore {
	store := &MemoryStore{orders: make(map[string]*entity.Order)}
	for _, order := range orders {
		store.orders[order.IncrementId] = clone(order)
	}
	return store
}

func (m *MemoryStore) GetOrder(_ context.Context, incrementId string) (*entity.Order, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	order, ok := m.orders[incrementId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, incrementId)
	}
	return clone(order), nil
}

func (m *MemoryStore) UpdateOrder(_ context.Context, order *entity.Order) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.orders[order.IncrementId]; !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, order.IncrementId)
	}
	m.orders[order.IncrementId] = clone(order)
	return nil
}

// SaveOrder inserts or replaces an order.
func (m *MemoryStore) SaveOrder(order *entity.Order) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.orders[order.IncrementId] = clone(order)
}

// SearchOrders returns matches ordered by last update, oldest first, then by increment id.
func (m *MemoryStore) SearchOrders(_ context.Context, criteria *entity.SearchCriteria) ([]*entity.Order, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*entity.Order
	for _, order := range m.orders {
		ok, err := criteria.Matches(order)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, clone(order))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].IncrementId < result[j].IncrementId
		}
		return result[i].UpdatedAt.Before(result[j].UpdatedAt)
	})
	if criteria.Offset > 0 {
		if criteria.Offset >= int64(len(result)) {
			return nil, nil
		}
		result = result[criteria.Offset:]
	}
	if criteria.PageSize > 0 && int64(len(result)) > criteria.PageSize {
		result = result[:criteria.PageSize]
	}
	return result, nil
}

func clone(order *entity.Order) *entity.Order {
	c := *order
	c.Items = append([]entity.OrderItem(nil), order.Items...)
	c.StatusHistory = append([]entity.StatusHistory(nil), order.StatusHistory...)
	if order.GrandTotal != nil {
		total := *order.GrandTotal
		c.GrandTotal = &total
	}
	if order.BillingAddress != nil {
		address := *order.BillingAddress
		address.Street = append([]string(nil), order.BillingAddress.Street...)
		c.BillingAddress = &address
	}
	if order.ShippingAddress != nil {
		address := *order.ShippingAddress
		address.Street = append([]string(nil), order.ShippingAddress.Street...)
		c.ShippingAddress = &address
	}
	if order.Payment != nil {
		payment := *order.Payment
		c.Payment = &payment
	}
	return &c
}
