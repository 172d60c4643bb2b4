package internal

import (
	"context"
	"errors"
	"redsys-orders/entity"
	"sync"
	"time"
)

const (
	testBaseUrl = "https://shop.example.com"
	testSecret  = "sq7HjrUOBfKmC576ILgskD5srU870gJ7"
	testOrderId = "000000123"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func testOrder() *entity.Order {
	total := 19.90
	return &entity.Order{
		EntityId:          "123",
		IncrementId:       testOrderId,
		StoreId:           "default",
		Status:            entity.StatusPending,
		State:             "pending_payment",
		GrandTotal:        &total,
		Currency:          "EUR",
		CustomerFirstname: "Ana",
		CustomerLastname:  "Garcia",
		CustomerEmail:     "ana@example.com",
		Items: []entity.OrderItem{
			{ItemId: "1", Name: "Shirt", QtyOrdered: 2},
			{ItemId: "2", ParentItemId: "1", Name: "Shirt Blue M", QtyOrdered: 2},
			{ItemId: "3", Name: "Hat", QtyOrdered: 1},
		},
		BillingAddress: &entity.Address{
			Street:    []string{"Calle Mayor 1"},
			City:      "Madrid",
			Postcode:  "28013",
			CountryId: "ES",
		},
		ShippingAddress: &entity.Address{
			Street:    []string{"Rue de Rivoli 10", "Apt 4"},
			City:      "Paris",
			Postcode:  "75001",
			CountryId: "FR",
		},
		Payment:   &entity.Payment{Method: GatewayMethod},
		CreatedAt: testNow.Add(-time.Hour),
		UpdatedAt: testNow.Add(-11 * time.Minute),
	}
}

func testMerchantValues() map[string]interface{} {
	return map[string]interface{}{
		KeyCommerceName:        "Test Shop",
		KeyCommerceNum:         "999008881",
		KeyTerminal:            "1",
		KeyTransactionType:     "0",
		KeySecret:              testSecret,
		KeyCancelPendingOrders: true,
	}
}

// countingStore wraps a store, counts calls and fails updates for selected orders.
type countingStore struct {
	*MemoryStore
	mutex       sync.Mutex
	searches    int
	updates     int
	failUpdate  map[string]bool
	searchErr   error
	searchBlock chan struct{}
	afterUpdate func()
}

func newCountingStore(orders ...*entity.Order) *countingStore {
	return &countingStore{
		MemoryStore: NewMemoryStore(orders...),
		failUpdate:  make(map[string]bool),
	}
}

func (s *countingStore) SearchOrders(ctx context.Context, criteria *entity.SearchCriteria) ([]*entity.Order, error) {
	s.mutex.Lock()
	s.searches++
	block := s.searchBlock
	s.mutex.Unlock()
	if block != nil {
		<-block
	}
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.MemoryStore.SearchOrders(ctx, criteria)
}

func (s *countingStore) UpdateOrder(ctx context.Context, order *entity.Order) error {
	s.mutex.Lock()
	s.updates++
	fail := s.failUpdate[order.IncrementId]
	s.mutex.Unlock()
	if fail {
		return errors.New("write conflict")
	}
	err := s.MemoryStore.UpdateOrder(ctx, order)
	if s.afterUpdate != nil {
		s.afterUpdate()
	}
	return err
}

func (s *countingStore) searchCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.searches
}

// failingResolver returns an error for every key.
type failingResolver struct{}

func (failingResolver) GetValue(context.Context, string, string) (interface{}, bool, error) {
	return nil, false, errors.New("connection refused")
}

type recordingNotifier struct {
	mutex    sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(text string) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.messages = append(n.messages, text)
	return nil
}
