package services

import (
	"context"
	"redsys-orders/entity"
)

// OrderStore is the order persistence used by the payment builder and the reconciler.
type OrderStore interface {
	GetOrder(ctx context.Context, incrementId string) (*entity.Order, error)
	UpdateOrder(ctx context.Context, order *entity.Order) error
	SearchOrders(ctx context.Context, criteria *entity.SearchCriteria) ([]*entity.Order, error)
}

// ConfigResolver returns a raw configuration value for a store scope.
// ok is false when the key is not set for the scope.
type ConfigResolver interface {
	GetValue(ctx context.Context, scope, key string) (value interface{}, ok bool, err error)
}

type Database interface {
	OrderStore
	ConfigResolver
	WriteLogMessage(ctx context.Context, data Data) error
}

type Data interface {
	DataType() string
}
