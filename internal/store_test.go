package internal

import (
	"context"
	"redsys-orders/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMemoryStore_GetUpdate(t *testing.T) {
	store := NewMemoryStore(testOrder())

	order, err := store.GetOrder(context.Background(), testOrderId)
	require.NoError(t, err)

	// returned orders are copies
	order.Status = entity.StatusCanceled
	order.BillingAddress.Street[0] = "changed"
	stored, err := store.GetOrder(context.Background(), testOrderId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Equal(t, "Calle Mayor 1", stored.BillingAddress.Street[0])

	require.NoError(t, store.UpdateOrder(context.Background(), order))
	stored, err = store.GetOrder(context.Background(), testOrderId)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCanceled, stored.Status)

	missing := testOrder()
	missing.IncrementId = "999"
	assert.ErrorIs(t, store.UpdateOrder(context.Background(), missing), ErrOrderNotFound)
	_, err = store.GetOrder(context.Background(), "999")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryStore_SearchOrders(t *testing.T) {
	orders := []*entity.Order{
		staleOrder("100", 20*time.Minute, GatewayMethod),
		staleOrder("101", 30*time.Minute, GatewayMethod),
		staleOrder("102", 2*time.Minute, GatewayMethod),
		staleOrder("103", 40*time.Minute, GatewayMethod),
	}
	orders[3].Status = entity.StatusCanceled
	store := NewMemoryStore(orders...)

	criteria := &entity.SearchCriteria{}
	criteria.AddGroup(entity.Filter{Field: "updated_at", Condition: entity.ConditionTo, Value: testNow.Add(-10 * time.Minute)})
	criteria.AddGroup(entity.Filter{Field: "status", Condition: entity.ConditionEq, Value: entity.StatusPending})

	found, err := store.SearchOrders(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "101", found[0].IncrementId)
	assert.Equal(t, "100", found[1].IncrementId)

	criteria.PageSize = 1
	found, err = store.SearchOrders(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "101", found[0].IncrementId)

	criteria.Offset = 1
	found, err = store.SearchOrders(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100", found[0].IncrementId)

	criteria.Offset = 2
	found, err = store.SearchOrders(context.Background(), criteria)
	require.NoError(t, err)
	assert.Empty(t, found)

	bad := &entity.SearchCriteria{}
	bad.AddGroup(entity.Filter{Field: "grand_total", Condition: entity.ConditionEq, Value: "1"})
	_, err = store.SearchOrders(context.Background(), bad)
	assert.Error(t, err)
}

func TestSearchFilter(t *testing.T) {
	cutoff := testNow.Add(-10 * time.Minute)
	criteria := &entity.SearchCriteria{}
	criteria.AddGroup(entity.Filter{Field: "updated_at", Condition: entity.ConditionTo, Value: cutoff})
	criteria.AddGroup(entity.Filter{Field: "status", Condition: entity.ConditionEq, Value: entity.StatusPending})
	criteria.AddGroup(
		entity.Filter{Field: "store_id", Condition: entity.ConditionEq, Value: "default"},
		entity.Filter{Field: "store_id", Condition: entity.ConditionIn, Value: []string{"b2b", "outlet"}},
	)

	filter, err := searchFilter(criteria)
	require.NoError(t, err)
	want := bson.D{{"$and", bson.A{
		bson.D{{"updated_at", bson.D{{"$lte", cutoff}}}},
		bson.D{{"status", entity.StatusPending}},
		bson.D{{"$or", bson.A{
			bson.D{{"store_id", "default"}},
			bson.D{{"store_id", bson.D{{"$in", []string{"b2b", "outlet"}}}}},
		}}},
	}}}
	assert.Equal(t, want, filter)

	empty, err := searchFilter(&entity.SearchCriteria{})
	require.NoError(t, err)
	assert.Equal(t, bson.D{}, empty)

	bad := &entity.SearchCriteria{}
	bad.AddGroup(entity.Filter{Field: "status", Condition: "like", Value: "p%"})
	_, err = searchFilter(bad)
	assert.Error(t, err)
}

func TestFilterDoc(t *testing.T) {
	tests := []struct {
		filter entity.Filter
		want   bson.D
	}{
		{entity.Filter{Field: "status", Condition: entity.ConditionNeq, Value: "canceled"}, bson.D{{"status", bson.D{{"$ne", "canceled"}}}}},
		{entity.Filter{Field: "updated_at", Condition: entity.ConditionFrom, Value: testNow}, bson.D{{"updated_at", bson.D{{"$gte", testNow}}}}},
	}
	for _, tt := range tests {
		got, err := filterDoc(tt.filter)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
