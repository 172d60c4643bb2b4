package internal

import (
	"context"
	"errors"
	"fmt"
	"redsys-orders/config"
	"redsys-orders/entity"
	"redsys-orders/services"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionLog            = "payment_log"
	collectionOrders         = "orders"
	collectionMerchantConfig = "merchant_config"
)

type MongoDB struct {
	client   *mongo.Client
	database string
}

func NewMongoClient(ctx context.Context, conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err = client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	m := &MongoDB{
		client:   client,
		database: conf.Mongo.Database,
	}
	if err = m.ensureIndexes(connectCtx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

func (m *MongoDB) GetOrder(ctx context.Context, incrementId string) (*entity.Order, error) {
	filter := bson.D{{"increment_id", incrementId}}
	var order entity.Order
	err := m.collection(collectionOrders).FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, incrementId)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder writes the mutable order fields: status, state, history and update time.
func (m *MongoDB) UpdateOrder(ctx context.Context, order *entity.Order) error {
	filter := bson.D{{"increment_id", order.IncrementId}}
	update := bson.D{
		{"$set", bson.D{
			{"status", order.Status},
			{"state", order.State},
			{"status_history", order.StatusHistory},
			{"updated_at", order.UpdatedAt},
		}},
	}
	result, err := m.collection(collectionOrders).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, order.IncrementId)
	}
	return nil
}

func (m *MongoDB) SearchOrders(ctx context.Context, criteria *entity.SearchCriteria) ([]*entity.Order, error) {
	filter, err := searchFilter(criteria)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{"updated_at", 1}, {"increment_id", 1}})
	if criteria.PageSize > 0 {
		opts.SetLimit(criteria.PageSize)
	}
	if criteria.Offset > 0 {
		opts.SetSkip(criteria.Offset)
	}
	cursor, err := m.collection(collectionOrders).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var orders []*entity.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetValue reads a merchant_config document {scope, key, value}.
func (m *MongoDB) GetValue(ctx context.Context, scope, key string) (interface{}, bool, error) {
	filter := bson.D{{"scope", scope}, {"key", key}}
	var doc struct {
		Value interface{} `bson:"value"`
	}
	err := m.collection(collectionMerchantConfig).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc.Value, true, nil
}

func (m *MongoDB) WriteLogMessage(ctx context.Context, data services.Data) error {
	_, err := m.collection(collectionLog).InsertOne(ctx, data)
	return err
}

// searchFilter translates criteria to a query: groups are AND'ed, filters inside a group OR'ed.
func searchFilter(criteria *entity.SearchCriteria) (bson.D, error) {
	var groups bson.A
	for _, group := range criteria.FilterGroups {
		var filters bson.A
		for _, f := range group.Filters {
			doc, err := filterDoc(f)
			if err != nil {
				return nil, err
			}
			filters = append(filters, doc)
		}
		switch len(filters) {
		case 0:
			continue
		case 1:
			groups = append(groups, filters[0])
		default:
			groups = append(groups, bson.D{{"$or", filters}})
		}
	}
	if len(groups) == 0 {
		return bson.D{}, nil
	}
	return bson.D{{"$and", groups}}, nil
}

func filterDoc(f entity.Filter) (bson.D, error) {
	switch f.Condition {
	case entity.ConditionEq:
		return bson.D{{f.Field, f.Value}}, nil
	case entity.ConditionNeq:
		return bson.D{{f.Field, bson.D{{"$ne", f.Value}}}}, nil
	case entity.ConditionTo:
		return bson.D{{f.Field, bson.D{{"$lte", f.Value}}}}, nil
	case entity.ConditionFrom:
		return bson.D{{f.Field, bson.D{{"$gte", f.Value}}}}, nil
	case entity.ConditionIn:
		return bson.D{{f.Field, bson.D{{"$in", f.Value}}}}, nil
	}
	return nil, fmt.Errorf("unsupported condition %q for field %s", f.Condition, f.Field)
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection string
		keys       bson.D
		unique     bool
	}{
		{collectionOrders, bson.D{{"increment_id", 1}}, true},
		{collectionOrders, bson.D{{"status", 1}, {"updated_at", 1}}, false},
		{collectionMerchantConfig, bson.D{{"scope", 1}, {"key", 1}}, true},
	}
	for _, idx := range indexes {
		if err := ensureIndex(ctx, m.collection(idx.collection), idx.keys, idx.unique); err != nil {
			return fmt.Errorf("ensure index on %s: %w", idx.collection, err)
		}
	}
	return nil
}

// ensureIndex creates the index unless one with the same generated name exists.
func ensureIndex(ctx context.Context, c *mongo.Collection, keys bson.D, unique bool) error {
	var names []string
	for _, k := range keys {
		names = append(names, fmt.Sprintf("%v_%v", k.Key, k.Value))
	}
	indexName := strings.Join(names, "_")

	cursor, err := c.Indexes().List(ctx)
	if err != nil {
		return err
	}
	var existing []bson.M
	if err = cursor.All(ctx, &existing); err != nil {
		return err
	}
	for _, index := range existing {
		if index["name"] == indexName {
			return nil
		}
	}

	_, err = c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(indexName).SetUnique(unique),
	})
	return err
}
