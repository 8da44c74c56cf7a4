package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	inventoryCollection = "inventory"
	orderCollection     = "orders"
	retailerCollection  = "retailers"
	orderLineCollection = "order_details"
)

// EnsureMongoIndexes creates the unique indexes the repositories rely on:
// one inventory record per product and one line per (order, product).
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		inventoryCollection: {
			Keys:    bson.D{{Key: "product_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_product"),
		},
		orderLineCollection: {
			Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "product_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_order_product"),
		},
	}

	for coll, model := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}
	return nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
