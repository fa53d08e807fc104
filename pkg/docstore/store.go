// Package docstore owns the MongoDB handle used by the catalog, cart, order
// and review repositories.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	Products   = "products"
	Categories = "categories"
	Carts      = "carts"
	Orders     = "orders"
	Reviews    = "reviews"
	Logs       = "logs"
)

// Store is an explicitly constructed connection to one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the connection and selects database name.
func Connect(ctx context.Context, uri, name string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetRegistry(Registry()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("docstore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("docstore: ping: %w", err)
	}

	return &Store{client: client, db: client.Database(name)}, nil
}

// Collection returns a handle to the named collection.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Ping checks the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// IndexModels lists the indexes each collection needs.
func IndexModels() map[string][]mongo.IndexModel {
	unique := func(name string) *options.IndexOptions {
		return options.Index().SetUnique(true).SetName(name)
	}
	return map[string][]mongo.IndexModel{
		Products: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique("slug_unique")},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
			{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
		},
		Categories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique("slug_unique")},
			{Keys: bson.D{{Key: "parent_id", Value: 1}}},
		},
		Orders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: unique("order_number_unique")},
		},
		Reviews: {
			{Keys: bson.D{{Key: "product_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: unique("user_product_unique")},
		},
		Carts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique("user_unique")},
		},
	}
}

// EnsureIndexes creates every index from IndexModels. Existing identical
// indexes are left alone by the server.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for name, models := range IndexModels() {
		if _, err := s.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("docstore: indexes on %s: %w", name, err)
		}
	}
	return nil
}

// IsDuplicateKey reports whether err was caused by a unique index violation.
func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err means no document matched.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
