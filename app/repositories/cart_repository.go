package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartRepository stores one cart document per user.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(s *docstore.Store) *CartRepository {
	return &CartRepository{col: s.Collection(docstore.Carts)}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID uint) (models.Cart, error) {
	var c models.Cart
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&c)
	return c, translate(err)
}

// Create inserts an empty cart. A concurrent create for the same user
// returns ErrDuplicate via the unique user_id index.
func (r *CartRepository) Create(ctx context.Context, c *models.Cart) error {
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return translate(err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// SaveItems replaces the item list wholesale.
func (r *CartRepository) SaveItems(ctx context.Context, userID uint, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": items, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeEmpty deletes carts with no items last touched before cutoff.
func (r *CartRepository) PurgeEmpty(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{
		"items":      bson.M{"$size": 0},
		"updated_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
