package repositories

import (
	"context"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/docstore"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(s *docstore.Store) *ReviewRepository {
	return &ReviewRepository{col: s.Collection(docstore.Reviews)}
}

// Insert stores rv. A second review by the same user for the same product
// returns ErrDuplicate via the compound unique index.
func (r *ReviewRepository) Insert(ctx context.Context, rv *models.Review) error {
	res, err := r.col.InsertOne(ctx, rv)
	if err != nil {
		return translate(err)
	}
	rv.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID, page, limit int) ([]models.Review, int64, error) {
	filter := bson.M{"product_id": productID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(int64(orm.Offset(page, limit))).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	out := []models.Review{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Ratings returns every rating given to the product.
func (r *ReviewRepository) Ratings(ctx context.Context, productID primitive.ObjectID) ([]int, error) {
	opts := options.Find().SetProjection(bson.M{"rating": 1})
	cur, err := r.col.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Rating int `bson:"rating"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]int, len(rows))
	for i, row := range rows {
		out[i] = row.Rating
	}
	return out, nil
}
