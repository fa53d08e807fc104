package repositories

import (
	"context"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(s *docstore.Store) *CategoryRepository {
	return &CategoryRepository{col: s.Collection(docstore.Categories)}
}

func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var c models.Category
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, translate(err)
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&c)
	return c, translate(err)
}

func (r *CategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *CategoryRepository) Insert(ctx context.Context, c *models.Category) error {
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return translate(err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Children lists the categories under parent, or the roots when parent is nil.
func (r *CategoryRepository) Children(ctx context.Context, parent *primitive.ObjectID) ([]models.Category, error) {
	filter := bson.M{"parent_id": nil}
	if parent != nil {
		filter = bson.M{"parent_id": *parent}
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
