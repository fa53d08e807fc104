package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/docstore"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductFilter narrows a product listing. Zero values mean "any".
type ProductFilter struct {
	Query      string
	CategoryID *primitive.ObjectID
	ActiveOnly bool
}

func (f ProductFilter) bson() bson.M {
	q := bson.M{}
	if f.Query != "" {
		q["$text"] = bson.M{"$search": f.Query}
	}
	if f.CategoryID != nil {
		q["category_id"] = *f.CategoryID
	}
	if f.ActiveOnly {
		q["status"] = models.ProductActive
	}
	return q
}

// ProductRepository stores products in the products collection.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(s *docstore.Store) *ProductRepository {
	return &ProductRepository{col: s.Collection(docstore.Products)}
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	return p, translate(err)
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	return p, translate(err)
}

// FindMany loads the given products keyed by id. Missing ids are absent
// from the result.
func (r *ProductRepository) FindMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	return n > 0, err
}

// Insert stores p and sets its ID.
func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return translate(err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// List returns one page of products matching f, newest first.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter, page, limit int) ([]models.Product, int64, error) {
	filter := f.bson()
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(orm.Offset(page, limit))).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
}

func (r *ProductRepository) AddImage(ctx context.Context, id primitive.ObjectID, url string) error {
	return r.update(ctx, id, bson.M{
		"$push": bson.M{"images": url},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *ProductRepository) update(ctx context.Context, id primitive.ObjectID, change bson.M) error {
	res, err := r.col.UpdateByID(ctx, id, change)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
