// Package schema defines the read-only GraphQL view of the catalog.
package schema

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
	gql "github.com/shashiranjanraj/honeyshop/pkg/graphql"
	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog is the read side of services.CatalogService.
type Catalog interface {
	Categories(ctx context.Context, parent *primitive.ObjectID) ([]models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	ListProducts(ctx context.Context, q services.ProductQuery) (services.Page[models.Product], error)
	ProductBySlug(ctx context.Context, slug string) (models.Product, error)
}

var errInternal = errors.New("internal error")

// New builds the schema:
//
//	categories(parent_id: ID): [Category]
//	category(slug: String!): Category
//	products(q: String, category_id: ID, page: Int, limit: Int): ProductPage
//	product(slug: String!): Product
func New(catalog Catalog) (graphql.Schema, error) {
	r := resolver{catalog: catalog}

	variantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Variant",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.String, Resolve: fromVariant(func(v models.Variant) interface{} { return v.ID })},
			"name": &graphql.Field{Type: graphql.String, Resolve: fromVariant(func(v models.Variant) interface{} { return v.Name })},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.ID, Resolve: fromCategory(func(c models.Category) interface{} { return c.ID.Hex() })},
			"name":        &graphql.Field{Type: graphql.String, Resolve: fromCategory(func(c models.Category) interface{} { return c.Name })},
			"slug":        &graphql.Field{Type: graphql.String, Resolve: fromCategory(func(c models.Category) interface{} { return c.Slug })},
			"description": &graphql.Field{Type: graphql.String, Resolve: fromCategory(func(c models.Category) interface{} { return c.Description })},
			"parent_id": &graphql.Field{Type: graphql.ID, Resolve: fromCategory(func(c models.Category) interface{} {
				if c.ParentID == nil {
					return nil
				}
				return c.ParentID.Hex()
			})},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.ID, Resolve: fromProduct(func(p models.Product) interface{} { return p.ID.Hex() })},
			"title":       &graphql.Field{Type: graphql.String, Resolve: fromProduct(func(p models.Product) interface{} { return p.Title })},
			"slug":        &graphql.Field{Type: graphql.String, Resolve: fromProduct(func(p models.Product) interface{} { return p.Slug })},
			"category_id": &graphql.Field{Type: graphql.ID, Resolve: fromProduct(func(p models.Product) interface{} { return p.CategoryID.Hex() })},
			"price":       &graphql.Field{Type: graphql.String, Resolve: fromProduct(func(p models.Product) interface{} { return p.Price.StringFixed(2) })},
			"description": &graphql.Field{Type: graphql.String, Resolve: fromProduct(func(p models.Product) interface{} { return p.Description })},
			"status":      &graphql.Field{Type: graphql.String, Resolve: fromProduct(func(p models.Product) interface{} { return p.Status })},
			"images":      &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: fromProduct(func(p models.Product) interface{} { return p.Images })},
			"variants":    &graphql.Field{Type: graphql.NewList(variantType), Resolve: fromProduct(func(p models.Product) interface{} { return p.Variants })},
		},
	})

	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductPage",
		Fields: graphql.Fields{
			"items":       &graphql.Field{Type: graphql.NewList(productType), Resolve: fromPage(func(p services.Page[models.Product]) interface{} { return p.Items })},
			"page":        &graphql.Field{Type: graphql.Int, Resolve: fromPage(func(p services.Page[models.Product]) interface{} { return p.Pagination.Page })},
			"limit":       &graphql.Field{Type: graphql.Int, Resolve: fromPage(func(p services.Page[models.Product]) interface{} { return p.Pagination.Limit })},
			"total":       &graphql.Field{Type: graphql.Int, Resolve: fromPage(func(p services.Page[models.Product]) interface{} { return int(p.Pagination.Total) })},
			"total_pages": &graphql.Field{Type: graphql.Int, Resolve: fromPage(func(p services.Page[models.Product]) interface{} { return p.Pagination.TotalPages })},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type:    graphql.NewList(categoryType),
				Args:    graphql.FieldConfigArgument{"parent_id": &graphql.ArgumentConfig{Type: graphql.ID}},
				Resolve: r.categories,
			},
			"category": &graphql.Field{
				Type:    categoryType,
				Args:    graphql.FieldConfigArgument{"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.category,
			},
			"products": &graphql.Field{
				Type: pageType,
				Args: graphql.FieldConfigArgument{
					"q":           &graphql.ArgumentConfig{Type: graphql.String},
					"category_id": &graphql.ArgumentConfig{Type: graphql.ID},
					"page":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 12},
				},
				Resolve: r.products,
			},
			"product": &graphql.Field{
				Type:    productType,
				Args:    graphql.FieldConfigArgument{"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.product,
			},
		},
	})

	return gql.NewSchema(query)
}

type resolver struct {
	catalog Catalog
}

func (r resolver) categories(p graphql.ResolveParams) (interface{}, error) {
	var parent *primitive.ObjectID
	if raw, ok := p.Args["parent_id"].(string); ok && raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, errors.New("parent_id must be a valid id")
		}
		parent = &id
	}
	list, err := r.catalog.Categories(p.Context, parent)
	if err != nil {
		return nil, hide(p.Context, err)
	}
	return list, nil
}

func (r resolver) category(p graphql.ResolveParams) (interface{}, error) {
	c, err := r.catalog.CategoryBySlug(p.Context, p.Args["slug"].(string))
	if errors.Is(err, services.ErrCategoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, hide(p.Context, err)
	}
	return c, nil
}

func (r resolver) products(p graphql.ResolveParams) (interface{}, error) {
	q := services.ProductQuery{}
	q.Search, _ = p.Args["q"].(string)
	q.Page, _ = p.Args["page"].(int)
	q.Limit, _ = p.Args["limit"].(int)
	if raw, ok := p.Args["category_id"].(string); ok && raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, errors.New("category_id must be a valid id")
		}
		q.CategoryID = &id
	}
	page, err := r.catalog.ListProducts(p.Context, q)
	if err != nil {
		return nil, hide(p.Context, err)
	}
	return page, nil
}

func (r resolver) product(p graphql.ResolveParams) (interface{}, error) {
	prod, err := r.catalog.ProductBySlug(p.Context, p.Args["slug"].(string))
	if errors.Is(err, services.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, hide(p.Context, err)
	}
	return prod, nil
}

func hide(ctx context.Context, err error) error {
	logger.WithCtx(ctx).Error("graphql: resolve failed", "error", err)
	return errInternal
}

func fromCategory(f func(models.Category) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if c, ok := p.Source.(models.Category); ok {
			return f(c), nil
		}
		return nil, nil
	}
}

func fromProduct(f func(models.Product) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if prod, ok := p.Source.(models.Product); ok {
			return f(prod), nil
		}
		return nil, nil
	}
}

func fromVariant(f func(models.Variant) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if v, ok := p.Source.(models.Variant); ok {
			return f(v), nil
		}
		return nil, nil
	}
}

func fromPage(f func(services.Page[models.Product]) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if page, ok := p.Source.(services.Page[models.Product]); ok {
			return f(page), nil
		}
		return nil, nil
	}
}
