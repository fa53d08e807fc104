package controllers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/pkg/bind"
	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog is the part of services.CatalogService the HTTP and GraphQL
// layers use.
type Catalog interface {
	CreateCategory(ctx context.Context, in services.NewCategory) (models.Category, error)
	Categories(ctx context.Context, parent *primitive.ObjectID) ([]models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	CreateProduct(ctx context.Context, in services.NewProduct) (models.Product, error)
	ListProducts(ctx context.Context, q services.ProductQuery) (services.Page[models.Product], error)
	ProductBySlug(ctx context.Context, slug string) (models.Product, error)
	SetProductStatus(ctx context.Context, slug, status string) (models.Product, error)
	AddProductImage(ctx context.Context, slug, filename, contentType string, r io.Reader) (models.Product, error)
}

type Reviews interface {
	Create(ctx context.Context, userID uint, productID primitive.ObjectID, rating int, comment string) (models.Review, error)
	List(ctx context.Context, productID primitive.ObjectID, page, limit int) (services.Page[models.Review], error)
	Summary(ctx context.Context, productID primitive.ObjectID) (models.RatingSummary, error)
}

type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"   validate:"nullable,objectid"`
}

type ProductRequest struct {
	Title       string   `json:"title"       validate:"required,max=255"`
	CategoryID  string   `json:"category_id" validate:"required,objectid"`
	Price       string   `json:"price"       validate:"required,decimal"`
	Description string   `json:"description"`
	Variants    []string `json:"variants"`
}

type ProductStatusRequest struct {
	Status string `json:"status" validate:"required,in=active,inactive"`
}

// ProductDetail is the product page: the product with its first page of
// reviews and the rating summary.
type ProductDetail struct {
	Product models.Product               `json:"product"`
	Reviews services.Page[models.Review] `json:"reviews"`
	Summary models.RatingSummary         `json:"rating_summary"`
}

type CatalogController struct {
	catalog Catalog
	reviews Reviews
}

func NewCatalogController(catalog Catalog, reviews Reviews) *CatalogController {
	return &CatalogController{catalog: catalog, reviews: reviews}
}

// Categories handles GET /api/categories. With ?parent_id= it lists that
// category's children, otherwise the roots.
func (h *CatalogController) Categories(c *ctx.Context) {
	var parent *primitive.ObjectID
	if raw := c.Query("parent_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.ValidationError(map[string]string{"parent_id": "parent_id must be a valid id"})
			return
		}
		parent = &id
	}

	list, err := h.catalog.Categories(c.Context(), parent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(list)
}

func (h *CatalogController) Category(c *ctx.Context) {
	cat, err := h.catalog.CategoryBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(cat)
}

func (h *CatalogController) StoreCategory(c *ctx.Context) {
	var in CategoryRequest
	if !c.BindJSON(&in) {
		return
	}

	nc := services.NewCategory{Name: in.Name, Description: in.Description}
	if in.ParentID != "" {
		id := mustObjectID(in.ParentID)
		nc.ParentID = &id
	}
	cat, err := h.catalog.CreateCategory(c.Context(), nc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(cat)
}

// Products handles GET /api/products.
func (h *CatalogController) Products(c *ctx.Context) {
	q := services.ProductQuery{
		Search: c.Query("q"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 12),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.ValidationError(map[string]string{"category_id": "category_id must be a valid id"})
			return
		}
		q.CategoryID = &id
	}

	page, err := h.catalog.ListProducts(c.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(page)
}

// Product handles GET /api/products/{slug}.
func (h *CatalogController) Product(c *ctx.Context) {
	p, err := h.catalog.ProductBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, err := h.reviews.List(c.Context(), p.ID, 1, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.reviews.Summary(c.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(ProductDetail{Product: p, Reviews: reviews, Summary: summary})
}

func (h *CatalogController) StoreProduct(c *ctx.Context) {
	var in ProductRequest
	if !c.BindJSON(&in) {
		return
	}

	price, _ := decimal.NewFromString(in.Price)
	p, err := h.catalog.CreateProduct(c.Context(), services.NewProduct{
		Title:       in.Title,
		CategoryID:  mustObjectID(in.CategoryID),
		Price:       price,
		Description: in.Description,
		Variants:    in.Variants,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(p)
}

func (h *CatalogController) UpdateProductStatus(c *ctx.Context) {
	var in ProductStatusRequest
	if !c.BindJSON(&in) {
		return
	}

	p, err := h.catalog.SetProductStatus(c.Context(), c.Param("slug"), in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Product status updated", p)
}

// UploadImage handles POST /api/products/{slug}/images with a multipart
// "image" field.
func (h *CatalogController) UploadImage(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, bind.MaxBodyBytes())
	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.ValidationError(map[string]string{"image": "image file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.ValidationError(map[string]string{"image": "image must be an image file"})
		return
	}

	p, err := h.catalog.AddProductImage(c.Context(), c.Param("slug"), header.Filename, contentType, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(p)
}
