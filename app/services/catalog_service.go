package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
	"github.com/shashiranjanraj/honeyshop/pkg/cache"
	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"github.com/shashiranjanraj/honeyshop/pkg/storage"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const slugAttempts = 3

// NewCategory is the input of CreateCategory.
type NewCategory struct {
	Name        string
	Description string
	ParentID    *primitive.ObjectID
}

// NewProduct is the input of CreateProduct. Variants are given by name.
type NewProduct struct {
	Title       string
	CategoryID  primitive.ObjectID
	Price       decimal.Decimal
	Description string
	Variants    []string
}

// ProductQuery filters the public product listing.
type ProductQuery struct {
	Search     string
	CategoryID *primitive.ObjectID
	Page       int
	Limit      int
}

// CatalogService manages categories and products. Reads are cached.
type CatalogService struct {
	products   ProductStore
	categories CategoryStore
	disk       storage.Disk
	cache      *cache.Cache
	ttl        time.Duration
	now        func() time.Time
}

func NewCatalogService(products ProductStore, categories CategoryStore, disk storage.Disk, c *cache.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{products: products, categories: categories, disk: disk, cache: c, ttl: ttl, now: time.Now}
}

// uniqueSlug returns base, base-1, base-2, ... whichever is unused first.
func uniqueSlug(ctx context.Context, title string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

// CreateCategory stores a category, optionally below parent.
func (s *CatalogService) CreateCategory(ctx context.Context, in NewCategory) (models.Category, error) {
	if in.ParentID != nil {
		if _, err := s.categories.FindByID(ctx, *in.ParentID); err != nil {
			return models.Category{}, s.categoryErr(err)
		}
	}

	cat := models.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ParentID:    in.ParentID,
		CreatedAt:   s.now().UTC(),
	}
	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		if cat.Slug, err = uniqueSlug(ctx, cat.Name, s.categories.SlugExists); err != nil {
			return models.Category{}, fmt.Errorf("category slug: %w", err)
		}
		if err = s.categories.Insert(ctx, &cat); !errors.Is(err, repositories.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}
	_ = s.cache.Forget(ctx, "categories:")
	return cat, nil
}

// Categories lists the children of parent, or the root categories when
// parent is nil.
func (s *CatalogService) Categories(ctx context.Context, parent *primitive.ObjectID) ([]models.Category, error) {
	key := "categories:root"
	if parent != nil {
		key = "categories:children:" + parent.Hex()
	}
	var out []models.Category
	err := s.cache.Remember(ctx, key, s.ttl, &out, func() (interface{}, error) {
		return s.categories.Children(ctx, parent)
	})
	if out == nil {
		out = []models.Category{}
	}
	return out, err
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	var out models.Category
	err := s.cache.Remember(ctx, "categories:slug:"+slug, s.ttl, &out, func() (interface{}, error) {
		return s.categories.FindBySlug(ctx, slug)
	})
	if err != nil {
		return models.Category{}, s.categoryErr(err)
	}
	return out, nil
}

func (s *CatalogService) categoryErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}

// CreateProduct stores an active product with a fresh slug.
func (s *CatalogService) CreateProduct(ctx context.Context, in NewProduct) (models.Product, error) {
	if in.Price.IsNegative() {
		return models.Product{}, ErrInvalidPrice
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return models.Product{}, s.categoryErr(err)
	}

	now := s.now().UTC()
	p := models.Product{
		Title:       strings.TrimSpace(in.Title),
		CategoryID:  in.CategoryID,
		Price:       in.Price.Round(2),
		Description: in.Description,
		Variants:    make([]models.Variant, 0, len(in.Variants)),
		Images:      []string{},
		Status:      models.ProductActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, name := range in.Variants {
		p.Variants = append(p.Variants, models.Variant{ID: uuid.NewString()[:8], Name: name})
	}

	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		if p.Slug, err = uniqueSlug(ctx, p.Title, s.products.SlugExists); err != nil {
			return models.Product{}, fmt.Errorf("product slug: %w", err)
		}
		if err = s.products.Insert(ctx, &p); !errors.Is(err, repositories.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// ListProducts returns active products newest first.
func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (Page[models.Product], error) {
	page, limit := orm.Normalize(q.Page, q.Limit, 12)
	filter := repositories.ProductFilter{
		Query:      strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		ActiveOnly: true,
	}
	products, total, err := s.products.List(ctx, filter, page, limit)
	if err != nil {
		return Page[models.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return newPage(products, page, limit, total), nil
}

// ProductBySlug returns an active product.
func (s *CatalogService) ProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	p, err := s.productBySlug(ctx, slug)
	if err != nil {
		return models.Product{}, err
	}
	if !p.Active() {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) productBySlug(ctx context.Context, slug string) (models.Product, error) {
	var out models.Product
	err := s.cache.Remember(ctx, productKey(slug), s.ttl, &out, func() (interface{}, error) {
		return s.products.FindBySlug(ctx, slug)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return out, err
}

func productKey(slug string) string { return "products:slug:" + slug }

// SetProductStatus activates or deactivates a product.
func (s *CatalogService) SetProductStatus(ctx context.Context, slug, status string) (models.Product, error) {
	if status != models.ProductActive && status != models.ProductInactive {
		return models.Product{}, ErrInvalidStatus
	}
	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return models.Product{}, s.productErr(err)
	}
	if err := s.products.SetStatus(ctx, p.ID, status); err != nil {
		return models.Product{}, s.productErr(err)
	}
	_ = s.cache.Del(ctx, productKey(slug))
	p.Status = status
	return p, nil
}

// AddProductImage stores an upload on the configured disk and appends its
// URL to the product.
func (s *CatalogService) AddProductImage(ctx context.Context, slug, filename, contentType string, r io.Reader) (models.Product, error) {
	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return models.Product{}, s.productErr(err)
	}

	key := path.Join("products", p.Slug, uuid.NewString()+strings.ToLower(path.Ext(filename)))
	if err := s.disk.Put(ctx, key, r, contentType); err != nil {
		return models.Product{}, fmt.Errorf("store image: %w", err)
	}
	url := s.disk.URL(key)
	if err := s.products.AddImage(ctx, p.ID, url); err != nil {
		if derr := s.disk.Delete(ctx, key); derr != nil {
			logger.WithCtx(ctx).Warn("catalog: orphaned upload", "key", key, "error", derr)
		}
		return models.Product{}, s.productErr(err)
	}
	_ = s.cache.Del(ctx, productKey(slug))
	p.Images = append(p.Images, url)
	return p, nil
}

func (s *CatalogService) productErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}
