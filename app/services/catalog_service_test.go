package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCatalog(t *testing.T) (*CatalogService, *fakeProducts, *storage.LocalDisk) {
	t.Helper()
	disk, err := storage.NewLocalDisk(t.TempDir(), "http://shop.test/storage")
	require.NoError(t, err)
	products := newFakeProducts()
	return NewCatalogService(products, newFakeCategories(), disk, nil, time.Minute), products, disk
}

func TestCategories_SlugsAndTree(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	root, err := svc.CreateCategory(ctx, NewCategory{Name: "Raw Honey"})
	require.NoError(t, err)
	assert.Equal(t, "raw-honey", root.Slug)

	dup, err := svc.CreateCategory(ctx, NewCategory{Name: "Raw honey!"})
	require.NoError(t, err)
	assert.Equal(t, "raw-honey-1", dup.Slug)

	child, err := svc.CreateCategory(ctx, NewCategory{Name: "Comb", ParentID: &root.ID})
	require.NoError(t, err)

	missing := primitive.NewObjectID()
	_, err = svc.CreateCategory(ctx, NewCategory{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	roots, err := svc.Categories(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	kids, err := svc.Categories(ctx, &root.ID)
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, child.ID, kids[0].ID)

	got, err := svc.CategoryBySlug(ctx, "raw-honey-1")
	require.NoError(t, err)
	assert.Equal(t, dup.ID, got.ID)
	_, err = svc.CategoryBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateProduct(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()
	cat, err := svc.CreateCategory(ctx, NewCategory{Name: "Honey"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, NewProduct{Title: "Clover", CategoryID: cat.ID, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = svc.CreateProduct(ctx, NewProduct{Title: "Clover", CategoryID: primitive.NewObjectID(), Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	p, err := svc.CreateProduct(ctx, NewProduct{
		Title:      "Clover Honey",
		CategoryID: cat.ID,
		Price:      decimal.RequireFromString("8.999"),
		Variants:   []string{"250g", "500g"},
	})
	require.NoError(t, err)
	assert.Equal(t, "clover-honey", p.Slug)
	assert.Equal(t, "9.00", p.Price.StringFixed(2))
	assert.Equal(t, models.ProductActive, p.Status)
	require.Len(t, p.Variants, 2)
	assert.NotEqual(t, p.Variants[0].ID, p.Variants[1].ID)

	second, err := svc.CreateProduct(ctx, NewProduct{Title: "Clover Honey", CategoryID: cat.ID, Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "clover-honey-1", second.Slug)
}

func TestProductListingAndStatus(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()
	cat, err := svc.CreateCategory(ctx, NewCategory{Name: "Honey"})
	require.NoError(t, err)
	for _, title := range []string{"Clover Honey", "Manuka Honey", "Beeswax Candle"} {
		_, err := svc.CreateProduct(ctx, NewProduct{Title: title, CategoryID: cat.ID, Price: decimal.NewFromInt(5)})
		require.NoError(t, err)
	}

	_, err = svc.SetProductStatus(ctx, "beeswax-candle", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.SetProductStatus(ctx, "beeswax-candle", models.ProductInactive)
	require.NoError(t, err)

	page, err := svc.ListProducts(ctx, ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = svc.ListProducts(ctx, ProductQuery{Search: "manuka"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "manuka-honey", page.Items[0].Slug)

	_, err = svc.ProductBySlug(ctx, "beeswax-candle")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = svc.ProductBySlug(ctx, "nothing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddProductImage(t *testing.T) {
	svc, products, disk := newCatalog(t)
	ctx := context.Background()
	cat, err := svc.CreateCategory(ctx, NewCategory{Name: "Honey"})
	require.NoError(t, err)
	p, err := svc.CreateProduct(ctx, NewProduct{Title: "Clover", CategoryID: cat.ID, Price: decimal.NewFromInt(5)})
	require.NoError(t, err)

	got, err := svc.AddProductImage(ctx, p.Slug, "Jar.PNG", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	assert.True(t, strings.HasPrefix(got.Images[0], "http://shop.test/storage/products/clover/"))
	assert.True(t, strings.HasSuffix(got.Images[0], ".png"))
	assert.Equal(t, got.Images, products.byID[p.ID].Images)

	key := strings.TrimPrefix(got.Images[0], "http://shop.test/storage/")
	assert.True(t, disk.Exists(ctx, key))

	_, err = svc.AddProductImage(ctx, "missing", "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrProductNotFound)
}
