package seeders

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCatalog struct {
	categories map[string]models.Category
	products   []models.Product
}

func (m *memCatalog) CategoryBySlug(_ context.Context, slug string) (models.Category, error) {
	if c, ok := m.categories[slug]; ok {
		return c, nil
	}
	return models.Category{}, services.ErrCategoryNotFound
}

func (m *memCatalog) CreateCategory(_ context.Context, in services.NewCategory) (models.Category, error) {
	slugs := map[string]string{"Raw Honey": "raw-honey", "Flavored Honey": "flavored-honey"}
	c := models.Category{ID: primitive.NewObjectID(), Name: in.Name, Slug: slugs[in.Name]}
	m.categories[c.Slug] = c
	return c, nil
}

func (m *memCatalog) CreateProduct(_ context.Context, in services.NewProduct) (models.Product, error) {
	p := models.Product{ID: primitive.NewObjectID(), Title: in.Title, CategoryID: in.CategoryID, Price: in.Price}
	m.products = append(m.products, p)
	return p, nil
}

type memUsers struct{ byName map[string]models.User }

func (m *memUsers) Register(_ context.Context, in services.Registration) (models.User, error) {
	if _, ok := m.byName[in.Username]; ok {
		return models.User{}, services.ErrUsernameTaken
	}
	u := models.User{Username: in.Username, Email: in.Email, Role: models.RoleMember}
	m.byName[in.Username] = u
	return u, nil
}

func (m *memUsers) FindByUsername(_ context.Context, name string) (models.User, error) {
	if u, ok := m.byName[name]; ok {
		return u, nil
	}
	return models.User{}, errors.New("not found")
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.byName[u.Username] = *u
	return nil
}

func deps() (Deps, *memCatalog, *memUsers) {
	cat := &memCatalog{categories: map[string]models.Category{}}
	users := &memUsers{byName: map[string]models.User{}}
	return Deps{
		Catalog:       cat,
		Accounts:      users,
		Users:         users,
		AdminUsername: "admin",
		AdminEmail:    "admin@honeyshop.local",
		AdminPassword: "s3cret-pass",
	}, cat, users
}

func TestRunAll_IsIdempotent(t *testing.T) {
	d, cat, users := deps()
	var out bytes.Buffer

	require.NoError(t, RunAll(context.Background(), d, &out))
	require.NoError(t, RunAll(context.Background(), d, &out))

	assert.Len(t, cat.categories, 2)
	assert.Len(t, cat.products, 4)
	assert.Equal(t, models.RoleAdmin, users.byName["admin"].Role)
	assert.Contains(t, out.String(), "Running seeder: catalog")
}

func TestSeedCatalog_Prices(t *testing.T) {
	d, cat, _ := deps()
	require.NoError(t, seedCatalog(context.Background(), d))

	prices := map[string]string{}
	for _, p := range cat.products {
		prices[p.Title] = p.Price.StringFixed(2)
	}
	assert.Equal(t, "12.99", prices["Wildflower Raw Honey"])
	assert.Equal(t, "16.99", prices["Lavender Honey"])
}

func TestSeedAdmin_RequiresPassword(t *testing.T) {
	d, _, _ := deps()
	d.AdminPassword = ""
	assert.Error(t, seedAdmin(context.Background(), d))
}
