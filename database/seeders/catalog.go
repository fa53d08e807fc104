package seeders

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shopspring/decimal"
)

func init() {
	Register("admin", seedAdmin)
	Register("catalog", seedCatalog)
}

type sampleProduct struct {
	title       string
	price       string
	description string
	variants    []string
}

var sampleCatalog = []struct {
	name     string
	slug     string
	products []sampleProduct
}{
	{
		name: "Raw Honey",
		slug: "raw-honey",
		products: []sampleProduct{
			{"Wildflower Raw Honey", "12.99", "Pure wildflower honey harvested from local farms", []string{"250g", "500g"}},
			{"Clover Raw Honey", "10.99", "Smooth and mild clover honey", nil},
		},
	},
	{
		name: "Flavored Honey",
		slug: "flavored-honey",
		products: []sampleProduct{
			{"Cinnamon Infused Honey", "15.99", "Raw honey infused with Ceylon cinnamon", nil},
			{"Lavender Honey", "16.99", "Delicate honey with natural lavender essence", nil},
		},
	},
}

// seedCatalog creates the two starter categories with their products. A
// category that already exists is left alone together with its products.
func seedCatalog(ctx context.Context, d Deps) error {
	for _, sc := range sampleCatalog {
		if _, err := d.Catalog.CategoryBySlug(ctx, sc.slug); err == nil {
			continue
		} else if !errors.Is(err, services.ErrCategoryNotFound) {
			return err
		}

		cat, err := d.Catalog.CreateCategory(ctx, services.NewCategory{Name: sc.name})
		if err != nil {
			return err
		}
		for _, p := range sc.products {
			_, err := d.Catalog.CreateProduct(ctx, services.NewProduct{
				Title:       p.title,
				CategoryID:  cat.ID,
				Price:       decimal.RequireFromString(p.price),
				Description: p.description,
				Variants:    p.variants,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// seedAdmin creates the staff account and grants it the admin role.
func seedAdmin(ctx context.Context, d Deps) error {
	if d.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is not set")
	}
	_, err := d.Accounts.Register(ctx, services.Registration{
		Username: d.AdminUsername,
		Email:    d.AdminEmail,
		Password: d.AdminPassword,
	})
	if err != nil && !errors.Is(err, services.ErrUsernameTaken) {
		return err
	}

	user, err := d.Users.FindByUsername(ctx, d.AdminUsername)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	user.Role = models.RoleAdmin
	return d.Users.Update(ctx, &user)
}
