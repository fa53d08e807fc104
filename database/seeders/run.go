// Package seeders fills a fresh install with starter data. Seeders
// register themselves from init() and run in registration order:
//
//	func init() { Register("categories", seedCategories) }
//
// Every seeder must be safe to run twice.
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
)

// Catalog is what the catalog seeders need.
type Catalog interface {
	CategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	CreateCategory(ctx context.Context, in services.NewCategory) (models.Category, error)
	CreateProduct(ctx context.Context, in services.NewProduct) (models.Product, error)
}

type Accounts interface {
	Register(ctx context.Context, in services.Registration) (models.User, error)
}

type Users interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// Deps are handed to every seeder.
type Deps struct {
	Catalog  Catalog
	Accounts Accounts
	Users    Users

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// SeederFunc is the signature of a seeder.
type SeederFunc func(ctx context.Context, d Deps) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder and stops on the first error.
func RunAll(ctx context.Context, d Deps, out io.Writer) error {
	mu.Lock()
	current := append([]seederEntry(nil), entries...)
	mu.Unlock()

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, d); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
