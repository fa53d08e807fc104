package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store interfaces below are satisfied by the types in app/repositories.
// Implementations report repositories.ErrNotFound and repositories.ErrDuplicate.

type UserStore interface {
	FindByID(ctx context.Context, id uint) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	All(ctx context.Context, page, limit int) ([]models.User, orm.Pagination, error)
}

type AddressStore interface {
	List(ctx context.Context, userID uint) ([]models.Address, error)
	Find(ctx context.Context, userID, id uint) (models.Address, error)
	Create(ctx context.Context, a *models.Address) error
	Update(ctx context.Context, userID, id uint, fields map[string]interface{}) (models.Address, error)
	SetDefault(ctx context.Context, userID, id uint) error
	Delete(ctx context.Context, userID, id uint) error
}

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindBySlug(ctx context.Context, slug string) (models.Product, error)
	FindMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Insert(ctx context.Context, p *models.Product) error
	List(ctx context.Context, f repositories.ProductFilter, page, limit int) ([]models.Product, int64, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	AddImage(ctx context.Context, id primitive.ObjectID, url string) error
}

type CategoryStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	FindBySlug(ctx context.Context, slug string) (models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Insert(ctx context.Context, c *models.Category) error
	Children(ctx context.Context, parent *primitive.ObjectID) ([]models.Category, error)
}

type CartStore interface {
	FindByUser(ctx context.Context, userID uint) (models.Cart, error)
	Create(ctx context.Context, c *models.Cart) error
	SaveItems(ctx context.Context, userID uint, items []models.CartItem) error
	PurgeEmpty(ctx context.Context, cutoff time.Time) (int64, error)
}

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.Order, int64, error)
	SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
}

type ReviewStore interface {
	Insert(ctx context.Context, r *models.Review) error
	ListByProduct(ctx context.Context, productID primitive.ObjectID, page, limit int) ([]models.Review, int64, error)
	Ratings(ctx context.Context, productID primitive.ObjectID) ([]int, error)
}

// Publisher fires domain events after a change is committed.
type Publisher interface {
	FireAsync(ctx context.Context, name string, payload interface{})
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// Page is one page of results with its pagination metadata.
type Page[T any] struct {
	Items      []T            `json:"items"`
	Pagination orm.Pagination `json:"pagination"`
}

func newPage[T any](items []T, page, limit int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: orm.NewPagination(page, limit, total)}
}

// Event names.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload of the order events.
type OrderEvent struct {
	OrderID       string               `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	UserID        uint                 `json:"user_id"`
	OrderStatus   models.OrderStatus   `json:"order_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Total         string               `json:"total"`
}

func orderEvent(o models.Order) OrderEvent {
	return OrderEvent{
		OrderID:       o.ID.Hex(),
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		Total:         o.TotalAmount.StringFixed(2),
	}
}
