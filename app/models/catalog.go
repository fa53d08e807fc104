package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product statuses.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// Category groups products; categories form an unbounded tree via ParentID.
type Category struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"       json:"id"`
	Name        string              `bson:"name"                json:"name"`
	Slug        string              `bson:"slug"                json:"slug"`
	Description string              `bson:"description"         json:"description"`
	ParentID    *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"          json:"created_at"`
}

// Variant is a selectable option of a product (size, flavour). It carries no
// price of its own.
type Variant struct {
	ID   string `bson:"id"   json:"id"`
	Name string `bson:"name" json:"name"`
}

// Product is a catalog entry. Slug is assigned once at creation.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title"         json:"title"`
	Slug        string             `bson:"slug"          json:"slug"`
	CategoryID  primitive.ObjectID `bson:"category_id"   json:"category_id"`
	Price       decimal.Decimal    `bson:"price"         json:"price"`
	Description string             `bson:"description"   json:"description"`
	Variants    []Variant          `bson:"variants"      json:"variants"`
	Images      []string           `bson:"images"        json:"images"`
	Status      string             `bson:"status"        json:"status"`
	CreatedAt   time.Time          `bson:"created_at"    json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"    json:"updated_at"`
}

// Active reports whether the product can be added to a cart.
func (p Product) Active() bool { return p.Status == ProductActive }

// HasVariant reports whether id names one of the product's variants.
func (p Product) HasVariant(id string) bool {
	for _, v := range p.Variants {
		if v.ID == id {
			return true
		}
	}
	return false
}
