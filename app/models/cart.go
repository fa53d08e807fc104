package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a cart. Lines are keyed by (ProductID, VariantID).
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id"           json:"product_id"`
	VariantID string             `bson:"variant_id,omitempty" json:"variant_id,omitempty"`
	Quantity  int                `bson:"quantity"             json:"quantity"`
	AddedAt   time.Time          `bson:"added_at"             json:"added_at"`
}

// Same reports whether the line matches the given key.
func (i CartItem) Same(productID primitive.ObjectID, variantID string) bool {
	return i.ProductID == productID && i.VariantID == variantID
}

// Cart is the single cart owned by a user.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    uint               `bson:"user_id"       json:"user_id"`
	Items     []CartItem         `bson:"items"         json:"items"`
	CreatedAt time.Time          `bson:"created_at"    json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"    json:"updated_at"`
}
