package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderItem is a priced copy of a cart line taken at checkout.
type OrderItem struct {
	ProductID    primitive.ObjectID `bson:"product_id"           json:"product_id"`
	ProductTitle string             `bson:"product_title"        json:"product_title"`
	VariantID    string             `bson:"variant_id,omitempty" json:"variant_id,omitempty"`
	Quantity     int                `bson:"quantity"             json:"quantity"`
	UnitPrice    decimal.Decimal    `bson:"unit_price"           json:"unit_price"`
	Subtotal     decimal.Decimal    `bson:"subtotal"             json:"subtotal"`
}

// AddressSnapshot freezes the shipping address at order time.
type AddressSnapshot struct {
	Name       string `bson:"name"        json:"name"`
	Address    string `bson:"address"     json:"address"`
	City       string `bson:"city"        json:"city"`
	State      string `bson:"state"       json:"state"`
	Country    string `bson:"country"     json:"country"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
}

// SnapshotOf copies the shipping fields of a.
func SnapshotOf(a Address) *AddressSnapshot {
	return &AddressSnapshot{
		Name:       a.Name,
		Address:    a.Address,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

// Order is immutable after creation except for its two status fields and
// the transaction reference.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"           json:"id"`
	UserID         uint               `bson:"user_id"                 json:"user_id"`
	OrderNumber    string             `bson:"order_number"            json:"order_number"`
	Items          []OrderItem        `bson:"items"                   json:"items"`
	Subtotal       decimal.Decimal    `bson:"subtotal"                json:"subtotal"`
	Shipping       decimal.Decimal    `bson:"shipping"                json:"shipping"`
	Tax            decimal.Decimal    `bson:"tax"                     json:"tax"`
	TotalAmount    decimal.Decimal    `bson:"total_amount"            json:"total_amount"`
	PaymentStatus  PaymentStatus      `bson:"payment_status"          json:"payment_status"`
	OrderStatus    OrderStatus        `bson:"order_status"            json:"order_status"`
	TransactionRef string             `bson:"transaction_ref"         json:"transaction_ref"`
	Description    string             `bson:"description"             json:"description"`
	Address        *AddressSnapshot   `bson:"address,omitempty"       json:"address,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"              json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"              json:"updated_at"`
}
