package services

import (
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is a cart item priced at the product's current price.
type CartLine struct {
	ProductID    primitive.ObjectID `json:"product_id"`
	ProductTitle string             `json:"product_title"`
	ProductSlug  string             `json:"product_slug"`
	VariantID    string             `json:"variant_id,omitempty"`
	Quantity     int                `json:"quantity"`
	UnitPrice    decimal.Decimal    `json:"unit_price"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	// Available is false once the product has been deactivated; such a
	// line blocks checkout until it is removed.
	Available bool `json:"available"`
}

// CartView is the priced representation of a cart. Prices are live, not
// locked; PricedAt records when they were read.
type CartView struct {
	Items     []CartLine      `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	PricedAt  time.Time       `json:"priced_at"`
}

// Pricer applies flat shipping and tax on top of the line subtotals.
type Pricer struct {
	Shipping decimal.Decimal
	Tax      decimal.Decimal
}

// Price values items against products. Items whose product is missing are
// skipped.
func (p Pricer) Price(items []models.CartItem, products map[primitive.ObjectID]models.Product, at time.Time) CartView {
	view := CartView{Items: make([]CartLine, 0, len(items)), PricedAt: at}
	subtotal := decimal.Zero

	for _, it := range items {
		prod, ok := products[it.ProductID]
		if !ok {
			continue
		}
		line := prod.Price.Mul(decimalInt(it.Quantity))
		subtotal = subtotal.Add(line)
		view.ItemCount += it.Quantity
		view.Items = append(view.Items, CartLine{
			ProductID:    it.ProductID,
			ProductTitle: prod.Title,
			ProductSlug:  prod.Slug,
			VariantID:    it.VariantID,
			Quantity:     it.Quantity,
			UnitPrice:    prod.Price.Round(2),
			Subtotal:     line.Round(2),
			Available:    prod.Active(),
		})
	}

	view.Subtotal = subtotal.Round(2)
	view.Shipping = p.Shipping.Round(2)
	view.Tax = p.Tax.Round(2)
	view.Total = subtotal.Add(p.Shipping).Add(p.Tax).Round(2)
	return view
}

// Totals returns the order amounts for an already priced set of order items.
func (p Pricer) Totals(items []models.OrderItem) (subtotal, shipping, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	return subtotal.Round(2), p.Shipping.Round(2), p.Tax.Round(2), subtotal.Add(p.Shipping).Add(p.Tax).Round(2)
}

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
