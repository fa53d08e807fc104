package controllers

import (
	"context"

	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Carts interface {
	View(ctx context.Context, userID uint) (services.CartView, error)
	AddItem(ctx context.Context, userID uint, productID primitive.ObjectID, variantID string, qty int) (services.CartView, error)
	RemoveItem(ctx context.Context, userID uint, productID primitive.ObjectID, variantID string) (bool, error)
	Clear(ctx context.Context, userID uint) error
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,objectid"`
	VariantID string `json:"variant_id" validate:"max=64"`
	Quantity  int    `json:"quantity"   validate:"gte=1,lte=1000"`
}

type CartController struct {
	carts Carts
}

func NewCartController(carts Carts) *CartController {
	return &CartController{carts: carts}
}

// Show handles GET /api/cart. Prices are live; see CartView.PricedAt.
func (h *CartController) Show(c *ctx.Context) {
	view, err := h.carts.View(c.Context(), c.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(view)
}

// Add handles POST /api/cart/add. A missing quantity means one.
func (h *CartController) Add(c *ctx.Context) {
	in := AddToCartRequest{Quantity: 1}
	if !c.BindJSON(&in) {
		return
	}

	view, err := h.carts.AddItem(c.Context(), c.UserID(), mustObjectID(in.ProductID), in.VariantID, in.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Item added to cart", view)
}

// Remove handles DELETE /api/cart/remove/{product_id}?variant_id=.
func (h *CartController) Remove(c *ctx.Context) {
	productID, ok := objectIDParam(c, "product_id", services.ErrCartItemNotFound)
	if !ok {
		return
	}

	removed, err := h.carts.RemoveItem(c.Context(), c.UserID(), productID, c.Query("variant_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		respondError(c, services.ErrCartItemNotFound)
		return
	}
	c.Message("Item removed from cart", map[string]bool{"success": true})
}

// Clear handles POST /api/cart/clear.
func (h *CartController) Clear(c *ctx.Context) {
	if err := h.carts.Clear(c.Context(), c.UserID()); err != nil {
		respondError(c, err)
		return
	}
	c.Message("Cart cleared", map[string]bool{"success": true})
}
