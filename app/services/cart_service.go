package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
	"github.com/shashiranjanraj/honeyshop/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxLineQuantity caps the units held on a single cart line.
const MaxLineQuantity = 1000

// AbandonedCartAge is how long an empty cart is kept before housekeeping
// deletes it.
const AbandonedCartAge = 30 * 24 * time.Hour

// CartService owns the per-user cart. Mutations are whole-document
// read-modify-write without locking, so concurrent writes for one user are
// last-write-wins.
type CartService struct {
	carts    CartStore
	products ProductStore
	pricer   Pricer
	now      func() time.Time
}

func NewCartService(carts CartStore, products ProductStore, pricer Pricer) *CartService {
	return &CartService{carts: carts, products: products, pricer: pricer, now: time.Now}
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (s *CartService) GetOrCreate(ctx context.Context, userID uint) (models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return models.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	now := s.now().UTC()
	cart = models.Cart{UserID: userID, Items: []models.CartItem{}, CreatedAt: now, UpdatedAt: now}
	switch err := s.carts.Create(ctx, &cart); {
	case err == nil:
		return cart, nil
	case errors.Is(err, repositories.ErrDuplicate):
		// lost the race with a concurrent create
		return s.carts.FindByUser(ctx, userID)
	default:
		return models.Cart{}, fmt.Errorf("create cart: %w", err)
	}
}

// AddItem adds qty units of the product/variant, merging into an existing
// line with the same key.
func (s *CartService) AddItem(ctx context.Context, userID uint, productID primitive.ObjectID, variantID string, qty int) (CartView, error) {
	if qty < 1 || qty > MaxLineQuantity {
		return CartView{}, ErrInvalidQuantity
	}
	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && !product.Active()) {
		return CartView{}, ErrProductNotFound
	}
	if err != nil {
		return CartView{}, fmt.Errorf("load product: %w", err)
	}
	if variantID != "" && !product.HasVariant(variantID) {
		return CartView{}, ErrInvalidVariant
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return CartView{}, err
	}

	items, err := mergeItem(cart.Items, models.CartItem{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  qty,
		AddedAt:   s.now().UTC(),
	})
	if err != nil {
		return CartView{}, err
	}
	cart.Items = items
	if err := s.carts.SaveItems(ctx, userID, cart.Items); err != nil {
		return CartView{}, fmt.Errorf("save cart: %w", err)
	}
	metrics.CartItemsAdded.Add(float64(qty))
	return s.price(ctx, cart.Items)
}

// mergeItem folds add into the line with the same key. The merged quantity
// may not exceed MaxLineQuantity.
func mergeItem(items []models.CartItem, add models.CartItem) ([]models.CartItem, error) {
	for i := range items {
		if items[i].Same(add.ProductID, add.VariantID) {
			if add.Quantity > MaxLineQuantity-items[i].Quantity {
				return nil, ErrInvalidQuantity
			}
			items[i].Quantity += add.Quantity
			return items, nil
		}
	}
	return append(items, add), nil
}

// RemoveItem drops the line for the product/variant and reports whether one
// was present.
func (s *CartService) RemoveItem(ctx context.Context, userID uint, productID primitive.ObjectID, variantID string) (bool, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		if !it.Same(productID, variantID) {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(cart.Items) {
		return false, nil
	}
	if err := s.carts.SaveItems(ctx, userID, kept); err != nil {
		return false, fmt.Errorf("save cart: %w", err)
	}
	return true, nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	if err := s.carts.SaveItems(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// View prices the user's cart at current product prices.
func (s *CartService) View(ctx context.Context, userID uint) (CartView, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	return s.price(ctx, cart.Items)
}

func (s *CartService) price(ctx context.Context, items []models.CartItem) (CartView, error) {
	products, err := s.products.FindMany(ctx, productIDs(items))
	if err != nil {
		return CartView{}, fmt.Errorf("load products: %w", err)
	}
	return s.pricer.Price(items, products, s.now().UTC()), nil
}

// PurgeAbandoned deletes empty carts untouched for AbandonedCartAge.
func (s *CartService) PurgeAbandoned(ctx context.Context) (int64, error) {
	return s.carts.PurgeEmpty(ctx, s.now().UTC().Add(-AbandonedCartAge))
}

func productIDs(items []models.CartItem) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(items))
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}
