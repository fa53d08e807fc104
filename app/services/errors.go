package services

import (
	"errors"
	"fmt"
)

// Validation failures (400).
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("quantity must be between 1 and 1000 per line")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrDuplicateReview   = errors.New("you have already reviewed this product")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrInvalidStatus     = errors.New("unknown status")
	ErrInvalidVariant    = errors.New("product has no such variant")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmailTaken        = errors.New("email already exists")
)

// Missing resources (404).
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrAddressNotFound  = errors.New("address not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
)

var (
	ErrForbidden          = errors.New("you do not have access to this resource")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict is returned when a unique order number could not be
	// generated.
	ErrConflict = errors.New("could not allocate a unique order number")
)

// TransitionError describes a rejected status change.
type TransitionError struct {
	Field string
	From  string
	To    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s cannot change from %q to %q", e.Field, e.From, e.To)
}

// Is makes errors.Is(err, ErrInvalidTransition) hold for every
// *TransitionError.
func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }
