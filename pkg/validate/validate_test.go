package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/honeyshop/pkg/validate"
	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestRegisterInput(t *testing.T) {
	errs := validate.Struct(registerInput{Username: "bee_keeper", Email: "bee@hive.io", Password: "pollen123"})
	assert.False(t, validate.HasErrors(errs), errs)

	errs = validate.Struct(&registerInput{Username: "b!", Email: "nope", Password: "short"})
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	errs = validate.Struct(registerInput{})
	assert.Equal(t, "The username field is required.", errs["username"])
}

func TestRatingAndStatusRules(t *testing.T) {
	type in struct {
		Rating int    `json:"rating" validate:"required,between=1,5"`
		Status string `json:"status" validate:"required,in=active,inactive"`
	}
	assert.Empty(t, validate.Struct(in{Rating: 5, Status: "inactive"}))

	errs := validate.Struct(in{Rating: 6, Status: "archived"})
	assert.Contains(t, errs, "rating")
	assert.Equal(t, "The selected status is invalid.", errs["status"])
}

func TestDomainRules(t *testing.T) {
	type in struct {
		ProductID string `json:"product_id" validate:"required,objectid"`
		Price     string `json:"price"      validate:"required,decimal"`
	}
	assert.Empty(t, validate.Struct(in{ProductID: "65a1f0c2e4b0a1b2c3d4e5f6", Price: "12.50"}))

	errs := validate.Struct(in{ProductID: "42", Price: "12,50"})
	assert.Contains(t, errs, "product_id")
	assert.Contains(t, errs, "price")
}

func TestPointerFields(t *testing.T) {
	type patch struct {
		City     *string `json:"city"     validate:"nullable,max=5"`
		Quantity *int    `json:"quantity" validate:"required,gte=1"`
	}
	long, one, zero := "Asheville", 1, 0

	assert.Empty(t, validate.Struct(patch{Quantity: &one}))
	assert.Contains(t, validate.Struct(patch{City: &long, Quantity: &one}), "city")
	assert.Contains(t, validate.Struct(patch{}), "quantity")
	assert.Contains(t, validate.Struct(patch{Quantity: &zero}), "quantity")
}
