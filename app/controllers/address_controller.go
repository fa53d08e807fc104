package controllers

import (
	"context"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
)

type Addresses interface {
	List(ctx context.Context, userID uint) ([]models.Address, error)
	Create(ctx context.Context, userID uint, in services.AddressInput) (models.Address, error)
	Update(ctx context.Context, userID, id uint, in services.AddressInput) (models.Address, error)
	Delete(ctx context.Context, userID, id uint) error
}

type AddressRequest struct {
	Name       *string `json:"name"        validate:"required,max=100"`
	Address    *string `json:"address"     validate:"required"`
	City       *string `json:"city"        validate:"required,max=100"`
	State      *string `json:"state"       validate:"nullable,max=100"`
	Country    *string `json:"country"     validate:"nullable,max=100"`
	PostalCode *string `json:"postal_code" validate:"required,max=20"`
	IsDefault  *bool   `json:"is_default"`
}

// AddressPatch is AddressRequest with every field optional.
type AddressPatch struct {
	Name       *string `json:"name"        validate:"nullable,max=100"`
	Address    *string `json:"address"`
	City       *string `json:"city"        validate:"nullable,max=100"`
	State      *string `json:"state"       validate:"nullable,max=100"`
	Country    *string `json:"country"     validate:"nullable,max=100"`
	PostalCode *string `json:"postal_code" validate:"nullable,max=20"`
	IsDefault  *bool   `json:"is_default"`
}

type AddressController struct {
	addresses Addresses
}

func NewAddressController(addresses Addresses) *AddressController {
	return &AddressController{addresses: addresses}
}

func (h *AddressController) Index(c *ctx.Context) {
	list, err := h.addresses.List(c.Context(), c.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(list)
}

func (h *AddressController) Store(c *ctx.Context) {
	var in AddressRequest
	if !c.BindJSON(&in) {
		return
	}

	addr, err := h.addresses.Create(c.Context(), c.UserID(), services.AddressInput(in))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(addr)
}

func (h *AddressController) Update(c *ctx.Context) {
	id, ok := uintParam(c, "id", services.ErrAddressNotFound)
	if !ok {
		return
	}
	var in AddressPatch
	if !c.BindJSON(&in) {
		return
	}

	addr, err := h.addresses.Update(c.Context(), c.UserID(), id, services.AddressInput(in))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Address updated", addr)
}

func (h *AddressController) Destroy(c *ctx.Context) {
	id, ok := uintParam(c, "id", services.ErrAddressNotFound)
	if !ok {
		return
	}
	if err := h.addresses.Delete(c.Context(), c.UserID(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Message("Address deleted", nil)
}
