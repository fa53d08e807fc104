package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
)

// AddressInput carries address fields; nil pointers are left unchanged on
// update and defaulted on create.
type AddressInput struct {
	Name       *string
	Address    *string
	City       *string
	State      *string
	Country    *string
	PostalCode *string
	IsDefault  *bool
}

// AddressService manages a user's address book. A user has at most one
// default address.
type AddressService struct {
	addresses AddressStore
}

func NewAddressService(addresses AddressStore) *AddressService {
	return &AddressService{addresses: addresses}
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	list, err := s.addresses.List(ctx, userID)
	if list == nil {
		list = []models.Address{}
	}
	return list, err
}

func (s *AddressService) Get(ctx context.Context, userID, id uint) (models.Address, error) {
	a, err := s.addresses.Find(ctx, userID, id)
	return a, s.wrap(err)
}

func (s *AddressService) Create(ctx context.Context, userID uint, in AddressInput) (models.Address, error) {
	a := models.Address{
		UserID:     userID,
		Name:       deref(in.Name),
		Address:    deref(in.Address),
		City:       deref(in.City),
		State:      deref(in.State),
		Country:    strings.TrimSpace(deref(in.Country)),
		PostalCode: deref(in.PostalCode),
		IsDefault:  in.IsDefault != nil && *in.IsDefault,
	}
	if err := s.addresses.Create(ctx, &a); err != nil {
		return models.Address{}, fmt.Errorf("create address: %w", err)
	}
	return a, nil
}

// Update applies the non-nil fields of in.
func (s *AddressService) Update(ctx context.Context, userID, id uint, in AddressInput) (models.Address, error) {
	fields := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	set("name", in.Name)
	set("address", in.Address)
	set("city", in.City)
	set("state", in.State)
	set("country", in.Country)
	set("postal_code", in.PostalCode)
	if in.IsDefault != nil {
		fields["is_default"] = *in.IsDefault
	}

	a, err := s.addresses.Update(ctx, userID, id, fields)
	return a, s.wrap(err)
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id uint) error {
	return s.wrap(s.addresses.SetDefault(ctx, userID, id))
}

func (s *AddressService) Delete(ctx context.Context, userID, id uint) error {
	return s.wrap(s.addresses.Delete(ctx, userID, id))
}

func (s *AddressService) wrap(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrAddressNotFound
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
