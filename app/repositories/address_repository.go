package repositories

import (
	"context"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"gorm.io/gorm"
)

// AddressRepository stores address-book entries. Every write that sets
// is_default clears the owner's other defaults in the same transaction.
type AddressRepository struct {
	q *orm.Query
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{q: orm.New(db)}
}

// List returns the user's addresses, default first.
func (r *AddressRepository) List(ctx context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	err := r.q.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ?", userID).
		Order("is_default desc").Order("id asc").
		Get(&out)
	return out, err
}

// Find returns the address only if it belongs to userID.
func (r *AddressRepository) Find(ctx context.Context, userID, id uint) (models.Address, error) {
	var a models.Address
	err := r.q.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&a)
	return a, translate(err)
}

// Create inserts a, unsetting any previous default when a.IsDefault is set.
func (r *AddressRepository) Create(ctx context.Context, a *models.Address) error {
	if a.Country == "" {
		a.Country = models.DefaultCountry
	}
	return r.q.WithContext(ctx).Tx(func(tx *orm.Query) error {
		if a.IsDefault {
			if err := clearDefault(tx, a.UserID, 0); err != nil {
				return err
			}
		}
		return translate(tx.Create(a))
	})
}

// Update applies fields to the user's address. Setting is_default=true
// clears the other defaults first.
func (r *AddressRepository) Update(ctx context.Context, userID, id uint, fields map[string]interface{}) (models.Address, error) {
	var out models.Address
	err := r.q.WithContext(ctx).Tx(func(tx *orm.Query) error {
		if err := tx.Model(&models.Address{}).Where("id = ? AND user_id = ?", id, userID).First(&out); err != nil {
			return translate(err)
		}
		if def, ok := fields["is_default"].(bool); ok && def {
			if err := clearDefault(tx, userID, id); err != nil {
				return err
			}
		}
		if len(fields) > 0 {
			if _, err := tx.Model(&out).Updates(fields); err != nil {
				return err
			}
		}
		return tx.Model(&models.Address{}).Where("id = ?", id).First(&out)
	})
	return out, err
}

// SetDefault makes id the user's only default address.
func (r *AddressRepository) SetDefault(ctx context.Context, userID, id uint) error {
	_, err := r.Update(ctx, userID, id, map[string]interface{}{"is_default": true})
	return err
}

// Delete removes the user's address.
func (r *AddressRepository) Delete(ctx context.Context, userID, id uint) error {
	n, err := r.q.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func clearDefault(tx *orm.Query, userID, except uint) error {
	_, err := tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ? AND id <> ?", userID, true, except).
		Updates(map[string]interface{}{"is_default": false})
	return err
}
