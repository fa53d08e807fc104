package repositories

import (
	"context"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	q *orm.Query
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{q: orm.New(db)}
}

func (r *UserRepository) first(ctx context.Context, column string, value interface{}) (models.User, error) {
	var user models.User
	err := r.q.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value).First(&user)
	return user, translate(err)
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	return r.first(ctx, "id", id)
}

// FindByUsername looks up a user by login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.first(ctx, "username", username)
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.first(ctx, "email", email)
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.q.WithContext(ctx).Create(user))
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return translate(r.q.WithContext(ctx).Save(user))
}

// All returns one page of users.
func (r *UserRepository) All(ctx context.Context, page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	p, err := r.q.WithContext(ctx).Model(&models.User{}).Order("id asc").GetWithPagination(&users, page, limit)
	return users, p, err
}
