package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
	"github.com/shashiranjanraj/honeyshop/pkg/auth"
)

// Registration is the input of Register.
type Registration struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// ProfileUpdate holds optional profile fields; nil fields are left as is.
type ProfileUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID uint, role string) (string, error)
}

type AccountService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewAccountService(users UserStore, tokens TokenIssuer) *AccountService {
	return &AccountService{users: users, tokens: tokens}
}

// Register creates a member account.
func (s *AccountService) Register(ctx context.Context, in Registration) (models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, err
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    hash,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		Role:        models.RoleMember,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// unique index caught a concurrent registration
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns a signed token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, models.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repositories.ErrNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", models.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Profile returns the user's account.
func (s *AccountService) Profile(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile applies the non-nil fields of in.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if other, err := s.users.FindByEmail(ctx, email); err == nil && other.ID != user.ID {
				return models.User{}, ErrEmailTaken
			} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return models.User{}, err
			}
			user.Email = email
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = *in.PhoneNumber
	}

	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
