package controllers

import (
	"context"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
)

// Accounts is the part of services.AccountService the controller uses.
type Accounts interface {
	Register(ctx context.Context, in services.Registration) (models.User, error)
	Login(ctx context.Context, username, password string) (string, models.User, error)
	Profile(ctx context.Context, userID uint) (models.User, error)
	UpdateProfile(ctx context.Context, userID uint, in services.ProfileUpdate) (models.User, error)
}

type RegisterRequest struct {
	Username    string `json:"username"     validate:"required,alpha_dash,max=150"`
	Email       string `json:"email"        validate:"required,email,max=255"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
	FirstName   string `json:"first_name"   validate:"max=150"`
	LastName    string `json:"last_name"    validate:"max=150"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileRequest struct {
	Email       *string `json:"email"        validate:"nullable,email,max=255"`
	FirstName   *string `json:"first_name"   validate:"nullable,max=150"`
	LastName    *string `json:"last_name"    validate:"nullable,max=150"`
	PhoneNumber *string `json:"phone_number" validate:"nullable,max=20"`
}

type AccountController struct {
	accounts Accounts
}

func NewAccountController(accounts Accounts) *AccountController {
	return &AccountController{accounts: accounts}
}

// Register handles POST /api/auth/register.
func (h *AccountController) Register(c *ctx.Context) {
	var in RegisterRequest
	if !c.BindJSON(&in) {
		return
	}

	user, err := h.accounts.Register(c.Context(), services.Registration{
		Username:    in.Username,
		Email:       in.Email,
		Password:    in.Password,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(user)
}

// Login handles POST /api/auth/login.
func (h *AccountController) Login(c *ctx.Context) {
	var in LoginRequest
	if !c.BindJSON(&in) {
		return
	}

	token, user, err := h.accounts.Login(c.Context(), in.Username, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Login successful", map[string]interface{}{"token": token, "user": user})
}

// Logout handles POST /api/auth/logout. Tokens are stateless; the client
// drops its copy.
func (h *AccountController) Logout(c *ctx.Context) {
	c.Message("Logout successful", nil)
}

// Profile handles GET /api/profile.
func (h *AccountController) Profile(c *ctx.Context) {
	user, err := h.accounts.Profile(c.Context(), c.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(user)
}

// UpdateProfile handles PUT /api/profile.
func (h *AccountController) UpdateProfile(c *ctx.Context) {
	var in ProfileRequest
	if !c.BindJSON(&in) {
		return
	}

	user, err := h.accounts.UpdateProfile(c.Context(), c.UserID(), services.ProfileUpdate{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Message("Profile updated", user)
}
