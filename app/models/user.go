package models

import "gorm.io/gorm"

// Roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// DefaultCountry is stored when an address is created without a country.
const DefaultCountry = "United States"

// User is the account record kept in the relational store.
type User struct {
	gorm.Model
	Username    string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string    `gorm:"size:255;not null"             json:"-"` // bcrypt hash
	FirstName   string    `gorm:"size:150"                      json:"first_name"`
	LastName    string    `gorm:"size:150"                      json:"last_name"`
	PhoneNumber string    `gorm:"size:20"                       json:"phone_number"`
	Role        string    `gorm:"size:20;default:member"        json:"role"`
	Addresses   []Address `gorm:"constraint:OnDelete:CASCADE"   json:"-"`
}

// IsAdmin reports whether the user may use admin endpoints.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Address is a shipping address in a user's address book.
type Address struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index"                 json:"user_id"`
	Name       string `gorm:"size:100;not null"              json:"name"`
	Address    string `gorm:"type:text;not null"             json:"address"`
	City       string `gorm:"size:100;not null"              json:"city"`
	State      string `gorm:"size:100"                       json:"state"`
	Country    string `gorm:"size:100;default:'United States'" json:"country"`
	PostalCode string `gorm:"size:20;not null"               json:"postal_code"`
	IsDefault  bool   `gorm:"not null;default:false"         json:"is_default"`
}
