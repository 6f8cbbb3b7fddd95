package types

import (
	"time"

	"github.com/tkbshop/storefront/pkg/enums"
)

// User is the profile snapshot returned by the auth endpoints.
type User struct {
	ID        string         `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	Phone     string         `json:"phone,omitempty"`
	Address   string         `json:"address,omitempty"`
	Avatar    string         `json:"avatar,omitempty"`
	JoinDate  time.Time      `json:"joinDate"`
	IsActive  bool           `json:"isActive"`
}

// FullName joins the first and last name for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// IsAdmin reports whether the user may reach the admin surface.
func (u User) IsAdmin() bool {
	return u.Role == enums.UserRoleAdmin
}

// Credentials carries a login request.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,min=6"`
	Address   string `json:"address,omitempty"`
}

// ProfileUpdate carries a partial profile mutation; nil fields are untouched.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

// TokenResponse is the payload returned by login and register.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
