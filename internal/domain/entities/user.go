package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleBuyer    UserRole = "buyer"
	UserRoleMerchant UserRole = "merchant"
)

// Valid reports whether the role is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleBuyer, UserRoleMerchant:
		return true
	}
	return false
}

// User represents a marketplace account. PasswordHash is opaque and
// never serialized; IsActive flips to true only after email
// verification.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	PasswordHash string      `json:"-"`
	Role         UserRole    `json:"role"`
	IsActive     bool        `json:"is_active"`
	Address      null.String `json:"address,omitempty"`
	City         null.String `json:"city,omitempty"`
	Country      null.String `json:"country,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// SignupInput represents input for account creation
type SignupInput struct {
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,min=7,max=20"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,min=1,max=50"`
	LastName  string `json:"last_name" binding:"required,min=1,max=50"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// LoginInput represents input for user login. The account email may
// arrive under either field name; username is an accepted alias.
type LoginInput struct {
	Email    string `json:"email" binding:"required_without=Username,omitempty,email"`
	Username string `json:"username" binding:"required_without=Email,omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// Identifier returns the submitted email regardless of which field
// carried it.
func (in *LoginInput) Identifier() string {
	if in.Email != "" {
		return in.Email
	}
	return in.Username
}

// RefreshInput carries a refresh token
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordInput starts a password reset
type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput finalizes a password reset
type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// TokenResponse is the login/refresh response body
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
