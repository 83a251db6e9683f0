package domain

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 6
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// User represents a registered user of the application.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate checks email syntax, a non-empty name and the minimum password length.
func (in RegisterInput) Validate() error {
	v := &ValidationError{}
	validateEmail(v, in.Email)
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "must not be empty")
	}
	switch {
	case utf8.RuneCountInString(in.Password) < MinPasswordLength:
		v.Add("password", "must be at least 6 characters")
	case len(in.Password) > MaxPasswordBytes:
		v.Add("password", "must be at most 72 bytes")
	}
	return v.Err()
}

// LoginInput is the payload for exchanging credentials for a token.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	v := &ValidationError{}
	validateEmail(v, in.Email)
	if in.Password == "" {
		v.Add("password", "must not be empty")
	}
	return v.Err()
}

// validateEmail accepts a bare address only; display-name forms such as
// "A <a@x.com>" are rejected.
func validateEmail(v *ValidationError, email string) {
	if email == "" {
		v.Add("email", "must not be empty")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address, "@") {
		v.Add("email", "must be a valid email address")
	}
}
