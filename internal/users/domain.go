package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is a user identity record. The password hash never leaves the
// service in any outward representation.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SetPassword replaces the stored hash with a salted bcrypt hash of plain.
func (a *Account) SetPassword(plain string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// PasswordMatches reports whether plain matches the stored hash.
func (a *Account) PasswordMatches(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plain)) == nil
}

// CreateAccountRequest is the registration payload.
type CreateAccountRequest struct {
	Username  string `json:"username" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
}
