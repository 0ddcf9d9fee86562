package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is the authentication identity behind a profile.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string    `gorm:"size:254;not null;default:''" json:"email"`
	FirstName    string    `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName     string    `gorm:"size:150;not null;default:''" json:"last_name"`
	PasswordHash string    `gorm:"size:255;not null;default:''" json:"-"` // empty: login disabled
}

// SetPassword stores the bcrypt hash of plain.
func (a *Account) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash. Accounts without a password
// never match.
func (a *Account) CheckPassword(plain string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plain)) == nil
}

// AuthToken is the single bearer token of an account.
type AuthToken struct {
	Key       string    `gorm:"primaryKey;size:40"`
	AccountID uint      `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}
