package models

import "time"

// Lookup holds the columns shared by the flat lookup tables.
type Lookup struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (l *Lookup) Base() *Lookup { return l }

// UserType is the single classification attached to a profile.
type UserType struct {
	Lookup
}

// UserRole is a tag attached to profiles through profile_user_roles.
type UserRole struct {
	Lookup
}
