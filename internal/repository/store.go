// Package repository provides the data access layer over gorm.
package repository

import (
	"context"
	"errors"

	"github.com/diewo77/go-profiles/internal/models"
	"gorm.io/gorm"
)

// IsNotFound reports whether err wraps gorm.ErrRecordNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Store hands out repositories bound to one database handle, which is either the pool or an
// open transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Accounts() AccountRepository { return NewAccountRepository(s.db) }

func (s *Store) Profiles() ProfileRepository { return NewProfileRepository(s.db) }

func (s *Store) UserTypes() LookupRepository[models.UserType] {
	return NewLookupRepository[models.UserType](s.db, detachUserType)
}

func (s *Store) UserRoles() LookupRepository[models.UserRole] {
	return NewLookupRepository[models.UserRole](s.db, detachUserRole)
}

// Transaction runs fn with a Store bound to a single transaction. Any error rolls back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
