package repository

import (
	"context"
	"fmt"

	"github.com/diewo77/go-profiles/internal/models"
	"gorm.io/gorm"
)

// LookupEntity is a flat lookup table model.
type LookupEntity interface {
	models.UserType | models.UserRole
}

// LookupRepository defines CRUD for a lookup table.
type LookupRepository[T LookupEntity] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	// CountByIDs returns how many of ids exist.
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	// Delete detaches the row from profiles and removes it.
	Delete(ctx context.Context, id uint) error
}

type lookupRepository[T LookupEntity] struct {
	db     *gorm.DB
	detach func(db *gorm.DB, id uint) error
}

func NewLookupRepository[T LookupEntity](db *gorm.DB, detach func(db *gorm.DB, id uint) error) LookupRepository[T] {
	return &lookupRepository[T]{db: db, detach: detach}
}

func (r *lookupRepository[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %T: %w", *new(T), err)
	}
	return items, nil
}

func (r *lookupRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find %T by id %d: %w", item, id, err)
	}
	return &item, nil
}

func (r *lookupRepository[T]) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %T: %w", *new(T), err)
	}
	return count, nil
}

func (r *lookupRepository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create %T: %w", *item, err)
	}
	return nil
}

func (r *lookupRepository[T]) Update(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update %T: %w", *item, err)
	}
	return nil
}

func (r *lookupRepository[T]) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if r.detach != nil {
		if err := r.detach(db, id); err != nil {
			return err
		}
	}
	res := db.Delete(new(T), id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %T id %d: %w", *new(T), id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete %T id %d: %w", *new(T), id, gorm.ErrRecordNotFound)
	}
	return nil
}

func detachUserType(db *gorm.DB, id uint) error {
	err := db.Model(&models.Profile{}).Where("user_type_id = ?", id).Update("user_type_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to detach user type %d: %w", id, err)
	}
	return nil
}

func detachUserRole(db *gorm.DB, id uint) error {
	err := db.Where("user_role_id = ?", id).Delete(&models.ProfileUserRole{}).Error
	if err != nil {
		return fmt.Errorf("failed to detach user role %d: %w", id, err)
	}
	return nil
}
