package repository

import (
	"context"
	"fmt"

	"github.com/diewo77/go-profiles/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines profile persistence. Reads preload the account, type and roles.
type ProfileRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Profile, error)
	FindByAccountID(ctx context.Context, accountID uint) (*models.Profile, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int) ([]models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	// ReplaceRoles makes roleIDs the exact role set of the profile.
	ReplaceRoles(ctx context.Context, profileID uint, roleIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Account").
		Preload("UserType").
		Preload("UserRoles", func(db *gorm.DB) *gorm.DB { return db.Order("user_roles.id") })
}

func (r *profileRepository) FindByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.preloaded(ctx).First(&profile, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find profile by id %d: %w", id, err)
	}
	return &profile, nil
}

func (r *profileRepository) FindByAccountID(ctx context.Context, accountID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.preloaded(ctx).Where("account_id = ?", accountID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to find profile for account %d: %w", accountID, err)
	}
	return &profile, nil
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

func (r *profileRepository) List(ctx context.Context, offset, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.preloaded(ctx).Order("profiles.id").Offset(offset).Limit(limit).Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update profile id %d: %w", profile.ID, err)
	}
	return nil
}

func (r *profileRepository) ReplaceRoles(ctx context.Context, profileID uint, roleIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("profile_id = ?", profileID).Delete(&models.ProfileUserRole{}).Error; err != nil {
		return fmt.Errorf("failed to clear roles of profile %d: %w", profileID, err)
	}
	if len(roleIDs) == 0 {
		return nil
	}
	rows := make([]models.ProfileUserRole, len(roleIDs))
	for i, id := range roleIDs {
		rows[i] = models.ProfileUserRole{ProfileID: profileID, UserRoleID: id}
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to set roles of profile %d: %w", profileID, err)
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("profile_id = ?", id).Delete(&models.ProfileUserRole{}).Error; err != nil {
		return fmt.Errorf("failed to clear roles of profile %d: %w", id, err)
	}
	if err := db.Delete(&models.Profile{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete profile id %d: %w", id, err)
	}
	return nil
}
