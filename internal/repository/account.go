package repository

import (
	"context"
	"fmt"

	"github.com/diewo77/go-profiles/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines account and token persistence.
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error

	FindToken(ctx context.Context, key string) (*models.AuthToken, error)
	TokenForAccount(ctx context.Context, accountID uint) (*models.AuthToken, error)
	// GetOrCreateToken returns the existing token or stores newKey as the account's token.
	GetOrCreateToken(ctx context.Context, accountID uint, newKey string) (*models.AuthToken, error)
	DeleteTokens(ctx context.Context, accountID uint) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find account by id %d: %w", id, err)
	}
	return &account, nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find account by username %s: %w", username, err)
	}
	return &account, nil
}

func (r *accountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count accounts by username %s: %w", username, err)
	}
	return count > 0, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("failed to update account id %d: %w", account.ID, err)
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Account{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete account id %d: %w", id, err)
	}
	return nil
}

func (r *accountRepository) FindToken(ctx context.Context, key string) (*models.AuthToken, error) {
	if key == "" {
		return nil, fmt.Errorf("failed to find token: %w", gorm.ErrRecordNotFound)
	}
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where(&models.AuthToken{Key: key}).First(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return &token, nil
}

func (r *accountRepository) TokenForAccount(ctx context.Context, accountID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to find token for account %d: %w", accountID, err)
	}
	return &token, nil
}

func (r *accountRepository) GetOrCreateToken(ctx context.Context, accountID uint, newKey string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).
		Where(models.AuthToken{AccountID: accountID}).
		Attrs(models.AuthToken{Key: newKey}).
		FirstOrCreate(&token).Error
	if err != nil {
		// A concurrent login may have inserted the row first.
		if existing, findErr := r.TokenForAccount(ctx, accountID); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to get or create token for account %d: %w", accountID, err)
	}
	return &token, nil
}

func (r *accountRepository) DeleteTokens(ctx context.Context, accountID uint) error {
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&models.AuthToken{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete tokens for account %d: %w", accountID, err)
	}
	return nil
}
