package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diewo77/go-profiles/internal/models"
	"github.com/diewo77/go-profiles/internal/pagination"
	"github.com/diewo77/go-profiles/internal/repository"
	"github.com/diewo77/go-profiles/validation"
)

// Upload violation codes.
const (
	CodeFileTooLarge = "file_too_large"
	CodeInvalidImage = "invalid_image"
)

// PictureStore keeps uploaded profile pictures.
type PictureStore interface {
	SavePicture(ctx context.Context, filename string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// TokenInvalidator drops a cached token resolution.
type TokenInvalidator interface {
	Invalidate(key string)
}

type Upload struct {
	Filename string
	Data     []byte
}

// ProfileInput is the write form of a profile. Nil pointers are fields that were not supplied.
// Username is only read by Upsert.
type ProfileInput struct {
	Username    string
	Email       *string
	FirstName   *string
	LastName    *string
	Password    *string
	PhoneNumber *string
	UserTypeID  *uint
	UserRoleIDs []uint
	Picture     *Upload
}

type ProfileService struct {
	store     *repository.Store
	pictures  PictureStore
	tokens    TokenInvalidator
	maxUpload int64
}

func NewProfileService(store *repository.Store, pictures PictureStore, tokens TokenInvalidator, maxUpload int64) *ProfileService {
	return &ProfileService{store: store, pictures: pictures, tokens: tokens, maxUpload: maxUpload}
}

func (s *ProfileService) mediaURL(key string) string {
	if s.pictures == nil {
		return key
	}
	return s.pictures.URL(key)
}

// MediaURL is the picture URL mapper used for every ProfileView.
func (s *ProfileService) MediaURL() func(string) string { return s.mediaURL }

func (s *ProfileService) Get(ctx context.Context, id uint) (*ProfileView, error) {
	return s.get(ctx, id, OpGet)
}

func (s *ProfileService) get(ctx context.Context, id uint, op string) (*ProfileView, error) {
	profile, err := s.store.Profiles().FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &NotFoundError{Entity: EntityProfile, Op: op}
		}
		return nil, err
	}
	view := NewProfileView(profile, s.mediaURL)
	return &view, nil
}

// List returns one page of profiles ordered by id. page -1 selects the last page.
func (s *ProfileService) List(ctx context.Context, page int) (*pagination.Page[ProfileView], error) {
	count, err := s.store.Profiles().Count(ctx)
	if err != nil {
		return nil, err
	}
	number, offset, err := pagination.Resolve(page, count, pagination.PageSize)
	if err != nil {
		return nil, err
	}
	profiles, err := s.store.Profiles().List(ctx, offset, pagination.PageSize)
	if err != nil {
		return nil, err
	}
	results := make([]ProfileView, len(profiles))
	for i := range profiles {
		results[i] = NewProfileView(&profiles[i], s.mediaURL)
	}
	return &pagination.Page[ProfileView]{
		Count:   count,
		Results: results,
		Number:  number,
		Size:    pagination.PageSize,
	}, nil
}

// Upsert creates or updates the account and profile identified by in.Username.
// The username of an existing account is never changed.
func (s *ProfileService) Upsert(ctx context.Context, in ProfileInput) (*ProfileView, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate(ctx, &in, true); err != nil {
		return nil, err
	}
	newKey, err := s.upload(ctx, in.Picture)
	if err != nil {
		return nil, err
	}

	var profileID uint
	var oldKey string
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		account, err := tx.Accounts().FindByUsername(ctx, in.Username)
		switch {
		case repository.IsNotFound(err):
			account = &models.Account{Username: in.Username}
			if err := applyAccount(account, &in); err != nil {
				return err
			}
			if err := tx.Accounts().Create(ctx, account); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := applyAccount(account, &in); err != nil {
				return err
			}
			if err := tx.Accounts().Update(ctx, account); err != nil {
				return err
			}
		}

		profile, err := tx.Profiles().FindByAccountID(ctx, account.ID)
		switch {
		case repository.IsNotFound(err):
			profile = &models.Profile{AccountID: account.ID}
			applyProfile(profile, &in, newKey)
			if err := tx.Profiles().Create(ctx, profile); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			oldKey = applyProfile(profile, &in, newKey)
			if err := tx.Profiles().Update(ctx, profile); err != nil {
				return err
			}
		}
		profileID = profile.ID
		return tx.Profiles().ReplaceRoles(ctx, profile.ID, in.UserRoleIDs)
	})
	if err != nil {
		s.discard(ctx, newKey)
		return nil, err
	}
	s.discard(ctx, oldKey)
	return s.Get(ctx, profileID)
}

// Update changes only the supplied fields of profile id. The role set is replaced only when a
// non-empty set is given.
func (s *ProfileService) Update(ctx context.Context, id uint, in ProfileInput) (*ProfileView, error) {
	if _, err := s.get(ctx, id, OpUpdate); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &in, false); err != nil {
		return nil, err
	}
	newKey, err := s.upload(ctx, in.Picture)
	if err != nil {
		return nil, err
	}

	var oldKey string
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		profile, err := tx.Profiles().FindByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return &NotFoundError{Entity: EntityProfile, Op: OpUpdate}
			}
			return err
		}
		if err := applyAccount(&profile.Account, &in); err != nil {
			return err
		}
		if err := tx.Accounts().Update(ctx, &profile.Account); err != nil {
			return err
		}
		oldKey = applyProfile(profile, &in, newKey)
		if err := tx.Profiles().Update(ctx, profile); err != nil {
			return err
		}
		if len(in.UserRoleIDs) > 0 {
			return tx.Profiles().ReplaceRoles(ctx, profile.ID, in.UserRoleIDs)
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, newKey)
		return nil, err
	}
	s.discard(ctx, oldKey)
	return s.Get(ctx, id)
}

// Delete removes the profile, its role links, the account and its token in one transaction.
// The stored picture is removed afterwards on a best-effort basis.
func (s *ProfileService) Delete(ctx context.Context, id uint) error {
	var pictureKey, tokenKey string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		profile, err := tx.Profiles().FindByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return &NotFoundError{Entity: EntityProfile, Op: OpDelete}
			}
			return err
		}
		if profile.ProfilePicture != nil {
			pictureKey = *profile.ProfilePicture
		}
		token, err := tx.Accounts().TokenForAccount(ctx, profile.AccountID)
		switch {
		case err == nil:
			tokenKey = token.Key
		case !repository.IsNotFound(err):
			return err
		}
		if err := tx.Profiles().Delete(ctx, profile.ID); err != nil {
			return err
		}
		if err := tx.Accounts().DeleteTokens(ctx, profile.AccountID); err != nil {
			return err
		}
		return tx.Accounts().Delete(ctx, profile.AccountID)
	})
	if err != nil {
		return err
	}
	if tokenKey != "" && s.tokens != nil {
		s.tokens.Invalidate(tokenKey)
	}
	s.discard(ctx, pictureKey)
	return nil
}

func (s *ProfileService) validate(ctx context.Context, in *ProfileInput, create bool) error {
	v := make(validation.Violations)
	if create {
		validation.Required("username", in.Username, v)
		validation.Username("username", in.Username, v)
		if in.Email == nil {
			v.Add("email", validation.CodeRequired)
		}
		if in.UserTypeID == nil {
			v.Add("user_type_id", validation.CodeRequired)
		}
		if len(in.UserRoleIDs) == 0 {
			v.Add("user_role_ids", validation.CodeRequired)
		}
	}
	if in.Email != nil {
		if *in.Email == "" {
			v.Add("email", validation.CodeBlank)
		}
		validation.Email("email", *in.Email, v)
	}
	if in.Password != nil && *in.Password == "" {
		v.Add("password", validation.CodeBlank)
	}
	if in.FirstName != nil {
		validation.MaxLength("first_name", *in.FirstName, 150, v)
	}
	if in.LastName != nil {
		validation.MaxLength("last_name", *in.LastName, 150, v)
	}
	if in.PhoneNumber != nil {
		validation.MaxLength("phone_number", *in.PhoneNumber, 20, v)
	}
	if in.Picture != nil {
		switch {
		case s.maxUpload > 0 && int64(len(in.Picture.Data)) > s.maxUpload:
			v.Add("profile_picture", CodeFileTooLarge)
		case !strings.HasPrefix(http.DetectContentType(in.Picture.Data), "image/"):
			v.Add("profile_picture", CodeInvalidImage)
		}
	}

	if in.UserTypeID != nil {
		if _, err := s.store.UserTypes().FindByID(ctx, *in.UserTypeID); err != nil {
			if !repository.IsNotFound(err) {
				return err
			}
			v.Add("user_type_id", validation.CodeDoesNotExist)
		}
	}
	if len(in.UserRoleIDs) > 0 {
		n, err := s.store.UserRoles().CountByIDs(ctx, in.UserRoleIDs)
		if err != nil {
			return err
		}
		if n != int64(len(in.UserRoleIDs)) {
			v.Add("user_role_ids", validation.CodeDoesNotExist)
		}
	}
	return Invalid(v)
}

func (s *ProfileService) upload(ctx context.Context, up *Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	if s.pictures == nil {
		return "", fmt.Errorf("upload picture: no picture store configured")
	}
	key, err := s.pictures.SavePicture(ctx, up.Filename, up.Data)
	if err != nil {
		return "", fmt.Errorf("upload picture: %w", err)
	}
	return key, nil
}

func (s *ProfileService) discard(ctx context.Context, key string) {
	if key == "" || s.pictures == nil {
		return
	}
	if err := s.pictures.Delete(ctx, key); err != nil {
		slog.Warn("remove stored picture", "key", key, "err", err)
	}
}

func applyAccount(a *models.Account, in *ProfileInput) error {
	if in.Email != nil {
		a.Email = *in.Email
	}
	if in.FirstName != nil {
		a.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		a.LastName = *in.LastName
	}
	if in.Password != nil && *in.Password != "" {
		if err := a.SetPassword(*in.Password); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
	}
	return nil
}

// applyProfile copies supplied fields and returns the picture key it replaced, if any.
func applyProfile(p *models.Profile, in *ProfileInput, pictureKey string) (replaced string) {
	if in.PhoneNumber != nil {
		if *in.PhoneNumber == "" {
			p.PhoneNumber = nil
		} else {
			phone := *in.PhoneNumber
			p.PhoneNumber = &phone
		}
	}
	if in.UserTypeID != nil {
		id := *in.UserTypeID
		p.UserTypeID = &id
		p.UserType = nil
	}
	if pictureKey != "" {
		if p.ProfilePicture != nil {
			replaced = *p.ProfilePicture
		}
		key := pictureKey
		p.ProfilePicture = &key
	}
	return replaced
}
