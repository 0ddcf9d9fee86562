package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-profiles/internal/models"
	"github.com/diewo77/go-profiles/internal/repository"
	"github.com/diewo77/go-profiles/validation"
)

type LookupInput struct {
	Name        string
	Description string
}

type lookupPtr[T any] interface {
	*T
	Base() *models.Lookup
}

// LookupService implements CRUD for one lookup table. Deletes detach the row from profiles in
// the same transaction.
type LookupService[T repository.LookupEntity, PT lookupPtr[T]] struct {
	store  *repository.Store
	repo   func(*repository.Store) repository.LookupRepository[T]
	entity string
}

func NewUserTypeService(store *repository.Store) *LookupService[models.UserType, *models.UserType] {
	return &LookupService[models.UserType, *models.UserType]{
		store:  store,
		repo:   (*repository.Store).UserTypes,
		entity: EntityUserType,
	}
}

func NewUserRoleService(store *repository.Store) *LookupService[models.UserRole, *models.UserRole] {
	return &LookupService[models.UserRole, *models.UserRole]{
		store:  store,
		repo:   (*repository.Store).UserRoles,
		entity: EntityUserRole,
	}
}

func (s *LookupService[T, PT]) List(ctx context.Context) ([]T, error) {
	return s.repo(s.store).List(ctx)
}

func (s *LookupService[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	return s.find(ctx, s.store, id, OpGet)
}

func (s *LookupService[T, PT]) Create(ctx context.Context, in LookupInput) (*T, error) {
	if err := validateLookup(&in); err != nil {
		return nil, err
	}
	item := new(T)
	base := PT(item).Base()
	base.Name, base.Description = in.Name, in.Description
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return s.repo(tx).Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces name and description; both are required.
func (s *LookupService[T, PT]) Update(ctx context.Context, id uint, in LookupInput) (*T, error) {
	var item *T
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if item, err = s.find(ctx, tx, id, OpUpdate); err != nil {
			return err
		}
		if err := validateLookup(&in); err != nil {
			return err
		}
		base := PT(item).Base()
		base.Name, base.Description = in.Name, in.Description
		return s.repo(tx).Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *LookupService[T, PT]) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := s.find(ctx, tx, id, OpDelete); err != nil {
			return err
		}
		return s.repo(tx).Delete(ctx, id)
	})
}

func (s *LookupService[T, PT]) find(ctx context.Context, store *repository.Store, id uint, op string) (*T, error) {
	item, err := s.repo(store).FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &NotFoundError{Entity: s.entity, Op: op}
		}
		return nil, err
	}
	return item, nil
}

func validateLookup(in *LookupInput) error {
	in.Name = strings.TrimSpace(in.Name)
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	validation.MaxLength("name", in.Name, 255, v)
	validation.Required("description", in.Description, v)
	return Invalid(v)
}
