package handlers

import (
	"context"

	"github.com/diewo77/go-profiles/internal/pagination"
	"github.com/diewo77/go-profiles/internal/services"
)

type mockAuthService struct {
	loginFunc    func(ctx context.Context, username, password string) (*services.LoginResult, error)
	registerFunc func(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	return m.loginFunc(ctx, username, password)
}

func (m *mockAuthService) Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error) {
	return m.registerFunc(ctx, in)
}

type mockProfileService struct {
	listFunc   func(ctx context.Context, page int) (*pagination.Page[services.ProfileView], error)
	getFunc    func(ctx context.Context, id uint) (*services.ProfileView, error)
	upsertFunc func(ctx context.Context, in services.ProfileInput) (*services.ProfileView, error)
	updateFunc func(ctx context.Context, id uint, in services.ProfileInput) (*services.ProfileView, error)
	deleteFunc func(ctx context.Context, id uint) error
}

func (m *mockProfileService) List(ctx context.Context, page int) (*pagination.Page[services.ProfileView], error) {
	return m.listFunc(ctx, page)
}

func (m *mockProfileService) Get(ctx context.Context, id uint) (*services.ProfileView, error) {
	return m.getFunc(ctx, id)
}

func (m *mockProfileService) Upsert(ctx context.Context, in services.ProfileInput) (*services.ProfileView, error) {
	return m.upsertFunc(ctx, in)
}

func (m *mockProfileService) Update(ctx context.Context, id uint, in services.ProfileInput) (*services.ProfileView, error) {
	return m.updateFunc(ctx, id, in)
}

func (m *mockProfileService) Delete(ctx context.Context, id uint) error {
	return m.deleteFunc(ctx, id)
}

type mockLookupService[T any] struct {
	listFunc   func(ctx context.Context) ([]T, error)
	getFunc    func(ctx context.Context, id uint) (*T, error)
	createFunc func(ctx context.Context, in services.LookupInput) (*T, error)
	updateFunc func(ctx context.Context, id uint, in services.LookupInput) (*T, error)
	deleteFunc func(ctx context.Context, id uint) error
}

func (m *mockLookupService[T]) List(ctx context.Context) ([]T, error) { return m.listFunc(ctx) }

func (m *mockLookupService[T]) Get(ctx context.Context, id uint) (*T, error) {
	return m.getFunc(ctx, id)
}

func (m *mockLookupService[T]) Create(ctx context.Context, in services.LookupInput) (*T, error) {
	return m.createFunc(ctx, in)
}

func (m *mockLookupService[T]) Update(ctx context.Context, id uint, in services.LookupInput) (*T, error) {
	return m.updateFunc(ctx, id, in)
}

func (m *mockLookupService[T]) Delete(ctx context.Context, id uint) error {
	return m.deleteFunc(ctx, id)
}
