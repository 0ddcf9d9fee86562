package repository

import (
	"context"
	"testing"

	"github.com/diewo77/go-profiles/internal/db"
	"github.com/diewo77/go-profiles/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedProfile(t *testing.T, conn *gorm.DB, username string, typeID *uint, roleIDs ...uint) *models.Profile {
	t.Helper()
	ctx := context.Background()
	store := NewStore(conn)
	account := &models.Account{Username: username, Email: username + "@example.com"}
	if err := store.Accounts().Create(ctx, account); err != nil {
		t.Fatalf("account: %v", err)
	}
	profile := &models.Profile{AccountID: account.ID, UserTypeID: typeID}
	if err := store.Profiles().Create(ctx, profile); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if err := store.Profiles().ReplaceRoles(ctx, profile.ID, roleIDs); err != nil {
		t.Fatalf("roles: %v", err)
	}
	return profile
}

func TestAccountRepository_GetOrCreateToken(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(conn)

	account := &models.Account{Username: "mehmet"}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := repo.GetOrCreateToken(ctx, account.ID, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	second, err := repo.GetOrCreateToken(ctx, account.ID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	if err != nil {
		t.Fatalf("token again: %v", err)
	}
	if first.Key != second.Key {
		t.Fatalf("token changed: %s -> %s", first.Key, second.Key)
	}
	found, err := repo.FindToken(ctx, first.Key)
	if err != nil || found.AccountID != account.ID {
		t.Fatalf("FindToken = %+v, %v", found, err)
	}
	if _, err := repo.FindToken(ctx, ""); !IsNotFound(err) {
		t.Fatalf("empty key should not match, got %v", err)
	}
}

func TestAccountRepository_UsernameExists(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(conn)
	if err := repo.Create(ctx, &models.Account{Username: "ayse"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ok, _ := repo.UsernameExists(ctx, "ayse"); !ok {
		t.Error("expected ayse to exist")
	}
	if ok, _ := repo.UsernameExists(ctx, "nobody"); ok {
		t.Error("nobody should not exist")
	}
	if _, err := repo.FindByUsername(ctx, "nobody"); !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestProfileRepository_ReplaceRolesAndPreload(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	store := NewStore(conn)

	var roles []uint
	for _, name := range []string{"admin", "editor", "viewer"} {
		r := &models.UserRole{Lookup: models.Lookup{Name: name, Description: name}}
		if err := store.UserRoles().Create(ctx, r); err != nil {
			t.Fatalf("role: %v", err)
		}
		roles = append(roles, r.ID)
	}
	typ := &models.UserType{Lookup: models.Lookup{Name: "staff", Description: "staff"}}
	if err := store.UserTypes().Create(ctx, typ); err != nil {
		t.Fatalf("type: %v", err)
	}

	p := seedProfile(t, conn, "mehmet", &typ.ID, roles[0], roles[1])
	if err := store.Profiles().ReplaceRoles(ctx, p.ID, []uint{roles[2]}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := store.Profiles().FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Account.Username != "mehmet" {
		t.Errorf("account not preloaded: %+v", got.Account)
	}
	if got.UserType == nil || got.UserType.Name != "staff" {
		t.Errorf("user type not preloaded: %+v", got.UserType)
	}
	if ids := got.RoleIDs(); len(ids) != 1 || ids[0] != roles[2] {
		t.Errorf("roles = %v, want [%d]", ids, roles[2])
	}
}

func TestLookupRepository_DeleteDetaches(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	store := NewStore(conn)

	typ := &models.UserType{Lookup: models.Lookup{Name: "staff", Description: "staff"}}
	if err := store.UserTypes().Create(ctx, typ); err != nil {
		t.Fatalf("type: %v", err)
	}
	role := &models.UserRole{Lookup: models.Lookup{Name: "admin", Description: "admin"}}
	if err := store.UserRoles().Create(ctx, role); err != nil {
		t.Fatalf("role: %v", err)
	}
	p := seedProfile(t, conn, "ayse", &typ.ID, role.ID)

	if err := store.UserTypes().Delete(ctx, typ.ID); err != nil {
		t.Fatalf("delete type: %v", err)
	}
	if err := store.UserRoles().Delete(ctx, role.ID); err != nil {
		t.Fatalf("delete role: %v", err)
	}
	got, err := store.Profiles().FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.UserTypeID != nil || got.UserType != nil {
		t.Errorf("expected null user type, got %v", got.UserTypeID)
	}
	if len(got.UserRoles) != 0 {
		t.Errorf("expected no roles, got %v", got.RoleIDs())
	}
	if err := store.UserRoles().Delete(ctx, role.ID); !IsNotFound(err) {
		t.Errorf("second delete should be not found, got %v", err)
	}
}

func TestLookupRepository_CountByIDs(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	repo := NewStore(conn).UserRoles()
	a := &models.UserRole{Lookup: models.Lookup{Name: "a", Description: "a"}}
	_ = repo.Create(ctx, a)
	n, err := repo.CountByIDs(ctx, []uint{a.ID, a.ID + 100})
	if err != nil || n != 1 {
		t.Fatalf("CountByIDs = %d, %v", n, err)
	}
}

func TestProfileRepository_ListOrdered(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	for _, name := range []string{"c", "a", "b"} {
		seedProfile(t, conn, name, nil)
	}
	repo := NewProfileRepository(conn)
	count, _ := repo.Count(ctx)
	if count != 3 {
		t.Fatalf("count = %d", count)
	}
	page, err := repo.List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Account.Username != "a" || page[1].Account.Username != "b" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestStore_TransactionRollback(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	store := NewStore(conn)
	err := store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Accounts().Create(ctx, &models.Account{Username: "ghost"}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if ok, _ := store.Accounts().UsernameExists(ctx, "ghost"); ok {
		t.Fatal("account should have been rolled back")
	}
}
