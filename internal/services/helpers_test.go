package services

import (
	"context"
	"testing"

	"github.com/diewo77/go-profiles/internal/db"
	"github.com/diewo77/go-profiles/internal/models"
	"github.com/diewo77/go-profiles/internal/repository"
	"github.com/diewo77/go-profiles/internal/storage"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const strongPassword = "Str0ng!Pass#21"

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

type fixture struct {
	db       *gorm.DB
	store    *repository.Store
	bucket   *blob.Bucket
	auth     *AuthService
	profiles *ProfileService
	types    *LookupService[models.UserType, *models.UserType]
	roles    *LookupService[models.UserRole, *models.UserRole]
	tokens   *recordingInvalidator
}

type recordingInvalidator struct{ keys []string }

func (r *recordingInvalidator) Invalidate(key string) { r.keys = append(r.keys, key) }

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

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := setupTestDB(t)
	store := repository.NewStore(conn)
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { bucket.Close() })
	pictures := storage.New(bucket, "/media/")
	tokens := &recordingInvalidator{}
	return &fixture{
		db:       conn,
		store:    store,
		bucket:   bucket,
		auth:     NewAuthService(store, nil, pictures.URL),
		profiles: NewProfileService(store, pictures, tokens, 1<<20),
		types:    NewUserTypeService(store),
		roles:    NewUserRoleService(store),
		tokens:   tokens,
	}
}

func (f *fixture) userType(t *testing.T, name string) uint {
	t.Helper()
	ut, err := f.types.Create(context.Background(), LookupInput{Name: name, Description: name + " type"})
	if err != nil {
		t.Fatalf("create user type: %v", err)
	}
	return ut.ID
}

func (f *fixture) userRole(t *testing.T, name string) uint {
	t.Helper()
	r, err := f.roles.Create(context.Background(), LookupInput{Name: name, Description: name + " role"})
	if err != nil {
		t.Fatalf("create user role: %v", err)
	}
	return r.ID
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func (f *fixture) blobCount(t *testing.T) int {
	t.Helper()
	n := 0
	iter := f.bucket.List(nil)
	for {
		_, err := iter.Next(context.Background())
		if err != nil {
			break
		}
		n++
	}
	return n
}

func ptr[T any](v T) *T { return &v }
