package db

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diewo77/go-profiles/internal/config"
	"github.com/diewo77/go-profiles/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// postgres driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var coreTables = []string{"accounts", "auth_tokens", "user_types", "user_roles", "profiles", "profile_user_roles"}

// Migrate creates or updates the schema with gorm AutoMigrate.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Profile{}, "UserRoles", &models.ProfileUserRole{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}
	for _, m := range models.All() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return checkTables(db)
}

// MigrateSQL applies the embedded SQL migrations with golang-migrate. Postgres only.
func MigrateSQL(cfg config.DatabaseConfig) error {
	if cfg.Driver != "postgres" {
		return fmt.Errorf("sql migrations require postgres, got %q", cfg.Driver)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL())
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	slog.Info("sql migrations applied", "version", version, "dirty", dirty)
	return nil
}

// Run migrates with golang-migrate when sqlMigrations is set, otherwise with AutoMigrate.
func Run(conn *gorm.DB, cfg config.DatabaseConfig, sqlMigrations bool) error {
	if sqlMigrations {
		if err := MigrateSQL(cfg); err != nil {
			return err
		}
		return checkTables(conn)
	}
	return Migrate(conn)
}

func checkTables(db *gorm.DB) error {
	for _, table := range coreTables {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}
