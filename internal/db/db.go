// Package db opens the gorm connection and applies schema migrations.
package db

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/diewo77/go-profiles/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and tunes the connection pool.
// Postgres connections are retried to give the server time to start.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gcfg := &gorm.Config{
		Logger: logger.New(log.New(os.Stderr, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var dialector gorm.Dialector
	attempts := 1
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DSN())
		attempts = 5
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		slog.Warn("database connection failed, retrying", "attempt", i+1, "of", attempts, "err", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected", "driver", cfg.Driver, "host", cfg.Host, "dbname", cfg.DBName)
	return conn, nil
}
