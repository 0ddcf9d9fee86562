// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds connection settings for postgres or sqlite.
type DatabaseConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"postgres"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"profiles"`
	Password        string        `envconfig:"DB_PASSWORD" default:"profiles123"`
	DBName          string        `envconfig:"DB_NAME" default:"profiles"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	SQLitePath      string        `envconfig:"DB_SQLITE_PATH" default:"profiles.db"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	Debug           bool          `envconfig:"DB_DEBUG" default:"false"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Migrations    bool `envconfig:"APP_MIGRATIONS" default:"false"`
	SQLMigrations bool `envconfig:"APP_SQL_MIGRATIONS" default:"false"`
}

// AuthConfig controls bearer token resolution.
type AuthConfig struct {
	TokenCacheTTL time.Duration `envconfig:"AUTH_TOKEN_CACHE_TTL" default:"5m"`
}

// StorageConfig points at the blob bucket holding profile pictures.
type StorageConfig struct {
	URL            string `envconfig:"STORAGE_URL" default:"file://./media"`
	MediaURL       string `envconfig:"STORAGE_MEDIA_URL" default:"/media/"`
	MaxUploadBytes int64  `envconfig:"STORAGE_MAX_UPLOAD_BYTES" default:"5242880"`
}

// LogConfig selects level, format and an optional rotating file.
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"text"`
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"28"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("load config: unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	return &cfg, nil
}
