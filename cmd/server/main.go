package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/diewo77/go-profiles/internal/config"
	"github.com/diewo77/go-profiles/internal/db"
	"github.com/diewo77/go-profiles/internal/logging"
	"github.com/diewo77/go-profiles/internal/policy"
	"github.com/diewo77/go-profiles/internal/storage"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	// s3:// and mem:// storage URLs
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "profiles",
		Short:         "User account and profile API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate()
			},
		},
	)
	return root
}

// setup loads the configuration, installs the logger and connects to the database.
func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return nil, nil, err
	}
	logging.Setup(cfg.Log)

	slog.Info("connecting to database", "driver", cfg.Database.Driver,
		"host", cfg.Database.Host, "port", cfg.Database.Port, "dbname", cfg.Database.DBName)
	conn, err := db.Open(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		return nil, nil, err
	}
	return cfg, conn, nil
}

func migrate() error {
	cfg, conn, err := setup()
	if err != nil {
		return err
	}
	defer closeDB(conn)
	if err := db.Run(conn, cfg.Database, cfg.App.SQLMigrations); err != nil {
		slog.Error("migration failed", "err", err)
		return err
	}
	slog.Info("migrations completed successfully")
	return nil
}

func serve(ctx context.Context) error {
	cfg, conn, err := setup()
	if err != nil {
		return err
	}
	defer closeDB(conn)

	// Run migrations on startup if enabled
	if cfg.App.Migrations {
		if err := db.Run(conn, cfg.Database, cfg.App.SQLMigrations); err != nil {
			slog.Error("migration failed", "err", err)
			return err
		}
		slog.Info("migrations completed")
	}

	pictures, err := storage.Open(ctx, cfg.Storage.URL, cfg.Storage.MediaURL)
	if err != nil {
		slog.Error("failed to open storage", "url", cfg.Storage.URL, "err", err)
		return err
	}
	defer pictures.Close()

	routerCfg := policy.NewRouterConfig(conn, pictures, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server error", "err", err)
			return err
		}
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "err", err)
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

func closeDB(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Warn("close database", "err", err)
	}
}
