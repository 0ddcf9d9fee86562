package policy

import (
	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/internal/config"
	"github.com/diewo77/go-profiles/internal/handlers"
	"github.com/diewo77/go-profiles/internal/metrics"
	"github.com/diewo77/go-profiles/internal/models"
	"github.com/diewo77/go-profiles/internal/repository"
	"github.com/diewo77/go-profiles/internal/services"
	"github.com/diewo77/go-profiles/internal/storage"
	"gorm.io/gorm"
)

// RouterConfig holds configured handlers and middleware dependencies for the application.
type RouterConfig struct {
	// TokenCache sits in front of the token lookup used by auth.Middleware.
	TokenCache *gate.CachedResolver[string, uint]
	Metrics    *metrics.Metrics

	// Handlers
	AuthHandler     *handlers.AuthHandler
	ProfileHandler  *handlers.ProfileHandler
	UserTypeHandler *handlers.LookupHandler[models.UserType]
	UserRoleHandler *handlers.LookupHandler[models.UserRole]
	MediaHandler    *handlers.MediaHandler
	HealthHandler   *handlers.HealthHandler

	// Services
	AuthService    *services.AuthService
	ProfileService *services.ProfileService
}

// NewRouterConfig wires repositories, services and handlers over one database connection and
// picture store.
//
// Example usage in main.go:
//
//	cfg := policy.NewRouterConfig(dbConn, pictures, appCfg)
//	app := NewApp(cfg)
func NewRouterConfig(db *gorm.DB, pictures *storage.Store, cfg *config.Config) *RouterConfig {
	store := repository.NewStore(db)

	authService := services.NewAuthService(store, nil, pictures.URL)
	tokenCache := gate.NewCachedResolver(authService.TokenResolver(), cfg.Auth.TokenCacheTTL)

	// Deleting a profile drops its cached token
	profileService := services.NewProfileService(store, pictures, tokenCache, cfg.Storage.MaxUploadBytes)

	var pinger handlers.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}

	return &RouterConfig{
		TokenCache:      tokenCache,
		Metrics:         metrics.New(),
		AuthHandler:     handlers.NewAuthHandler(authService),
		ProfileHandler:  handlers.NewProfileHandler(profileService, cfg.Storage.MaxUploadBytes),
		UserTypeHandler: handlers.NewLookupHandler[models.UserType](services.NewUserTypeService(store), services.EntityUserType),
		UserRoleHandler: handlers.NewLookupHandler[models.UserRole](services.NewUserRoleService(store), services.EntityUserRole),
		MediaHandler:    handlers.NewMediaHandler(pictures),
		HealthHandler:   handlers.NewHealthHandler(pinger),
		AuthService:     authService,
		ProfileService:  profileService,
	}
}
