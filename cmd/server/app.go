package main

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-profiles/auth"
	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/i18n"
	"github.com/diewo77/go-profiles/internal/policy"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
	handler   http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	// Global middleware: panic recovery, request language, token resolution
	app.handler = httpx.Recover(i18n.Middleware(auth.Middleware(routerCfg.TokenCache)(app.mux)))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler

	a.public("POST /login", ah.Login)
	a.public("POST /register", ah.Register)
	a.public("GET /health", a.routerCfg.HealthHandler.Health)
	a.mux.Handle("GET /metrics", a.routerCfg.Metrics.Handler())
	a.mux.Handle("GET /media/{key...}",
		a.routerCfg.Metrics.Instrument("GET /media/{key...}", http.HandlerFunc(a.routerCfg.MediaHandler.Serve)))

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes (require a valid token)
	// ─────────────────────────────────────────────────────────────────────────
	ph := a.routerCfg.ProfileHandler
	a.protected("GET /profiles", ph.List)
	a.protected("POST /profiles", ph.Create)
	a.protected("GET /profiles/{id}", ph.Get)
	a.protected("PUT /profiles/{id}", ph.Update)
	a.protected("PATCH /profiles/{id}", ph.Update)
	a.protected("DELETE /profiles/{id}", ph.Delete)

	th := a.routerCfg.UserTypeHandler
	a.protected("GET /user-types", th.List)
	a.protected("POST /user-types", th.Create)
	a.protected("GET /user-types/{id}", th.Get)
	a.protected("PUT /user-types/{id}", th.Update)
	a.protected("DELETE /user-types/{id}", th.Delete)

	rh := a.routerCfg.UserRoleHandler
	a.protected("GET /user-roles", rh.List)
	a.protected("POST /user-roles", rh.Create)
	a.protected("GET /user-roles/{id}", rh.Get)
	a.protected("PUT /user-roles/{id}", rh.Update)
	a.protected("DELETE /user-roles/{id}", rh.Delete)
}

// ─────────────────────────────────────────────────────────────────────────────
// Route helpers
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) public(pattern string, h http.HandlerFunc) {
	a.route(pattern, h)
}

// protected registers a route that requires an authenticated request.
func (a *App) protected(pattern string, h http.HandlerFunc) {
	a.route(pattern, auth.RequireAuth(h))
}

// route registers pattern and its trailing-slash variant under one metrics label.
func (a *App) route(pattern string, h http.Handler) {
	instrumented := a.routerCfg.Metrics.Instrument(pattern, h)
	a.mux.Handle(pattern, instrumented)
	a.mux.Handle(strings.TrimSuffix(pattern, "/")+"/{$}", instrumented)
}
