package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/i18n"
)

type ctxKey string

const (
	userIDCtxKey = ctxKey("userID")
	stateCtxKey  = ctxKey("authState")
)

// TokenBytes is the number of random bytes in a token; keys are hex encoded (40 chars).
const TokenBytes = 20

// TokenResolver maps a token key to its account id. It returns gate.ErrNotFound for unknown keys.
type TokenResolver = gate.Resolver[string, uint]

type state int

const (
	stateAnonymous state = iota
	stateInvalid
	stateAuthenticated
)

// NewToken returns a fresh random token key.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// TokenFromRequest extracts the key from "Authorization: Bearer <key>" or "Token <key>".
func TokenFromRequest(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", false
	}
	scheme, key, ok := strings.Cut(h, " ")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
	default:
		return "", false
	}
	key = strings.TrimSpace(key)
	return key, key != ""
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	ctx = context.WithValue(ctx, stateCtxKey, stateAuthenticated)
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	v := ctx.Value(userIDCtxKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Middleware attaches the account id of a valid bearer token to the request context.
// Requests without a token pass through untouched; RequireAuth decides what to reject.
func Middleware(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := TokenFromRequest(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			uid, err := resolver.Resolve(r.Context(), key)
			switch {
			case err == nil:
				r = r.WithContext(WithUserID(r.Context(), uid))
			case errors.Is(err, gate.ErrNotFound):
				r = r.WithContext(context.WithValue(r.Context(), stateCtxKey, stateInvalid))
			default:
				slog.Error("resolve token", "err", err)
				httpx.JSONError(w, http.StatusInternalServerError, i18n.T(i18n.LangFrom(r.Context()), "internal_error"), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns 401 JSON unless Middleware authenticated the request.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := UserIDFromContext(r.Context()); ok && uid != 0 {
			next.ServeHTTP(w, r)
			return
		}
		code := "not_authenticated"
		if s, _ := r.Context().Value(stateCtxKey).(state); s == stateInvalid {
			code = "invalid_token"
		}
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(i18n.LangFrom(r.Context()), code), nil)
	})
}
