package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/i18n"
	"github.com/diewo77/go-profiles/internal/pagination"
	"github.com/diewo77/go-profiles/internal/services"
	"github.com/diewo77/go-profiles/validation"
)

// writeError maps service errors onto the JSON error envelope. Messages are translated into
// the request language.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFrom(r.Context())

	var ve *services.ValidationError
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, ve.Code), translate(lang, ve.Violations))
	case errors.Is(err, httpx.ErrBadBody):
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "invalid_data"), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, i18n.T(lang, "invalid_credentials"), nil)
	case errors.As(err, &nf):
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang, nf.Code()), nil)
	case errors.Is(err, pagination.ErrInvalidPage):
		httpx.JSONError(w, http.StatusNotFound, i18n.T(lang, "invalid_page"), nil)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang, "internal_error"), nil)
	}
}

func translate(lang string, v validation.Violations) map[string]string {
	if len(v) == 0 {
		return nil
	}
	out := make(map[string]string, len(v))
	for field, code := range v {
		out[field] = i18n.T(lang, code)
	}
	return out
}

func message(r *http.Request, code string) string {
	return i18n.T(i18n.LangFrom(r.Context()), code)
}
