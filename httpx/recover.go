package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recover turns a panicking handler into a 500 JSON response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.ErrorContext(r.Context(), "panic serving request",
				"method", r.Method, "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
			JSONError(w, http.StatusInternalServerError, "Internal server error.", nil)
		}()
		next.ServeHTTP(w, r)
	})
}
