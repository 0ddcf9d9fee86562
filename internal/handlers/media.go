package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/internal/storage"
	"gocloud.dev/blob"
)

type MediaStore interface {
	NewReader(ctx context.Context, key string) (*blob.Reader, error)
}

// MediaHandler streams stored files under /media/{key...}.
type MediaHandler struct {
	store MediaStore
}

func NewMediaHandler(store MediaStore) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		httpx.JSONError(w, http.StatusNotFound, message(r, "media_not_found"), nil)
		return
	}
	reader, err := h.store.NewReader(r.Context(), key)
	if err != nil {
		if storage.IsNotExist(err) {
			httpx.JSONError(w, http.StatusNotFound, message(r, "media_not_found"), nil)
			return
		}
		writeError(w, r, err)
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.WarnContext(r.Context(), "close media reader", "key", key, "err", err)
		}
	}()

	if ct := reader.ContentType(); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, key, reader.ModTime(), reader)
}
