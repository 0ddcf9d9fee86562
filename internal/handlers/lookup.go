package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/internal/services"
	"github.com/diewo77/go-profiles/validation"
)

type LookupService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, in services.LookupInput) (*T, error)
	Update(ctx context.Context, id uint, in services.LookupInput) (*T, error)
	Delete(ctx context.Context, id uint) error
}

var lookupSchema = validation.MustSchema(`{
	"type": "object",
	"properties": {
		"name":        {"type": "string", "maxLength": 255},
		"description": {"type": "string"}
	}
}`)

// LookupHandler serves CRUD routes of one lookup table. entity prefixes its message codes.
type LookupHandler[T any] struct {
	svc    LookupService[T]
	entity string
}

func NewLookupHandler[T any](svc LookupService[T], entity string) *LookupHandler[T] {
	return &LookupHandler[T]{svc: svc, entity: entity}
}

func (h *LookupHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *LookupHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.parseInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, message(r, h.entity+"_created"), item)
}

func (h *LookupHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, &services.NotFoundError{Entity: h.entity, Op: services.OpGet})
		return
	}
	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Update replaces name and description.
func (h *LookupHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, &services.NotFoundError{Entity: h.entity, Op: services.OpUpdate})
		return
	}
	in, err := h.parseInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, message(r, h.entity+"_updated"), item)
}

func (h *LookupHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, &services.NotFoundError{Entity: h.entity, Op: services.OpDelete})
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, message(r, h.entity+"_deleted"), nil)
}

func (h *LookupHandler[T]) parseInput(r *http.Request) (services.LookupInput, error) {
	doc, err := decodeValidated(r, lookupSchema)
	if err != nil {
		return services.LookupInput{}, err
	}
	return services.LookupInput{Name: str(doc, "name"), Description: str(doc, "description")}, nil
}
