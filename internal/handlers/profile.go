package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/internal/pagination"
	"github.com/diewo77/go-profiles/internal/services"
	"github.com/diewo77/go-profiles/validation"
)

type ProfileService interface {
	List(ctx context.Context, page int) (*pagination.Page[services.ProfileView], error)
	Get(ctx context.Context, id uint) (*services.ProfileView, error)
	Upsert(ctx context.Context, in services.ProfileInput) (*services.ProfileView, error)
	Update(ctx context.Context, id uint, in services.ProfileInput) (*services.ProfileView, error)
	Delete(ctx context.Context, id uint) error
}

// ProfileHandler serves /profiles. Writes accept multipart, urlencoded or JSON bodies.
type ProfileHandler struct {
	svc       ProfileService
	maxUpload int64
}

func NewProfileHandler(svc ProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{svc: svc, maxUpload: maxUpload}
}

// List returns one page of profiles selected by ?page=.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.List(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res.Link(pagination.RequestURL(r))
	httpx.JSON(w, http.StatusOK, res)
}

// Create upserts the profile of the given username.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.parseInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.svc.Upsert(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, message(r, "profile_created"), view)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, &services.NotFoundError{Entity: services.EntityProfile, Op: services.OpGet})
		return
	}
	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// Update applies a partial update; username is ignored.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, &services.NotFoundError{Entity: services.EntityProfile, Op: services.OpUpdate})
		return
	}
	in, err := h.parseInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in.Username = ""
	view, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, message(r, "profile_updated"), view)
}

// Delete removes the profile together with its account.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, r, &services.NotFoundError{Entity: services.EntityProfile, Op: services.OpDelete})
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, message(r, "profile_deleted"), nil)
}

func (h *ProfileHandler) parseInput(w http.ResponseWriter, r *http.Request) (services.ProfileInput, error) {
	if h.maxUpload > 0 {
		// room for the other form fields
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	}
	doc, err := httpx.DecodeObject(r)
	if err != nil {
		return services.ProfileInput{}, err
	}

	v := make(validation.Violations)
	in := services.ProfileInput{
		Email:       optString(doc, "email", v),
		FirstName:   optString(doc, "first_name", v),
		LastName:    optString(doc, "last_name", v),
		Password:    optString(doc, "password", v),
		PhoneNumber: optString(doc, "phone_number", v),
		UserTypeID:  optID(doc, "user_type_id", v),
		UserRoleIDs: idList(doc, "user_role_ids", v),
	}
	if username := optString(doc, "username", v); username != nil {
		in.Username = *username
	}
	if err := services.Invalid(v); err != nil {
		return in, err
	}
	if in.Picture, err = readUpload(r, "profile_picture", h.maxUpload); err != nil {
		return in, err
	}
	return in, nil
}
