package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-profiles/httpx"
	"github.com/diewo77/go-profiles/internal/services"
	"github.com/diewo77/go-profiles/validation"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error)
}

var loginSchema = validation.MustSchema(`{
	"type": "object",
	"properties": {
		"username": {"type": "string"},
		"password": {"type": "string"}
	}
}`)

var registerSchema = validation.MustSchema(`{
	"type": "object",
	"properties": {
		"username":   {"type": "string", "maxLength": 150},
		"password":   {"type": "string"},
		"password2":  {"type": "string"},
		"email":      {"type": "string", "maxLength": 254},
		"first_name": {"type": "string", "maxLength": 150},
		"last_name":  {"type": "string", "maxLength": 150}
	}
}`)

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login exchanges a username and password for the account token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeValidated(r, loginSchema)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Login(r.Context(), str(doc, "username"), str(doc, "password"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

type registerResponse struct {
	*services.RegisterResult
	Message string `json:"message"`
}

// Register creates an account and returns its token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeValidated(r, registerSchema)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Register(r.Context(), services.RegisterInput{
		Username:  str(doc, "username"),
		Password:  str(doc, "password"),
		Password2: str(doc, "password2"),
		Email:     str(doc, "email"),
		FirstName: str(doc, "first_name"),
		LastName:  str(doc, "last_name"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, registerResponse{RegisterResult: res, Message: message(r, "registered")})
}
