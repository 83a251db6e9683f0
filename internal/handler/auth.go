package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/game-list/internal/domain"
	"github.com/msomdec/game-list/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister creates an account.
// POST /auth/register
// Request:  {"email":"...","name":"...","password":"..."}
// Response: 201 {"user": {...}, "token": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponseDTO{User: toUserDTO(res.User), Token: res.Token})
}

// HandleLogin exchanges credentials for a token.
// POST /auth/login
// Request:  {"email":"...","password":"..."}
// Response: 200 {"user": {...}, "token": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponseDTO{User: toUserDTO(res.User), Token: res.Token})
}

// HandleProfile returns the currently authenticated user.
// GET /auth/profile
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}
