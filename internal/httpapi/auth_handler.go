package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ljcl79/shophub/internal/session"
)

type AuthHandler struct {
	gate *session.Gate
	log  *zap.Logger
}

func NewAuthHandler(gate *session.Gate, log *zap.Logger) *AuthHandler {
	return &AuthHandler{gate: gate, log: log}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "email and password required")
		return
	}

	sess, err := h.gate.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, sess)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "email, password and name required")
		return
	}

	sess, err := h.gate.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}
	respondJSON(w, h.log, http.StatusCreated, sess)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Logout(r.Context()); err != nil {
		handleDomainError(w, h.log, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me reports the signed-in identity, 401 when anonymous.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.gate.Current()
	if !ok {
		respondError(w, h.log, http.StatusUnauthorized, "unauthenticated", "no active session")
		return
	}
	respondJSON(w, h.log, http.StatusOK, sess)
}
