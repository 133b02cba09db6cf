package handler

import (
	"net/http"

	"mechanical-burger/internal/gate"
	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
)

// AdminHandler handles admin session and password override requests.
type AdminHandler struct {
	gate   *gate.Gate
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(g *gate.Gate, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		gate:   g,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

type enterRequest struct {
	Fragment string `json:"fragment,omitempty"`
	Password string `json:"password,omitempty"`
}

type unlockRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Token   string       `json:"token,omitempty"`
	Session gate.Session `json:"session"`
}

// EnterSession handles POST /api/admin/session requests.
func (h *AdminHandler) EnterSession(w http.ResponseWriter, r *http.Request) {
	var req enterRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	token, session, err := h.gate.EnterAdmin(r.Header.Get(gate.ClientIDHeader), req.Fragment, req.Password)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, Session: session})
}

// GetSession handles GET /api/admin/session requests.
func (h *AdminHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := gate.FromContext(r.Context())
	if err != nil {
		writeDomainError(w, model.ErrAdminLocked, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: session})
}

// EndSession handles DELETE /api/admin/session requests.
func (h *AdminHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	session, err := gate.FromContext(r.Context())
	if err != nil {
		writeDomainError(w, model.ErrAdminLocked, h.logger)
		return
	}
	h.gate.End(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

// UnlockAdvanced handles POST /api/admin/session/advanced requests.
func (h *AdminHandler) UnlockAdvanced(w http.ResponseWriter, r *http.Request) {
	session, err := gate.FromContext(r.Context())
	if err != nil {
		writeDomainError(w, model.ErrAdminLocked, h.logger)
		return
	}

	var req unlockRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	unlocked, err := h.gate.UnlockAdvanced(session.ID, req.Password)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: unlocked})
}

// RelockAdvanced handles DELETE /api/admin/session/advanced requests.
func (h *AdminHandler) RelockAdvanced(w http.ResponseWriter, r *http.Request) {
	session, err := gate.FromContext(r.Context())
	if err != nil {
		writeDomainError(w, model.ErrAdminLocked, h.logger)
		return
	}
	h.gate.Relock(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles POST /api/admin/passwords requests.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req gate.PasswordChange
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.gate.ChangePassword(h.clientID(r), req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.gate.PasswordStatus(h.clientID(r)))
}

// PasswordStatus handles GET /api/admin/passwords/status requests.
func (h *AdminHandler) PasswordStatus(w http.ResponseWriter, r *http.Request) {
	clientID := h.clientID(r)
	if clientID == "" {
		writeDomainError(w, model.ErrMissingClientID, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.gate.PasswordStatus(clientID))
}

// ResetPasswords handles DELETE /api/admin/passwords requests.
func (h *AdminHandler) ResetPasswords(w http.ResponseWriter, r *http.Request) {
	clientID := h.clientID(r)
	if clientID == "" {
		writeDomainError(w, model.ErrMissingClientID, h.logger)
		return
	}
	h.gate.ResetPasswords(clientID)
	w.WriteHeader(http.StatusNoContent)
}

// clientID prefers the header and falls back to the client the session was opened from.
func (h *AdminHandler) clientID(r *http.Request) string {
	if id := r.Header.Get(gate.ClientIDHeader); id != "" {
		return id
	}
	if session, err := gate.FromContext(r.Context()); err == nil {
		return session.ClientID
	}
	return ""
}
