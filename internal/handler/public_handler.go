package handler

import (
	"context"
	"net/http"

	"mechanical-burger/internal/config"
	"mechanical-burger/internal/gate"

	"github.com/rs/zerolog"
)

// PublicHandler serves the menu, client configuration and replica state.
type PublicHandler struct {
	replica Replica
	sounds  config.SoundConfig
	logger  zerolog.Logger
}

// NewPublicHandler creates a new public handler.
func NewPublicHandler(replica Replica, sounds config.SoundConfig, logger zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		replica: replica,
		sounds:  sounds,
		logger:  logger.With().Str("handler", "public").Logger(),
	}
}

type publicConfig struct {
	Sounds soundURLs `json:"sounds"`
}

type soundURLs struct {
	Hover string `json:"hover,omitempty"`
	Click string `json:"click,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Menu handles GET /api/menu requests.
func (h *PublicHandler) Menu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.replica.Menu()
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// Config handles GET /api/config/public requests.
func (h *PublicHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, publicConfig{
		Sounds: soundURLs{Hover: h.sounds.HoverURL, Click: h.sounds.ClickURL},
	})
}

// Snapshot handles GET /api/snapshot requests. Order collections are left
// out; they are only served to admins.
func (h *PublicHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	state := h.replica.State()
	state.Orders = nil
	state.DeletedOrders = nil
	writeJSON(w, http.StatusOK, state)
}

// AdminSnapshot handles GET /api/admin/snapshot requests.
// Deleted orders are left out until the advanced tier is unlocked.
func (h *PublicHandler) AdminSnapshot(w http.ResponseWriter, r *http.Request) {
	state := h.replica.State()
	if session, err := gate.FromContext(r.Context()); err != nil || !session.Advanced {
		state.DeletedOrders = nil
	}
	writeJSON(w, http.StatusOK, state)
}

// Restart handles POST /api/admin/replica/restart requests.
func (h *PublicHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.logger.Info().Msg("replica restart requested")
	// The replica outlives the request.
	if err := h.replica.Restart(context.WithoutCancel(r.Context())); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.replica.State())
}

// Health handles GET /health requests. It reports 503 once the replica
// has failed.
func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	state := h.replica.State()
	resp := healthResponse{Status: "ok", Loading: state.Loading, Error: state.Error}
	status := http.StatusOK
	if state.Error != "" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
