package handler

import (
	"errors"
	"net/http"
	"time"

	"mechanical-burger/internal/kitchen"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/service"

	"github.com/rs/zerolog"
)

// cueBuffer is how many cues a slow stream may fall behind before cues are dropped.
const cueBuffer = 32

// KitchenHandler serves the kitchen board and its audio cues.
type KitchenHandler struct {
	replica Replica
	orders  service.OrderService
	cues    CueSource
	now     func() time.Time
	logger  zerolog.Logger
}

// NewKitchenHandler creates a new kitchen handler.
func NewKitchenHandler(replica Replica, orders service.OrderService, cues CueSource, logger zerolog.Logger) *KitchenHandler {
	return &KitchenHandler{
		replica: replica,
		orders:  orders,
		cues:    cues,
		now:     time.Now,
		logger:  logger.With().Str("handler", "kitchen").Logger(),
	}
}

// Board handles GET /api/admin/kitchen requests.
func (h *KitchenHandler) Board(w http.ResponseWriter, r *http.Request) {
	orders, err := h.replica.Orders(false)
	if errors.Is(err, model.ErrReplicaUnavailable) {
		orders, err = h.orders.List(r.Context())
	}
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, kitchen.BuildBoard(orders, h.now()))
}

// Cues handles GET /api/admin/kitchen/cues requests as a server-sent event stream.
func (h *KitchenHandler) Cues(w http.ResponseWriter, r *http.Request) {
	stream, ok := newSSEWriter(w, h.logger)
	if !ok {
		return
	}

	cues, stop := h.cues.Listen(cueBuffer)
	defer stop()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case cue, open := <-cues:
			if !open {
				return
			}
			if err := stream.Event(string(cue.Kind), cue); err != nil {
				h.logger.Debug().Err(err).Msg("cue stream closed")
				return
			}
		case <-keepAlive.C:
			if err := stream.KeepAlive(); err != nil {
				return
			}
		}
	}
}
