package handler

import (
	"net/http"
	"time"

	"mechanical-burger/internal/analytics"
	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
)

// AnalyticsHandler serves aggregated order figures from the replica.
type AnalyticsHandler struct {
	replica Replica
	loc     *time.Location
	now     func() time.Time
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler. Days and hours are
// bucketed in loc.
func NewAnalyticsHandler(replica Replica, loc *time.Location, logger zerolog.Logger) *AnalyticsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsHandler{
		replica: replica,
		loc:     loc,
		now:     time.Now,
		logger:  logger.With().Str("handler", "analytics").Logger(),
	}
}

// Overview handles GET /api/admin/analytics/overview requests.
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	_, orders, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.BuildOverview(orders))
}

// Report handles GET /api/admin/analytics/report requests.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	_, orders, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.BuildReport(orders, h.replica.State().Categories, h.loc))
}

// Export handles GET /api/admin/analytics/export requests as a JSON download.
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, orders, ok := h.filtered(w, r)
	if !ok {
		return
	}

	now := h.now().In(h.loc)
	export := analytics.Export{
		ExportedAt: now,
		Filters:    filter,
		Report:     analytics.BuildReport(orders, h.replica.State().Categories, h.loc),
		Orders:     orders,
	}

	filename := analytics.ExportFilename(now)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	h.logger.Info().Str("filename", filename).Int("orders", len(orders)).Msg("analytics exported")
	writeJSON(w, http.StatusOK, export)
}

func (h *AnalyticsHandler) filtered(w http.ResponseWriter, r *http.Request) (analytics.Filter, []model.Order, bool) {
	filter, err := analytics.ParseFilter(r.URL.Query(), h.loc)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return analytics.Filter{}, nil, false
	}

	orders, err := h.replica.Orders(filter.IncludeDeleted)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return analytics.Filter{}, nil, false
	}

	return filter, filter.Apply(orders), true
}
