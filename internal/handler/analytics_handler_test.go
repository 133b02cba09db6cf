package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mechanical-burger/internal/analytics"
	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyticsReplica() *stubReplica {
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rep := &stubReplica{}
	rep.state.Categories = []model.Category{{ID: "c1", Name: "Beef"}}
	rep.state.Orders = []model.Order{
		{ID: "o1", Status: model.StatusCompleted, OrderType: model.OrderTypeDineIn, TotalAmount: 24, EstimatedTime: 10, CreatedAt: day},
		{ID: "o2", Status: model.StatusPending, OrderType: model.OrderTypeTakeaway, TotalAmount: 13, EstimatedTime: 20, CreatedAt: day.AddDate(0, 0, 1)},
	}
	rep.state.DeletedOrders = []model.DeletedOrder{
		{ID: "d1", OriginalOrderID: "o0", Status: model.StatusPending, OrderType: model.OrderTypeDineIn, TotalAmount: 50, OrderedAt: day},
	}
	return rep
}

func newAnalyticsHandler(rep Replica) *AnalyticsHandler {
	h := NewAnalyticsHandler(rep, time.UTC, zerolog.Nop())
	h.now = func() time.Time { return time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC) }
	return h
}

func TestAnalyticsHandler_Overview(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedOrders int
		expectedTotal  float64
	}{
		{name: "everything", query: "", expectedStatus: http.StatusOK, expectedOrders: 2, expectedTotal: 37},
		{name: "single day", query: "?from=2026-03-14&to=2026-03-14", expectedStatus: http.StatusOK, expectedOrders: 1, expectedTotal: 24},
		{name: "by order type", query: "?orderType=takeaway", expectedStatus: http.StatusOK, expectedOrders: 1, expectedTotal: 13},
		{name: "all is no filter", query: "?status=all&orderType=all", expectedStatus: http.StatusOK, expectedOrders: 2, expectedTotal: 37},
		{name: "with deleted", query: "?includeDeleted=true", expectedStatus: http.StatusOK, expectedOrders: 3, expectedTotal: 87},
		{name: "bad date", query: "?from=14/03/2026", expectedStatus: http.StatusBadRequest},
		{name: "bad status", query: "?status=burnt", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAnalyticsHandler(analyticsReplica())

			rec := httptest.NewRecorder()
			h.Overview(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/overview"+tt.query, nil))

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, model.ErrCodeValidationFailed, resp.Error)
				assert.NotEmpty(t, resp.Fields)
				return
			}

			var overview analytics.Overview
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
			assert.Equal(t, tt.expectedOrders, overview.TotalOrders)
			assert.InDelta(t, tt.expectedTotal, overview.TotalRevenue, 0.001)
		})
	}
}

func TestAnalyticsHandler_Export(t *testing.T) {
	h := newAnalyticsHandler(analyticsReplica())

	rec := httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/export?status=completed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="mechanical-burger-analytics-2026-03-20.json"`, rec.Header().Get("Content-Disposition"))

	var export analytics.Export
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &export))
	assert.Equal(t, model.StatusCompleted, export.Filters.Status)
	require.Len(t, export.Orders, 1)
	assert.Equal(t, "o1", export.Orders[0].ID)
}

func TestAnalyticsHandler_ReplicaUnavailable(t *testing.T) {
	h := newAnalyticsHandler(&stubReplica{orderErr: model.ErrReplicaUnavailable})

	rec := httptest.NewRecorder()
	h.Report(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/report", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
