// Package analytics aggregates revenue and volume figures over orders that
// are already held in memory.
package analytics

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"mechanical-burger/internal/model"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Filter narrows the orders a report covers. Zero values match everything.
type Filter struct {
	From           string            `json:"from,omitempty"`
	To             string            `json:"to,omitempty"`
	Status         model.OrderStatus `json:"status,omitempty"`
	OrderType      model.OrderType   `json:"orderType,omitempty"`
	CategoryID     string            `json:"category,omitempty"`
	IncludeDeleted bool              `json:"includeDeleted,omitempty"`

	start, end time.Time
}

// ParseFilter reads a filter from query parameters. Dates are YYYY-MM-DD in
// loc and both ends are inclusive whole days. "all" is the same as omitting a
// parameter.
func ParseFilter(q url.Values, loc *time.Location) (Filter, error) {
	var errs model.ValidationErrors
	f := Filter{
		From:           q.Get("from"),
		To:             q.Get("to"),
		Status:         model.OrderStatus(allToEmpty(q.Get("status"))),
		OrderType:      model.OrderType(allToEmpty(q.Get("orderType"))),
		CategoryID:     allToEmpty(q.Get("category")),
		IncludeDeleted: q.Get("includeDeleted") == "true",
	}

	if f.From != "" {
		start, err := time.ParseInLocation(dateLayout, f.From, loc)
		if err != nil {
			errs.Add("from", "must be a date formatted YYYY-MM-DD")
		}
		f.start = start
	}
	if f.To != "" {
		end, err := time.ParseInLocation(dateLayout, f.To, loc)
		if err != nil {
			errs.Add("to", "must be a date formatted YYYY-MM-DD")
		}
		f.end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if f.Status != "" && !f.Status.Valid() {
		errs.Add("status", "must be pending, preparing, ready or completed")
	}
	if f.OrderType != "" && !f.OrderType.Valid() {
		errs.Add("orderType", "must be dine-in, takeaway or delivery")
	}

	return f, errs.Err()
}

func allToEmpty(v string) string {
	if v == "all" {
		return ""
	}
	return v
}

// Match reports whether an order passes the filter.
func (f Filter) Match(o model.Order) bool {
	if !f.start.IsZero() && o.CreatedAt.Before(f.start) {
		return false
	}
	if !f.end.IsZero() && o.CreatedAt.After(f.end) {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.OrderType != "" && o.OrderType != f.OrderType {
		return false
	}
	if f.CategoryID != "" {
		for _, item := range o.Items {
			if item.MenuItem.CategoryID == f.CategoryID {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the orders that match the filter.
func (f Filter) Apply(orders []model.Order) []model.Order {
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

// Summary holds the headline figures.
type Summary struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalOrders        int     `json:"totalOrders"`
	AverageOrderValue  float64 `json:"averageOrderValue"`
	PendingOrders      int     `json:"pendingOrders"`
	PreparingOrders    int     `json:"preparingOrders"`
	ReadyOrders        int     `json:"readyOrders"`
	CompletedOrders    int     `json:"completedOrders"`
	AverageWaitMinutes float64 `json:"averageWaitMinutes"`
}

// Summarize computes the headline figures for orders.
func Summarize(orders []model.Order) Summary {
	var s Summary
	revenue := decimal.Zero
	wait := 0

	for _, o := range orders {
		revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
		wait += o.EstimatedTime
		switch o.Status {
		case model.StatusPending:
			s.PendingOrders++
		case model.StatusPreparing:
			s.PreparingOrders++
		case model.StatusReady:
			s.ReadyOrders++
		case model.StatusCompleted:
			s.CompletedOrders++
		}
	}

	s.TotalOrders = len(orders)
	s.TotalRevenue = revenue.Round(2).InexactFloat64()
	if s.TotalOrders > 0 {
		n := decimal.NewFromInt(int64(s.TotalOrders))
		s.AverageOrderValue = revenue.Div(n).Round(2).InexactFloat64()
		s.AverageWaitMinutes = decimal.NewFromInt(int64(wait)).Div(n).Round(1).InexactFloat64()
	}
	return s
}

// Overview is the dashboard view: summary plus the latest orders.
type Overview struct {
	Summary
	RecentOrders []model.Order `json:"recentOrders"`
}

// RecentLimit is how many orders the overview lists.
const RecentLimit = 10

// BuildOverview summarises orders and lists the most recent ones.
func BuildOverview(orders []model.Order) Overview {
	recent := make([]model.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}

	return Overview{Summary: Summarize(orders), RecentOrders: recent}
}

// ExportFilename names the downloaded analytics file for day t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("mechanical-burger-analytics-%s.json", t.Format(dateLayout))
}

// Export is the downloadable analytics document.
type Export struct {
	ExportedAt time.Time     `json:"exportedAt"`
	Filters    Filter        `json:"filters"`
	Report     Report        `json:"report"`
	Orders     []model.Order `json:"orders"`
}
