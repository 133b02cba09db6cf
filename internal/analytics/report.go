package analytics

import (
	"sort"
	"time"

	"mechanical-burger/internal/model"

	"github.com/shopspring/decimal"
)

// TopLimit bounds every ranked list in a report.
const TopLimit = 10

// ItemStat is the volume of one menu item.
type ItemStat struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// CategoryStat is the volume of one category.
type CategoryStat struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
}

// CustomerStat is one customer's spend, keyed by name and phone.
type CustomerStat struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// BucketStat counts orders and revenue in a time bucket.
type BucketStat struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// HourStat is the bucket for one hour of the day.
type HourStat struct {
	Hour int `json:"hour"`
	BucketStat
}

// DayStat is the bucket for one calendar day.
type DayStat struct {
	Date string `json:"date"`
	BucketStat
}

// Report is the full analytics answer for a filter.
type Report struct {
	Summary       Summary        `json:"summary"`
	TopItems      []ItemStat     `json:"topItems"`
	TopCategories []CategoryStat `json:"topCategories"`
	TopCustomers  []CustomerStat `json:"topCustomers"`
	Hourly        []HourStat     `json:"hourly"`
	Daily         []DayStat      `json:"daily"`
	PeakHour      int            `json:"peakHour"`
}

type itemAcc struct {
	stat    ItemStat
	revenue decimal.Decimal
}

type categoryAcc struct {
	stat    CategoryStat
	revenue decimal.Decimal
	orders  map[string]bool
}

type customerAcc struct {
	stat    CustomerStat
	revenue decimal.Decimal
}

type bucketAcc struct {
	orders  int
	revenue decimal.Decimal
}

func (b bucketAcc) stat() BucketStat {
	return BucketStat{Orders: b.orders, Revenue: b.revenue.Round(2).InexactFloat64()}
}

// BuildReport aggregates already filtered orders. Category names come from
// categories; unknown categories are reported as "Unknown". Times are
// bucketed in loc. PeakHour is -1 when there are no orders.
func BuildReport(orders []model.Order, categories []model.Category, loc *time.Location) Report {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	categoryName := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return "Unknown"
	}

	items := map[string]*itemAcc{}
	cats := map[string]*categoryAcc{}
	customers := map[string]*customerAcc{}
	hours := make([]bucketAcc, 24)
	days := map[string]*bucketAcc{}

	for _, o := range orders {
		amount := decimal.NewFromFloat(o.TotalAmount)

		key := o.CustomerName + "|" + o.PhoneNumber
		cust, ok := customers[key]
		if !ok {
			cust = &customerAcc{stat: CustomerStat{Name: o.CustomerName, Phone: o.PhoneNumber}}
			customers[key] = cust
		}
		cust.stat.Orders++
		cust.revenue = cust.revenue.Add(amount)

		at := o.CreatedAt.In(loc)
		hours[at.Hour()].orders++
		hours[at.Hour()].revenue = hours[at.Hour()].revenue.Add(amount)

		day := at.Format(dateLayout)
		d, ok := days[day]
		if !ok {
			d = &bucketAcc{}
			days[day] = d
		}
		d.orders++
		d.revenue = d.revenue.Add(amount)

		for _, item := range o.Items {
			lineTotal := decimal.NewFromFloat(item.TotalPrice)
			catID := item.MenuItem.CategoryID

			it, ok := items[item.MenuItem.ID]
			if !ok {
				it = &itemAcc{stat: ItemStat{ID: item.MenuItem.ID, Name: item.MenuItem.Name, Category: categoryName(catID)}}
				items[item.MenuItem.ID] = it
			}
			it.stat.Quantity += item.Quantity
			it.revenue = it.revenue.Add(lineTotal)

			cat, ok := cats[catID]
			if !ok {
				cat = &categoryAcc{stat: CategoryStat{ID: catID, Name: categoryName(catID)}, orders: map[string]bool{}}
				cats[catID] = cat
			}
			cat.stat.Quantity += item.Quantity
			cat.revenue = cat.revenue.Add(lineTotal)
			cat.orders[o.ID] = true
		}
	}

	report := Report{
		Summary:       Summarize(orders),
		TopItems:      []ItemStat{},
		TopCategories: []CategoryStat{},
		TopCustomers:  []CustomerStat{},
		Hourly:        make([]HourStat, 24),
		Daily:         []DayStat{},
		PeakHour:      -1,
	}

	for _, it := range items {
		it.stat.Revenue = it.revenue.Round(2).InexactFloat64()
		report.TopItems = append(report.TopItems, it.stat)
	}
	sort.Slice(report.TopItems, func(i, j int) bool {
		a, b := report.TopItems[i], report.TopItems[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	report.TopItems = limit(report.TopItems)

	for _, cat := range cats {
		cat.stat.Revenue = cat.revenue.Round(2).InexactFloat64()
		cat.stat.Orders = len(cat.orders)
		report.TopCategories = append(report.TopCategories, cat.stat)
	}
	sort.Slice(report.TopCategories, func(i, j int) bool {
		a, b := report.TopCategories[i], report.TopCategories[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})
	report.TopCategories = limit(report.TopCategories)

	for _, cust := range customers {
		cust.stat.Revenue = cust.revenue.Round(2).InexactFloat64()
		report.TopCustomers = append(report.TopCustomers, cust.stat)
	}
	sort.Slice(report.TopCustomers, func(i, j int) bool {
		a, b := report.TopCustomers[i], report.TopCustomers[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})
	report.TopCustomers = limit(report.TopCustomers)

	peak := 0
	for h, acc := range hours {
		report.Hourly[h] = HourStat{Hour: h, BucketStat: acc.stat()}
		if acc.orders > hours[peak].orders {
			peak = h
		}
	}
	if len(orders) > 0 {
		report.PeakHour = peak
	}

	for date, acc := range days {
		report.Daily = append(report.Daily, DayStat{Date: date, BucketStat: acc.stat()})
	}
	sort.Slice(report.Daily, func(i, j int) bool { return report.Daily[i].Date < report.Daily[j].Date })

	return report
}

func limit[T any](s []T) []T {
	if len(s) > TopLimit {
		return s[:TopLimit]
	}
	return s
}
