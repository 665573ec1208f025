// Package aggregate computes the descriptive metric bundle from the
// canonical order table. Everything here is a pure function of its
// input: identical tables produce byte-identical summaries.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/canonical"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/stores"
)

// Totals are the headline figures. Revenue and AOV cover completed
// orders only; order counts cover everything.
type Totals struct {
	Orders          int             `json:"orders"`
	CompletedOrders int             `json:"completedOrders"`
	CancelledOrders int             `json:"cancelledOrders"`
	Revenue         decimal.Decimal `json:"revenue"`
	AvgOrderValue   decimal.Decimal `json:"avgOrderValue"`
	UniqueCustomers int             `json:"uniqueCustomers"`
}

// PlatformStat is one platform's breakdown. CAC is an assumption, and
// CLV/ROI derive from it; they are estimates, not measurements.
type PlatformStat struct {
	Platform         platform.Platform `json:"platform"`
	Orders           int               `json:"orders"`
	CompletedOrders  int               `json:"completedOrders"`
	Revenue          decimal.Decimal   `json:"revenue"`
	AvgOrderValue    decimal.Decimal   `json:"avgOrderValue"`
	Customers        int               `json:"customers"`
	CompletionRate   float64           `json:"completionRate"`
	CancellationRate float64           `json:"cancellationRate"`
	AssumedCAC       decimal.Decimal   `json:"assumedCac"`
	EstimatedCLV     decimal.Decimal   `json:"estimatedClv"`
	EstimatedROIPct  float64           `json:"estimatedRoiPct"`
}

// StoreStat is one storefront's breakdown over completed orders.
type StoreStat struct {
	StoreID       stores.StoreID  `json:"storeId"`
	Orders        int             `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
}

// DailyPoint is one day of the completed-order time series. Growth is
// day-over-day percent change; the first day has none.
type DailyPoint struct {
	Date             time.Time       `json:"date"`
	Orders           int             `json:"orders"`
	Revenue          decimal.Decimal `json:"revenue"`
	OrdersGrowthPct  float64         `json:"ordersGrowthPct"`
	RevenueGrowthPct float64         `json:"revenueGrowthPct"`
}

// WeeklyPoint buckets completed orders by ISO week.
type WeeklyPoint struct {
	ISOWeek int             `json:"isoWeek"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary is the full aggregate bundle handed to the reporting layer.
type Summary struct {
	NoData       bool           `json:"noData"`
	Totals       Totals         `json:"totals"`
	Platforms    []PlatformStat `json:"platforms"`
	Stores       []StoreStat    `json:"stores"`
	Daily        []DailyPoint   `json:"daily"`
	Weekly       []WeeklyPoint  `json:"weekly"`
	HourlyOrders [7][24]int     `json:"hourlyOrders"` // weekday x hour, completed orders
	Segmentation Segmentation   `json:"segmentation"`
	Retention    Retention      `json:"retention"`
}

// assumedCAC carries the per-platform customer-acquisition-cost
// assumptions used for the ROI estimate.
var assumedCAC = map[platform.Platform]decimal.Decimal{
	platform.UberEats: decimal.NewFromInt(12),
	platform.DoorDash: decimal.NewFromInt(8),
	platform.Grubhub:  decimal.NewFromInt(6),
}

// Compute builds the Summary. An empty table yields a zero Summary
// with NoData set; it never fails.
func Compute(records []canonical.Record) Summary {
	if len(records) == 0 {
		return Summary{
			NoData: true,
			Totals: Totals{Revenue: decimal.Zero, AvgOrderValue: decimal.Zero},
		}
	}

	var completed []canonical.Record
	cancelledCount := 0
	for _, r := range records {
		if r.IsCompleted {
			completed = append(completed, r)
		}
		if r.IsCancelled {
			cancelledCount++
		}
	}

	s := Summary{
		Totals: Totals{
			Orders:          len(records),
			CompletedOrders: len(completed),
			CancelledOrders: cancelledCount,
			Revenue:         sumRevenue(completed),
			UniqueCustomers: countCustomers(completed),
		},
	}
	s.Totals.AvgOrderValue = avg(s.Totals.Revenue, len(completed))
	s.Platforms = platformStats(records, completed)
	s.Stores = storeStats(completed)
	s.Daily = dailySeries(completed)
	s.Weekly = weeklySeries(completed)
	s.HourlyOrders = hourlyMatrix(completed)
	s.Segmentation = segment(completed)
	s.Retention = retention(completed, s.Totals.Revenue)
	return s
}

func sumRevenue(recs []canonical.Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(r.Revenue)
	}
	return total
}

func countCustomers(recs []canonical.Record) int {
	seen := make(map[int]struct{}, len(recs))
	for _, r := range recs {
		seen[r.CustomerKey] = struct{}{}
	}
	return len(seen)
}

func avg(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(n)), 2)
}

func platformStats(all, completed []canonical.Record) []PlatformStat {
	var out []PlatformStat
	for _, p := range platform.All() {
		var total, done, cancelled int
		revenue := decimal.Zero
		customers := make(map[int]struct{})
		for _, r := range all {
			if r.Platform != p {
				continue
			}
			total++
			if r.IsCancelled {
				cancelled++
			}
		}
		for _, r := range completed {
			if r.Platform != p {
				continue
			}
			done++
			revenue = revenue.Add(r.Revenue)
			customers[r.CustomerKey] = struct{}{}
		}
		if total == 0 {
			continue
		}
		st := PlatformStat{
			Platform:         p,
			Orders:           total,
			CompletedOrders:  done,
			Revenue:          revenue,
			AvgOrderValue:    avg(revenue, done),
			Customers:        len(customers),
			CompletionRate:   rate(done, total),
			CancellationRate: rate(cancelled, total),
			AssumedCAC:       assumedCAC[p],
		}
		if len(customers) > 0 {
			perCustomer := revenue.DivRound(decimal.NewFromInt(int64(len(customers))), 4)
			st.EstimatedCLV = perCustomer.Mul(decimal.NewFromFloat(1.5)).Round(2)
			if st.AssumedCAC.IsPositive() {
				diff, _ := st.EstimatedCLV.Sub(st.AssumedCAC).Float64()
				cac, _ := st.AssumedCAC.Float64()
				st.EstimatedROIPct = diff / cac * 100
			}
		} else {
			st.EstimatedCLV = decimal.Zero
		}
		out = append(out, st)
	}
	return out
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func storeStats(completed []canonical.Record) []StoreStat {
	order := append(stores.All(), stores.Unknown)
	var out []StoreStat
	for _, id := range order {
		var n int
		revenue := decimal.Zero
		for _, r := range completed {
			if r.StoreID != id {
				continue
			}
			n++
			revenue = revenue.Add(r.Revenue)
		}
		if n == 0 {
			continue
		}
		out = append(out, StoreStat{
			StoreID:       id,
			Orders:        n,
			Revenue:       revenue,
			AvgOrderValue: avg(revenue, n),
		})
	}
	return out
}

func dailySeries(completed []canonical.Record) []DailyPoint {
	byDay := make(map[time.Time]*DailyPoint)
	for _, r := range completed {
		p, ok := byDay[r.OrderDate]
		if !ok {
			p = &DailyPoint{Date: r.OrderDate, Revenue: decimal.Zero}
			byDay[r.OrderDate] = p
		}
		p.Orders++
		p.Revenue = p.Revenue.Add(r.Revenue)
	}
	out := make([]DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	for i := 1; i < len(out); i++ {
		out[i].OrdersGrowthPct = rate(out[i].Orders-out[i-1].Orders, out[i-1].Orders)
		prev, _ := out[i-1].Revenue.Float64()
		cur, _ := out[i].Revenue.Float64()
		if prev != 0 {
			out[i].RevenueGrowthPct = (cur - prev) / prev * 100
		}
	}
	return out
}

func weeklySeries(completed []canonical.Record) []WeeklyPoint {
	byWeek := make(map[int]*WeeklyPoint)
	for _, r := range completed {
		w := r.ISOWeek()
		p, ok := byWeek[w]
		if !ok {
			p = &WeeklyPoint{ISOWeek: w, Revenue: decimal.Zero}
			byWeek[w] = p
		}
		p.Orders++
		p.Revenue = p.Revenue.Add(r.Revenue)
	}
	out := make([]WeeklyPoint, 0, len(byWeek))
	for _, p := range byWeek {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ISOWeek < out[j].ISOWeek })
	return out
}

func hourlyMatrix(completed []canonical.Record) [7][24]int {
	var m [7][24]int
	for _, r := range completed {
		m[int(r.Weekday())][r.Hour()]++
	}
	return m
}
