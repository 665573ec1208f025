package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/canonical"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
)

// Value tiers bucket customer proxies by total revenue against fixed
// thresholds. Fixed cutoffs keep tier membership stable as the dataset
// grows, unlike quantile buckets.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

var tierThresholds = []struct {
	tier string
	min  decimal.Decimal
}{
	{TierPlatinum, decimal.NewFromInt(150)},
	{TierGold, decimal.NewFromInt(75)},
	{TierSilver, decimal.NewFromInt(25)},
	{TierBronze, decimal.Zero},
}

// tierFor returns the value tier for a customer's total revenue.
func tierFor(revenue decimal.Decimal) string {
	for _, t := range tierThresholds {
		if revenue.GreaterThanOrEqual(t.min) {
			return t.tier
		}
	}
	return TierBronze
}

// CustomerStat is one customer proxy's rollup. The key is an
// approximation derived from order attributes, so a "customer" here is
// really an attribute bucket.
type CustomerStat struct {
	CustomerKey   int             `json:"customerKey"`
	Orders        int             `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
	FirstOrder    time.Time       `json:"firstOrder"`
	LastOrder     time.Time       `json:"lastOrder"`
	Platforms     int             `json:"platforms"`
	Tier          string          `json:"tier"`
}

// TierSummary aggregates one value tier.
type TierSummary struct {
	Tier      string          `json:"tier"`
	Customers int             `json:"customers"`
	Revenue   decimal.Decimal `json:"revenue"`
	AvgOrders float64         `json:"avgOrders"`
}

// Segmentation is the naive customer view: fixed-threshold value tiers
// plus the single- vs multi-platform loyalty split.
type Segmentation struct {
	Customers      []CustomerStat `json:"customers"`
	Tiers          []TierSummary  `json:"tiers"`
	SinglePlatform int            `json:"singlePlatform"`
	MultiPlatform  int            `json:"multiPlatform"`
}

func segment(completed []canonical.Record) Segmentation {
	type acc struct {
		orders    int
		revenue   decimal.Decimal
		first     time.Time
		last      time.Time
		platforms map[platform.Platform]struct{}
	}
	byKey := make(map[int]*acc)
	for _, r := range completed {
		a, ok := byKey[r.CustomerKey]
		if !ok {
			a = &acc{revenue: decimal.Zero, first: r.OrderDate, last: r.OrderDate,
				platforms: make(map[platform.Platform]struct{})}
			byKey[r.CustomerKey] = a
		}
		a.orders++
		a.revenue = a.revenue.Add(r.Revenue)
		if r.OrderDate.Before(a.first) {
			a.first = r.OrderDate
		}
		if r.OrderDate.After(a.last) {
			a.last = r.OrderDate
		}
		a.platforms[r.Platform] = struct{}{}
	}

	seg := Segmentation{}
	keys := make([]int, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	tierAcc := make(map[string]*TierSummary)
	tierOrders := make(map[string]int)
	for _, k := range keys {
		a := byKey[k]
		cs := CustomerStat{
			CustomerKey:   k,
			Orders:        a.orders,
			Revenue:       a.revenue,
			AvgOrderValue: avg(a.revenue, a.orders),
			FirstOrder:    a.first,
			LastOrder:     a.last,
			Platforms:     len(a.platforms),
			Tier:          tierFor(a.revenue),
		}
		seg.Customers = append(seg.Customers, cs)
		if cs.Platforms > 1 {
			seg.MultiPlatform++
		} else {
			seg.SinglePlatform++
		}
		ts, ok := tierAcc[cs.Tier]
		if !ok {
			ts = &TierSummary{Tier: cs.Tier, Revenue: decimal.Zero}
			tierAcc[cs.Tier] = ts
		}
		ts.Customers++
		ts.Revenue = ts.Revenue.Add(cs.Revenue)
		tierOrders[cs.Tier] += cs.Orders
	}

	for _, t := range tierThresholds {
		ts, ok := tierAcc[t.tier]
		if !ok {
			continue
		}
		if ts.Customers > 0 {
			ts.AvgOrders = float64(tierOrders[t.tier]) / float64(ts.Customers)
		}
		seg.Tiers = append(seg.Tiers, *ts)
	}
	return seg
}
