package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/canonical"
)

// CohortRow is one first-order-day cohort. Retained[n] is the share of
// the cohort that ordered again n days after its first order.
type CohortRow struct {
	CohortDate time.Time `json:"cohortDate"`
	Size       int       `json:"size"`
	Retained   []float64 `json:"retained"`
}

// Retention holds the cohort table plus the growth projections. The
// dataset covers a single month, so anything comparing against a prior
// period rests on an assumed baseline: those figures carry
// Synthetic=true and must be presented as projections, never as
// measured results.
type Retention struct {
	RepeatCustomerRate float64     `json:"repeatCustomerRate"`
	Cohorts            []CohortRow `json:"cohorts"`

	Synthetic                  bool            `json:"synthetic"`
	Assumption                 string          `json:"assumption,omitempty"`
	AssumedPriorRevenue        decimal.Decimal `json:"assumedPriorRevenue"`
	MonthOverMonthGrowthPct    float64         `json:"monthOverMonthGrowthPct"`
	NextMonthRevenueProjection decimal.Decimal `json:"nextMonthRevenueProjection"`
}

// Baselines for the synthetic projections: the assumed prior month is
// 85% of the observed one, and next month is projected at +10%.
var (
	assumedPriorShare = decimal.NewFromFloat(0.85)
	projectedGrowth   = decimal.NewFromFloat(1.10)
)

func retention(completed []canonical.Record, totalRevenue decimal.Decimal) Retention {
	ret := Retention{
		AssumedPriorRevenue:        decimal.Zero,
		NextMonthRevenueProjection: decimal.Zero,
	}
	if len(completed) == 0 {
		return ret
	}

	// First-order day per customer proxy, then daily cohorts.
	first := make(map[int]time.Time)
	orderDays := make(map[int]map[time.Time]struct{})
	for _, r := range completed {
		f, ok := first[r.CustomerKey]
		if !ok || r.OrderDate.Before(f) {
			first[r.CustomerKey] = r.OrderDate
		}
		days, ok := orderDays[r.CustomerKey]
		if !ok {
			days = make(map[time.Time]struct{})
			orderDays[r.CustomerKey] = days
		}
		days[r.OrderDate] = struct{}{}
	}

	repeat := 0
	cohortMembers := make(map[time.Time][]int)
	for key, f := range first {
		cohortMembers[f] = append(cohortMembers[f], key)
		if len(orderDays[key]) > 1 {
			repeat++
		}
	}
	ret.RepeatCustomerRate = rate(repeat, len(first))

	cohortDates := make([]time.Time, 0, len(cohortMembers))
	maxDate := time.Time{}
	for d := range cohortMembers {
		cohortDates = append(cohortDates, d)
	}
	sort.Slice(cohortDates, func(i, j int) bool { return cohortDates[i].Before(cohortDates[j]) })
	for key := range orderDays {
		for d := range orderDays[key] {
			if d.After(maxDate) {
				maxDate = d
			}
		}
	}

	for _, d := range cohortDates {
		members := cohortMembers[d]
		periods := int(maxDate.Sub(d).Hours()/24) + 1
		row := CohortRow{CohortDate: d, Size: len(members), Retained: make([]float64, periods)}
		for _, key := range members {
			for day := range orderDays[key] {
				offset := int(day.Sub(d).Hours() / 24)
				if offset >= 0 && offset < periods {
					row.Retained[offset]++
				}
			}
		}
		for i := range row.Retained {
			row.Retained[i] /= float64(len(members))
		}
		ret.Cohorts = append(ret.Cohorts, row)
	}

	// Single-period dataset: prior-month figures are assumed, not
	// measured.
	ret.Synthetic = true
	ret.Assumption = "prior-month revenue assumed at 85% of observed; next month projected at +10%"
	ret.AssumedPriorRevenue = totalRevenue.Mul(assumedPriorShare).Round(2)
	if ret.AssumedPriorRevenue.IsPositive() {
		cur, _ := totalRevenue.Float64()
		prior, _ := ret.AssumedPriorRevenue.Float64()
		ret.MonthOverMonthGrowthPct = (cur - prior) / prior * 100
	}
	ret.NextMonthRevenueProjection = totalRevenue.Mul(projectedGrowth).Round(2)
	return ret
}
