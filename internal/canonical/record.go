// Package canonical defines the unified per-order row schema all
// platform exports are normalized into.
package canonical

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/stores"
)

// Record is one normalized order. Records are never mutated after
// normalization; time-derived buckets are computed on demand so they
// cannot go stale when the source set is re-filtered.
type Record struct {
	OrderDate time.Time `json:"orderDate"` // calendar date, midnight UTC
	OrderTime time.Time `json:"orderTime"` // date plus time of day

	// SyntheticTime marks an OrderTime whose hour/minute were
	// synthesized because the source had no time component. Consumers
	// must be able to tell these from genuine timestamps.
	SyntheticTime bool `json:"syntheticTime,omitempty"`

	Platform    platform.Platform `json:"platform"`
	StoreID     stores.StoreID    `json:"storeId"`
	Revenue     decimal.Decimal   `json:"revenue"`
	IsCompleted bool              `json:"isCompleted"`
	IsCancelled bool              `json:"isCancelled"`

	// CustomerKey is an approximate customer proxy, not an identity:
	// distinct customers with the same store/platform/amount collide.
	CustomerKey int `json:"customerKey"`
}

// CustomerProxy derives the customer key from the attributes the
// exports actually carry. FNV-1a keeps it stable across runs.
func CustomerProxy(store stores.StoreID, p platform.Platform, revenue decimal.Decimal) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s-%s-%s", store, p, revenue.String())
	return int(h.Sum32() % 10000)
}

// Hour returns the hour-of-day bucket for time-of-day analysis.
func (r Record) Hour() int { return r.OrderTime.Hour() }

// Weekday returns the day-of-week bucket.
func (r Record) Weekday() time.Weekday { return r.OrderTime.Weekday() }

// ISOWeek returns the ISO week number of the order date.
func (r Record) ISOWeek() int {
	_, week := r.OrderDate.ISOWeek()
	return week
}
