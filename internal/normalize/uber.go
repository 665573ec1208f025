package normalize

import (
	"math/rand"
	"time"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/money"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
)

// Uber Eats export vocabulary. Headers arrive in Chinese or English
// depending on export version, and the real header row often sits
// below a report banner.
var (
	uberDateColumns    = []string{"订单日期", "订单下单时的当地日期", "Order Date"}
	uberTimeColumns    = []string{"订单接受时间", "Order Accept Time"}
	uberRevenueColumns = []string{"销售额（含税）", "餐点销售额总计（含税费）", "Sales (incl. tax)", "Food Sales Total (incl. tax)"}
	uberStatusColumns  = []string{"订单状态", "Order Status"}
	uberStoreColumns   = []string{"餐厅名称", "Restaurant"}

	uberCompletedStatuses = []string{"已完成", "Completed"}
	uberCancelledStatuses = []string{"已取消", "退款", "未完成", "Cancelled", "Refunded"}
)

// UberNormalizer handles Uber Eats exports.
type UberNormalizer struct{}

func (UberNormalizer) Platform() platform.Platform { return platform.UberEats }

func (n UberNormalizer) Normalize(t RawTable, cfg Config) Result {
	t = promoteHeaderRow(t, uberDateColumns)
	res := Result{Platform: n.Platform()}

	dateIdx := findColumn(t.Headers, uberDateColumns)
	if dateIdx < 0 {
		return skipResult(n.Platform(), "no date column found")
	}
	revIdx := findColumn(t.Headers, uberRevenueColumns)
	if revIdx < 0 {
		return skipResult(n.Platform(), "no revenue column found")
	}
	timeIdx := findColumn(t.Headers, uberTimeColumns)
	statusIdx := findColumn(t.Headers, uberStatusColumns)
	storeIdx := findColumn(t.Headers, uberStoreColumns)

	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, row := range t.Rows {
		parsed, ok := parseDate(t.Cell(row, dateIdx))
		if !ok {
			res.drop(DropBadDate)
			continue
		}
		date := dateOnly(parsed)

		var ts time.Time
		synthetic := false
		if timeIdx >= 0 {
			if full, ok := parseDate(t.Cell(row, dateIdx) + " " + t.Cell(row, timeIdx)); ok {
				ts = full
			}
		}
		if ts.IsZero() {
			ts = synthTime(date, rng)
			synthetic = true
		}

		revenue := money.Parse(t.Cell(row, revIdx))

		completed, cancelled := true, false
		if statusIdx >= 0 {
			status := t.Cell(row, statusIdx)
			switch {
			case matchStatus(status, uberCancelledStatuses):
				completed, cancelled = false, true
			case matchStatus(status, uberCompletedStatuses):
				completed = true
			default:
				// Unrecognized vocabulary counts as completed so valid
				// revenue is not silently discarded.
				completed = true
			}
		}

		appendRecord(&res, cfg, date, ts, synthetic, n.Platform(),
			t.Cell(row, storeIdx), revenue, completed, cancelled)
	}
	return res
}
