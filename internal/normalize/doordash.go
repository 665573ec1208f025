package normalize

import (
	"strings"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/money"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
)

// DoorDash export vocabulary. The timestamp column carries a full
// local datetime, so no hour synthesis is needed for well-formed rows.
var (
	doordashDateColumns    = []string{"接单当地时间", "Order Received Local Time", "Local Time"}
	doordashRevenueColumns = []string{"小计", "Subtotal"}
	doordashStatusColumns  = []string{"最终订单状态", "Final Order Status"}
	doordashStoreColumns   = []string{"店铺名称", "Store Name"}

	doordashCompletedStatuses = []string{"Delivered", "已完成", "Picked Up"}
)

// DoorDashNormalizer handles DoorDash exports.
type DoorDashNormalizer struct{}

func (DoorDashNormalizer) Platform() platform.Platform { return platform.DoorDash }

func (n DoorDashNormalizer) Normalize(t RawTable, cfg Config) Result {
	res := Result{Platform: n.Platform()}

	dateIdx := findColumn(t.Headers, doordashDateColumns)
	if dateIdx < 0 {
		return skipResult(n.Platform(), "no date column found")
	}
	revIdx := findColumn(t.Headers, doordashRevenueColumns)
	if revIdx < 0 {
		return skipResult(n.Platform(), "no revenue column found")
	}
	statusIdx := findColumn(t.Headers, doordashStatusColumns)
	storeIdx := findColumn(t.Headers, doordashStoreColumns)

	for _, row := range t.Rows {
		ts, ok := parseDate(t.Cell(row, dateIdx))
		if !ok {
			res.drop(DropBadDate)
			continue
		}
		date := dateOnly(ts)

		revenue := money.Parse(t.Cell(row, revIdx))

		completed, cancelled := true, false
		if statusIdx >= 0 {
			status := t.Cell(row, statusIdx)
			switch {
			// Any cancellation variant ("Cancelled", "Merchant
			// Cancelled", 已取消) marks the order cancelled.
			case strings.Contains(strings.ToLower(status), "cancel") || strings.Contains(status, "已取消"):
				completed, cancelled = false, true
			case matchStatus(status, doordashCompletedStatuses):
				completed = true
			default:
				completed = true
			}
		}

		appendRecord(&res, cfg, date, ts, false, n.Platform(),
			t.Cell(row, storeIdx), revenue, completed, cancelled)
	}
	return res
}
