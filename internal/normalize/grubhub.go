package normalize

import (
	"math/rand"
	"strings"
	"time"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/money"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
)

// Grubhub export vocabulary. These exports carry no status column
// (every settled row is a completed order) and are known to ship a
// corrupted transaction_date column: a fixed-width field overflow that
// renders as a run of '#' characters.
var (
	grubhubDateColumns    = []string{"transaction_date", "Transaction Date"}
	grubhubRevenueColumns = []string{"subtotal", "Subtotal"}
	grubhubStoreColumns   = []string{"store_name", "Store Name"}
)

// corruptedDateCell reports the '#'-overflow corruption marker.
func corruptedDateCell(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 3 && strings.Count(s, "#") == len(s)
}

// GrubhubNormalizer handles Grubhub exports.
type GrubhubNormalizer struct{}

func (GrubhubNormalizer) Platform() platform.Platform { return platform.Grubhub }

func (n GrubhubNormalizer) Normalize(t RawTable, cfg Config) Result {
	res := Result{Platform: n.Platform()}

	dateIdx := findColumn(t.Headers, grubhubDateColumns)
	if dateIdx < 0 {
		return skipResult(n.Platform(), "no date column found")
	}
	revIdx := findColumn(t.Headers, grubhubRevenueColumns)
	if revIdx < 0 {
		return skipResult(n.Platform(), "no revenue column found")
	}
	storeIdx := findColumn(t.Headers, grubhubStoreColumns)

	corrupted := false
	for _, row := range t.Rows {
		if corruptedDateCell(t.Cell(row, dateIdx)) {
			corrupted = true
			break
		}
	}
	if corrupted {
		if cfg.CorruptPolicy == CorruptPolicyDropFile {
			return skipResult(n.Platform(), "date column corrupted (##### overflow); file dropped, no dates fabricated")
		}
		res.Warnings = append(res.Warnings,
			"date column corrupted; timestamps are synthesized placeholders, not real order times")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, row := range t.Rows {
		var ts time.Time
		synthetic := false
		if corrupted {
			ts = synthDate(cfg, rng)
			synthetic = true
		} else {
			parsed, ok := parseDate(t.Cell(row, dateIdx))
			if !ok {
				res.drop(DropBadDate)
				continue
			}
			ts = parsed
		}
		date := dateOnly(ts)

		revenue := money.Parse(t.Cell(row, revIdx))

		// No status column: settled Grubhub rows are completed orders.
		appendRecord(&res, cfg, date, ts, synthetic, n.Platform(),
			t.Cell(row, storeIdx), revenue, true, false)
	}
	return res
}

// synthDate fabricates a seeded in-window timestamp under
// CorruptPolicySynthesize. Placeholder data, flagged as such upstream.
func synthDate(cfg Config, rng *rand.Rand) time.Time {
	span := int(cfg.WindowEnd.Sub(cfg.WindowStart).Hours()/24) + 1
	if span < 1 {
		span = 1
	}
	day := cfg.WindowStart.AddDate(0, 0, rng.Intn(span))
	return synthTime(day, rng)
}
