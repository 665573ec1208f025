// Package export projects the canonical table and the aggregate
// bundle into the report formats consumed outside the pipeline. All
// projections are pure renderings of the same in-memory data.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/canonical"
)

// Now is split out for testability of generated-at stamps.
var Now = func() time.Time { return time.Now().UTC() }

var csvHeader = []string{
	"Date", "DateTime", "Platform", "Store", "Revenue",
	"Is_Completed", "Is_Cancelled", "Customer_ID", "Synthetic_Time",
}

// WriteCSV re-exports the canonical table as UTF-8 CSV with a BOM, the
// encoding spreadsheet tools expect for files carrying Chinese store
// names.
func WriteCSV(w io.Writer, recs []canonical.Record) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range recs {
		row := []string{
			r.OrderDate.Format("2006-01-02"),
			r.OrderTime.Format("2006-01-02 15:04:05"),
			string(r.Platform),
			string(r.StoreID),
			r.Revenue.StringFixed(2),
			strconv.FormatBool(r.IsCompleted),
			strconv.FormatBool(r.IsCancelled),
			strconv.Itoa(r.CustomerKey),
			strconv.FormatBool(r.SyntheticTime),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
