package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/aggregate"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/canonical"
)

const (
	sheetSummary  = "Summary"
	sheetPlatform = "Platform Analysis"
	sheetStore    = "Store Analysis"
	sheetRaw      = "Raw Data"
)

// WriteXLSX builds the multi-sheet workbook report: headline metrics,
// per-platform and per-store breakdowns, and the raw canonical table.
func WriteXLSX(w io.Writer, s aggregate.Summary, recs []canonical.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetSummary)
	for _, name := range []string{sheetPlatform, sheetStore, sheetRaw} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	if err := writeSummarySheet(f, s); err != nil {
		return err
	}
	if err := writePlatformSheet(f, s); err != nil {
		return err
	}
	if err := writeStoreSheet(f, s); err != nil {
		return err
	}
	if err := writeRawSheet(f, recs); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %s!%d: %w", sheet, row, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s aggregate.Summary) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Orders", s.Totals.Orders},
		{"Completed Orders", s.Totals.CompletedOrders},
		{"Cancelled Orders", s.Totals.CancelledOrders},
		{"Total Revenue", s.Totals.Revenue.StringFixed(2)},
		{"Average Order Value", s.Totals.AvgOrderValue.StringFixed(2)},
		{"Customers (proxy)", s.Totals.UniqueCustomers},
		{"Repeat Customer Rate %", s.Retention.RepeatCustomerRate},
		{"Month-over-Month Growth % (projection)", s.Retention.MonthOverMonthGrowthPct},
		{"Next Month Revenue (projection)", s.Retention.NextMonthRevenueProjection.StringFixed(2)},
	}
	if s.Retention.Synthetic {
		rows = append(rows, []interface{}{"Projection assumption", s.Retention.Assumption})
	}
	for i, row := range rows {
		if err := setRow(f, sheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writePlatformSheet(f *excelize.File, s aggregate.Summary) error {
	header := []interface{}{"Platform", "Orders", "Completed", "Revenue", "AOV",
		"Customers", "Completion %", "Cancellation %", "Assumed CAC", "Estimated CLV", "Estimated ROI %"}
	if err := setRow(f, sheetPlatform, 1, header); err != nil {
		return err
	}
	for i, p := range s.Platforms {
		row := []interface{}{string(p.Platform), p.Orders, p.CompletedOrders,
			p.Revenue.StringFixed(2), p.AvgOrderValue.StringFixed(2), p.Customers,
			p.CompletionRate, p.CancellationRate,
			p.AssumedCAC.StringFixed(2), p.EstimatedCLV.StringFixed(2), p.EstimatedROIPct}
		if err := setRow(f, sheetPlatform, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeStoreSheet(f *excelize.File, s aggregate.Summary) error {
	if err := setRow(f, sheetStore, 1, []interface{}{"Store", "Orders", "Revenue", "AOV"}); err != nil {
		return err
	}
	for i, st := range s.Stores {
		row := []interface{}{string(st.StoreID), st.Orders,
			st.Revenue.StringFixed(2), st.AvgOrderValue.StringFixed(2)}
		if err := setRow(f, sheetStore, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRawSheet(f *excelize.File, recs []canonical.Record) error {
	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := setRow(f, sheetRaw, 1, header); err != nil {
		return err
	}
	for i, r := range recs {
		row := []interface{}{
			r.OrderDate.Format("2006-01-02"),
			r.OrderTime.Format("2006-01-02 15:04:05"),
			string(r.Platform),
			string(r.StoreID),
			r.Revenue.StringFixed(2),
			r.IsCompleted,
			r.IsCancelled,
			r.CustomerKey,
			r.SyntheticTime,
		}
		if err := setRow(f, sheetRaw, i+2, row); err != nil {
			return err
		}
	}
	return nil
}
