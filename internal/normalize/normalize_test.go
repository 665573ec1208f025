package normalize

import (
	"reflect"
	"strings"
	"testing"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/platform"
	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/stores"
)

func runCSV(t *testing.T, p platform.Platform, csv string, cfg Config) Result {
	t.Helper()
	n, err := ForPlatform(p)
	if err != nil {
		t.Fatalf("ForPlatform(%s): %v", p, err)
	}
	res, err := Run(n, []byte(csv), cfg)
	if err != nil {
		t.Fatalf("Run(%s): %v", p, err)
	}
	return res
}

func TestUber_BannerRowAndChineseHeaders(t *testing.T) {
	csv := "Lucky Kitchen 销售报告 2025-10,,,,\n" +
		"订单日期,订单接受时间,订单状态,餐厅名称,销售额（含税）\n" +
		"2025-10-05,12:30,已完成,Lucky Kitchen LK001 (2452 Broadway),$25.99\n" +
		"2025-10-06,18:05,已取消,Lucky Kitchen LK002 (6th Ave),$14.50\n" +
		"2025-10-07,19:40,退款,Lucky Kitchen LK001 (2452 Broadway),$9.99\n"
	res := runCSV(t, platform.UberEats, csv, DefaultConfig())

	if res.Skipped {
		t.Fatalf("unexpected skip: %s", res.SkipReason)
	}
	if len(res.Records) != 3 {
		t.Fatalf("want 3 records, got %d", len(res.Records))
	}
	r := res.Records[0]
	if r.StoreID != stores.Broadway {
		t.Fatalf("store = %s, want broadway", r.StoreID)
	}
	if r.Revenue.String() != "25.99" {
		t.Fatalf("revenue = %s, want 25.99", r.Revenue)
	}
	if !r.IsCompleted || r.IsCancelled {
		t.Fatalf("first row should be completed: %+v", r)
	}
	if r.SyntheticTime {
		t.Fatalf("time column present, should not synthesize")
	}
	if r.OrderTime.Hour() != 12 || r.OrderTime.Minute() != 30 {
		t.Fatalf("order time = %v, want 12:30", r.OrderTime)
	}
	for _, r := range res.Records[1:] {
		if r.IsCompleted || !r.IsCancelled {
			t.Fatalf("cancelled/refunded row misclassified: %+v", r)
		}
	}
}

func TestUber_MissingTimeColumnSynthesizesBusinessHours(t *testing.T) {
	csv := "Order Date,Order Status,Restaurant,Sales (incl. tax)\n" +
		"2025-10-10,Completed,Lucky Kitchen LK004 (Fulton St),33.00\n"
	res := runCSV(t, platform.UberEats, csv, DefaultConfig())

	if len(res.Records) != 1 {
		t.Fatalf("want 1 record, got %d", len(res.Records))
	}
	r := res.Records[0]
	if !r.SyntheticTime {
		t.Fatalf("expected synthesized time flag")
	}
	if h := r.OrderTime.Hour(); h < synthHourMin || h >= synthHourMax {
		t.Fatalf("synthesized hour %d outside business hours", h)
	}
}

func TestUber_SlashDateKeepsRealTimeColumn(t *testing.T) {
	csv := "Order Date,Order Accept Time,Order Status,Restaurant,Sales (incl. tax)\n" +
		"2025/10/05,12:30,Completed,Lucky Kitchen LK001 (2452 Broadway),10.00\n"
	res := runCSV(t, platform.UberEats, csv, DefaultConfig())

	if len(res.Records) != 1 {
		t.Fatalf("want 1 record, got %d", len(res.Records))
	}
	r := res.Records[0]
	if r.SyntheticTime {
		t.Fatalf("real time column must not be discarded for slash-separated dates")
	}
	if r.OrderTime.Hour() != 12 || r.OrderTime.Minute() != 30 {
		t.Fatalf("order time = %v, want 12:30", r.OrderTime)
	}
}

func TestUber_UnrecognizedStatusCountsCompleted(t *testing.T) {
	csv := "订单日期,订单状态,餐厅名称,销售额（含税）\n" +
		"2025-10-03,处理中,Lucky Kitchen LK005 (Union Sq),12.00\n"
	res := runCSV(t, platform.UberEats, csv, DefaultConfig())
	if len(res.Records) != 1 {
		t.Fatalf("want 1 record, got %d", len(res.Records))
	}
	if !res.Records[0].IsCompleted || res.Records[0].IsCancelled {
		t.Fatalf("unrecognized status should count completed: %+v", res.Records[0])
	}
}

func TestUber_MissingRevenueColumnSkipsFile(t *testing.T) {
	csv := "订单日期,订单状态\n2025-10-01,已完成\n"
	res := runCSV(t, platform.UberEats, csv, DefaultConfig())
	if !res.Skipped || !strings.Contains(res.SkipReason, "revenue") {
		t.Fatalf("want revenue-column skip, got %+v", res)
	}
}

func TestDoorDash_FullTimestampAndCancelVariants(t *testing.T) {
	csv := "接单当地时间,最终订单状态,店铺名称,小计\n" +
		"10/5/2025 18:45,Delivered,Lucky Kitchen #001,20.00\n" +
		"10/6/2025 12:15,Merchant Cancelled,Lucky Kitchen #002,15.00\n" +
		"10/7/2025 13:00,已取消,Lucky Kitchen #003,18.00\n"
	res := runCSV(t, platform.DoorDash, csv, DefaultConfig())

	if len(res.Records) != 3 {
		t.Fatalf("want 3 records, got %d", len(res.Records))
	}
	r := res.Records[0]
	if r.SyntheticTime {
		t.Fatalf("doordash timestamps are real, not synthesized")
	}
	if r.OrderTime.Hour() != 18 || r.OrderTime.Minute() != 45 {
		t.Fatalf("order time = %v, want 18:45", r.OrderTime)
	}
	if !r.IsCompleted {
		t.Fatalf("delivered row should be completed")
	}
	for i, r := range res.Records[1:] {
		if !r.IsCancelled || r.IsCompleted {
			t.Fatalf("row %d: cancellation variant misclassified: %+v", i+1, r)
		}
	}
}

func TestDoorDash_OutOfWindowRowsDropped(t *testing.T) {
	csv := "接单当地时间,最终订单状态,店铺名称,小计\n" +
		"9/30/2025 10:00,Delivered,Lucky Kitchen #001,20.00\n" +
		"10/15/2025 10:00,Delivered,Lucky Kitchen #001,20.00\n" +
		"11/1/2025 10:00,Delivered,Lucky Kitchen #001,20.00\n"
	res := runCSV(t, platform.DoorDash, csv, DefaultConfig())
	if len(res.Records) != 1 {
		t.Fatalf("want 1 in-window record, got %d", len(res.Records))
	}
	if res.Dropped[DropOutOfWindow] != 2 {
		t.Fatalf("want 2 out-of-window drops, got %+v", res.Dropped)
	}
}

func TestDoorDash_OutlierRowsDropped(t *testing.T) {
	csv := "接单当地时间,最终订单状态,店铺名称,小计\n" +
		"10/5/2025 10:00,Delivered,Lucky Kitchen #001,99999.00\n" +
		"10/5/2025 11:00,Delivered,Lucky Kitchen #001,-10000.00\n" +
		"10/5/2025 12:00,Delivered,Lucky Kitchen #001,50.00\n"
	res := runCSV(t, platform.DoorDash, csv, DefaultConfig())
	if len(res.Records) != 1 {
		t.Fatalf("want 1 record, got %d", len(res.Records))
	}
	if res.Dropped[DropOutlier] != 2 {
		t.Fatalf("want 2 outlier drops, got %+v", res.Dropped)
	}
}

func TestGrubhub_NoStatusColumnMeansCompleted(t *testing.T) {
	csv := "transaction_date,store_name,subtotal\n" +
		"2025-10-08,lucky kitchen broadway,22.50\n"
	res := runCSV(t, platform.Grubhub, csv, DefaultConfig())
	if len(res.Records) != 1 {
		t.Fatalf("want 1 record, got %d", len(res.Records))
	}
	r := res.Records[0]
	if !r.IsCompleted || r.IsCancelled {
		t.Fatalf("grubhub rows are settled orders: %+v", r)
	}
	if r.StoreID != stores.Broadway {
		t.Fatalf("store = %s, want broadway", r.StoreID)
	}
}

func TestGrubhub_CorruptedDatesDropFileByDefault(t *testing.T) {
	csv := "transaction_date,store_name,subtotal\n" +
		"########,lucky kitchen fulton,30.00\n" +
		"########,lucky kitchen fulton,12.00\n"
	res := runCSV(t, platform.Grubhub, csv, DefaultConfig())
	if !res.Skipped {
		t.Fatalf("corrupted file should be skipped under drop-file policy")
	}
	if len(res.Records) != 0 {
		t.Fatalf("skipped file must produce no records")
	}
	if !strings.Contains(res.SkipReason, "corrupt") {
		t.Fatalf("skip reason should name the corruption: %q", res.SkipReason)
	}
}

func TestGrubhub_SynthesizePolicyFlagsAndWarns(t *testing.T) {
	csv := "transaction_date,store_name,subtotal\n" +
		"########,lucky kitchen fulton,30.00\n" +
		"########,lucky kitchen union square,12.00\n"
	cfg := DefaultConfig()
	cfg.CorruptPolicy = CorruptPolicySynthesize
	res := runCSV(t, platform.Grubhub, csv, cfg)

	if res.Skipped {
		t.Fatalf("synthesize policy should keep the file: %s", res.SkipReason)
	}
	if len(res.Records) != 2 {
		t.Fatalf("want 2 records, got %d", len(res.Records))
	}
	if len(res.Warnings) == 0 {
		t.Fatalf("synthesized timestamps must carry a warning")
	}
	for _, r := range res.Records {
		if !r.SyntheticTime {
			t.Fatalf("record must be flagged synthetic: %+v", r)
		}
		if !cfg.inWindow(r.OrderDate) {
			t.Fatalf("synthesized date %v outside window", r.OrderDate)
		}
	}
}

func TestGrubhub_SynthesisIsDeterministic(t *testing.T) {
	csv := "transaction_date,store_name,subtotal\n" +
		"########,lucky kitchen fulton,30.00\n" +
		"########,lucky kitchen union square,12.00\n" +
		"########,lucky kitchen broadway,45.00\n"
	cfg := DefaultConfig()
	cfg.CorruptPolicy = CorruptPolicySynthesize

	a := runCSV(t, platform.Grubhub, csv, cfg)
	b := runCSV(t, platform.Grubhub, csv, cfg)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input and seed must synthesize identically:\n%+v\nvs\n%+v", a, b)
	}

	cfg.Seed = 7
	c := runCSV(t, platform.Grubhub, csv, cfg)
	if reflect.DeepEqual(a.Records, c.Records) {
		t.Fatalf("different seed should synthesize different timestamps")
	}
}

func TestRun_EmptyFileSkips(t *testing.T) {
	res := runCSV(t, platform.Grubhub, "transaction_date,store_name,subtotal\n", DefaultConfig())
	if !res.Skipped || res.SkipReason != "empty file" {
		t.Fatalf("want empty-file skip, got %+v", res)
	}
}

func TestRun_GarbageBytesReportError(t *testing.T) {
	n, err := ForPlatform(platform.DoorDash)
	if err != nil {
		t.Fatalf("ForPlatform: %v", err)
	}
	res, _ := Run(n, []byte("no,date,column\nhere,we,go\n"), DefaultConfig())
	if !res.Skipped {
		t.Fatalf("unusable file should skip, got %+v", res)
	}
}

func TestParseCorruptPolicy(t *testing.T) {
	cases := []struct {
		in   string
		want CorruptPolicy
		err  bool
	}{
		{"", CorruptPolicyDropFile, false},
		{"drop-file", CorruptPolicyDropFile, false},
		{"Drop", CorruptPolicyDropFile, false},
		{"synthesize", CorruptPolicySynthesize, false},
		{"SYNTH", CorruptPolicySynthesize, false},
		{"bogus", CorruptPolicyDropFile, true},
	}
	for _, c := range cases {
		got, err := ParseCorruptPolicy(c.in)
		if (err != nil) != c.err {
			t.Fatalf("ParseCorruptPolicy(%q) err = %v, want err=%v", c.in, err, c.err)
		}
		if got != c.want {
			t.Fatalf("ParseCorruptPolicy(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
