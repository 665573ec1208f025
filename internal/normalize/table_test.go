package normalize

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func TestLoadTable_StripsBOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)
	tbl, err := LoadTable(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if tbl.Headers[0] != "a" {
		t.Fatalf("BOM not stripped from header: %q", tbl.Headers[0])
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(tbl.Rows))
	}
}

func TestLoadTable_TranscodesGBK(t *testing.T) {
	utf := "订单日期,销售额（含税）\n2025-10-01,25.99\n"
	gbk, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(utf))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	tbl, err := LoadTable(bytes.NewReader(gbk))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if tbl.Headers[0] != "订单日期" {
		t.Fatalf("GBK header not transcoded: %q", tbl.Headers[0])
	}
	if tbl.Cell(tbl.Rows[0], 1) != "25.99" {
		t.Fatalf("unexpected cell: %q", tbl.Cell(tbl.Rows[0], 1))
	}
}

func TestLoadTable_RaggedRowsTolerated(t *testing.T) {
	tbl, err := LoadTable(strings.NewReader("a,b,c\n1,2\n4,5,6,7\n"))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(tbl.Rows))
	}
	if got := tbl.Cell(tbl.Rows[0], 2); got != "" {
		t.Fatalf("short row cell = %q, want empty", got)
	}
	if got := tbl.Cell(tbl.Rows[1], 2); got != "6" {
		t.Fatalf("cell = %q, want 6", got)
	}
}

func TestCell_NegativeColumnIsEmpty(t *testing.T) {
	var tbl RawTable
	if got := tbl.Cell([]string{"x"}, -1); got != "" {
		t.Fatalf("Cell(-1) = %q, want empty", got)
	}
}

func TestPromoteHeaderRow(t *testing.T) {
	probe := []string{"Order Date"}

	banner := RawTable{
		Headers: []string{"Monthly Report", "", ""},
		Rows: [][]string{
			{"Order Date", "Status", "Sales"},
			{"2025-10-01", "Completed", "10.00"},
		},
	}
	got := promoteHeaderRow(banner, probe)
	if got.Headers[0] != "Order Date" {
		t.Fatalf("header not promoted: %v", got.Headers)
	}
	if len(got.Rows) != 1 {
		t.Fatalf("banner promotion should consume one row, got %d", len(got.Rows))
	}

	normal := RawTable{
		Headers: []string{"Order Date", "Status"},
		Rows:    [][]string{{"2025-10-01", "Completed"}},
	}
	got = promoteHeaderRow(normal, probe)
	if len(got.Rows) != 1 || got.Headers[0] != "Order Date" {
		t.Fatalf("well-formed table should pass through unchanged: %+v", got)
	}
}
