package normalize

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// RawTable is a platform export as loaded from disk: a nominal header
// row plus data rows. No schema is enforced at this layer; column
// lookup happens later against candidate lists.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// LoadTable parses a delimited export. It strips a UTF-8 BOM,
// transcodes GBK content (some Chinese-headed exports ship without
// UTF-8 encoding), and tolerates ragged rows.
func LoadTable(r io.Reader) (RawTable, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return RawTable{}, fmt.Errorf("read input: %w", err)
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(b) {
		decoded, _, derr := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), b)
		if derr != nil {
			return RawTable{}, fmt.Errorf("decode input: %w", derr)
		}
		b = decoded
	}

	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RawTable{}, nil
		}
		return RawTable{}, fmt.Errorf("read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return RawTable{}, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, rec)
	}
	return RawTable{Headers: headers, Rows: rows}, nil
}

// Cell returns the value at (row, col), or "" when the row is ragged.
func (t RawTable) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Empty reports whether the table has no data rows.
func (t RawTable) Empty() bool { return len(t.Rows) == 0 }

// promoteHeaderRow handles exports whose nominal first row is a report
// banner and whose real column headers sit on the second row. If none
// of the probe names match the nominal header but one does match the
// first data row, headers are re-derived from that row.
func promoteHeaderRow(t RawTable, probe []string) RawTable {
	if len(t.Rows) == 0 {
		return t
	}
	if findColumn(t.Headers, probe) >= 0 {
		return t
	}
	first := make([]string, len(t.Rows[0]))
	for i, v := range t.Rows[0] {
		first[i] = strings.TrimSpace(v)
	}
	if findColumn(first, probe) < 0 {
		return t
	}
	return RawTable{Headers: first, Rows: t.Rows[1:]}
}
