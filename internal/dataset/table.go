package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// table is the common shape every source is reduced to before parsing:
// a header row plus string cells
type table struct {
	name   string
	header []string
	rows   [][]string
	index  map[string]int
}

func newTable(name string, header []string, rows [][]string) *table {
	t := &table{
		name:   name,
		header: header,
		rows:   rows,
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		// First occurrence wins for duplicated headers
		if _, exists := t.index[h]; !exists {
			t.index[h] = i
		}
	}
	return t
}

// column returns the position of a header
func (t *table) column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// require returns the positions of the named headers or ErrMissingColumn
func (t *table) require(names ...string) ([]int, error) {
	cols := make([]int, len(names))
	for i, name := range names {
		c, ok := t.column(name)
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", t.name, ErrMissingColumn, name)
		}
		cols[i] = c
	}
	return cols, nil
}

// cell returns a row value, empty when the row is short
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCSV reads a CSV artifact. The first record is the header.
func parseCSV(name string, raw []byte) (*table, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: %w", name, ErrEmptyTable)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	return newTable(name, header, records[1:]), nil
}

// parseInt accepts plain integers and integral floats ("7", "7.0", "7e0").
// Exported artifacts often carry float-typed integer columns.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return int(f), nil
}
