// Package domain contains the row and snapshot models shared by the payroll engine.
package domain

import "strings"

// Row maps a column header to the raw cell text. A missing key is a null cell.
type Row map[string]string

// Get returns the trimmed cell value and whether the column is present.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Value returns the trimmed cell value, empty when absent.
func (r Row) Value(column string) string {
	v, _ := r.Get(column)
	return v
}

// Table is an ordered sequence of rows as exported, plus the header order.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the header contains column.
func (t Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns absent from the header, in order.
func (t Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Normalize trims and lowercases a cell for comparisons.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
