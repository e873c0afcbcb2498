package sheet

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/payslip/internal/payroll/domain"
)

// ToTable turns a raw cell grid into a Table. The first non-empty row is the
// header; blank and purely numeric header cells are dropped along with their
// columns, and fully empty data rows are skipped.
func ToTable(grid [][]string) (domain.Table, error) {
	headerIdx := -1
	for i, row := range grid {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return domain.Table{}, ErrEmptyWorksheet
	}

	type column struct {
		index int
		name  string
	}
	var columns []column
	seen := make(map[string]int)
	for i, raw := range grid[headerIdx] {
		name := strings.TrimSpace(raw)
		if name == "" || isDigits(name) {
			continue
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		columns = append(columns, column{index: i, name: name})
	}

	t := domain.Table{Columns: make([]string, 0, len(columns))}
	for _, c := range columns {
		t.Columns = append(t.Columns, c.name)
	}

	for _, raw := range grid[headerIdx+1:] {
		if isBlankRow(raw) {
			continue
		}
		row := make(domain.Row, len(columns))
		for _, c := range columns {
			row[c.name] = cellValue(raw, c.index)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
