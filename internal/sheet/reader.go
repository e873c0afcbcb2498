// Package sheet reads and writes the spreadsheet exports consumed by the
// payroll engine.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/xuri/excelize/v2"
)

var (
	ErrNoWorksheet    = errors.New("no_worksheet")
	ErrSheetNotFound  = errors.New("sheet_not_found")
	ErrEmptyWorksheet = errors.New("empty_worksheet")
	ErrExportTooLarge = errors.New("export_too_large")
)

// Sheet names used by the known export generations, tried when the caller
// does not name a sheet.
var PreferredSheets = []string{"Leads Bank", "Trial 1"}

const maxXLSRows = 100000

// Load parses an uploaded workbook into a Table. Legacy .xls files go through
// the BIFF reader, everything else through excelize.
func Load(filename string, data []byte, sheet string) (domain.Table, error) {
	grid, err := readGrid(filename, data, sheet)
	if err != nil {
		return domain.Table{}, err
	}
	return ToTable(grid)
}

// SheetNames lists the worksheets of a workbook.
func SheetNames(filename string, data []byte) ([]string, error) {
	if isLegacy(filename) {
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		return xlsSheetNames(wb), nil
	}
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return file.GetSheetList(), nil
}

func readGrid(filename string, data []byte, sheet string) ([][]string, error) {
	if isLegacy(filename) {
		return readXLS(data, sheet)
	}
	return readXLSX(data, sheet)
}

func readXLSX(data []byte, sheet string) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	name, err := ResolveSheet(file.GetSheetList(), sheet)
	if err != nil {
		return nil, err
	}
	rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}
	return rows, nil
}

func readXLS(data []byte, sheet string) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	name, err := ResolveSheet(xlsSheetNames(wb), sheet)
	if err != nil {
		return nil, err
	}

	var ws *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && s.Name == name {
			ws = s
			break
		}
	}
	if ws == nil || ws.MaxRow == 0 {
		return nil, ErrEmptyWorksheet
	}

	limit := int(ws.MaxRow)
	if limit > maxXLSRows {
		limit = maxXLSRows
	}
	rows := make([][]string, 0, limit+1)
	for i := 0; i <= limit; i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func xlsSheetNames(wb *xls.WorkBook) []string {
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

// ResolveSheet picks the worksheet to read: the requested name (case and
// space insensitive), else the first preferred sheet present, else the first.
func ResolveSheet(names []string, requested string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoWorksheet
	}
	if want := normalizeHeader(requested); want != "" {
		for _, n := range names {
			if normalizeHeader(n) == want {
				return n, nil
			}
		}
		return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, requested, strings.Join(names, ", "))
	}
	for _, preferred := range PreferredSheets {
		for _, n := range names {
			if normalizeHeader(n) == normalizeHeader(preferred) {
				return n, nil
			}
		}
	}
	return names[0], nil
}

func isLegacy(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".xls" || ext == ".xsl"
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}
