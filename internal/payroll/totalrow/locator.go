// Package totalrow finds the period aggregate row inside an agent's daily rows.
//
// Exports place the aggregate among the daily rows without a consistent
// marker, so the locator runs an ordered chain of heuristics and stops at the
// first one that matches. When a heuristic matches several rows the last one
// wins.
package totalrow

import (
	"math"
	"strconv"

	"github.com/smallbiznis/payslip/internal/payroll/domain"
)

// heuristic returns the indexes of candidate rows, in row order.
type heuristic struct {
	name domain.TotalRowHeuristic
	pick func(rows []domain.Row) []int
}

var chain = []heuristic{
	{domain.HeuristicDashMarker, dashMarker},
	{domain.HeuristicEmptyDay, emptyDay},
	{domain.HeuristicMaxDaysWork, maxDaysWork},
	{domain.HeuristicUndatedLast, undatedLast},
	{domain.HeuristicLastFallback, lastRow},
}

// Locate returns the total row of rows, or false when rows is empty.
func Locate(rows []domain.Row) (domain.AgentTotalRow, bool) {
	if len(rows) == 0 {
		return domain.AgentTotalRow{}, false
	}
	for _, h := range chain {
		candidates := h.pick(rows)
		if len(candidates) == 0 {
			continue
		}
		idx := candidates[len(candidates)-1]
		return domain.AgentTotalRow{Row: rows[idx], Index: idx, Heuristic: h.name}, true
	}
	// unreachable: lastRow always matches a non-empty set
	return domain.AgentTotalRow{}, false
}

func dashMarker(rows []domain.Row) []int {
	var out []int
	for i, r := range rows {
		if v, ok := r.Get(domain.ColumnDayDate); ok && v == domain.AggregateDayMarker {
			out = append(out, i)
		}
	}
	return out
}

func emptyDay(rows []domain.Row) []int {
	var out []int
	for i, r := range rows {
		if r.Value(domain.ColumnDayDate) == "" {
			out = append(out, i)
		}
	}
	return out
}

func maxDaysWork(rows []domain.Row) []int {
	var out []int
	var best float64
	for i, r := range rows {
		v, ok := daysValue(r)
		if !ok {
			continue
		}
		switch {
		case len(out) == 0 || v > best:
			best = v
			out = []int{i}
		case v == best:
			out = append(out, i)
		}
	}
	return out
}

func undatedLast(rows []domain.Row) []int {
	last := len(rows) - 1
	if IsDate(rows[last].Value(domain.ColumnDayDate)) {
		return nil
	}
	return []int{last}
}

func lastRow(rows []domain.Row) []int {
	return []int{len(rows) - 1}
}

// maxWorkingDays bounds a day count to one calendar year.
const maxWorkingDays = 366

// parseDays parses a finite day count no larger than maxWorkingDays.
func parseDays(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v > maxWorkingDays {
		return 0, false
	}
	return v, true
}

// daysValue returns the first numeric value among the day-count columns.
func daysValue(r domain.Row) (float64, bool) {
	for _, col := range domain.WorkingDaysColumns {
		raw, ok := r.Get(col)
		if !ok || raw == "" {
			continue
		}
		if v, ok := parseDays(raw); ok {
			return v, true
		}
	}
	return 0, false
}

// WorkingDays returns the first present, numeric, positive day count of the
// total row. ok is false when no candidate column qualifies.
func WorkingDays(r domain.Row) (days int, ok bool) {
	for _, col := range domain.WorkingDaysColumns {
		raw, present := r.Get(col)
		if !present {
			continue
		}
		v, ok := parseDays(raw)
		if !ok || v <= 0 {
			continue
		}
		return int(v), true
	}
	return 0, false
}
