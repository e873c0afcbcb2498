// Package stats answers ad hoc column questions about an uploaded export.
package stats

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/smallbiznis/payslip/internal/payroll/domain"
)

var (
	ErrUnknownColumn    = errors.New("unknown_column")
	ErrUnknownOperation = errors.New("unknown_operation")
	ErrNoData           = errors.New("no_data")
)

type Operation string

const (
	OperationMode      Operation = "mode"
	OperationTopN      Operation = "top_n"
	OperationGroupMean Operation = "group_mean"
	OperationGroupSum  Operation = "group_sum"
)

const (
	DefaultTopN = 10
	MaxTopN     = 50
)

type Query struct {
	Operation Operation `json:"operation"`
	Column    string    `json:"column"`
	GroupBy   string    `json:"group_by,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

// Entry is one value of a result, already ordered.
type Entry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type Result struct {
	Operation Operation `json:"operation"`
	Column    string    `json:"column"`
	GroupBy   string    `json:"group_by,omitempty"`
	Entries   []Entry   `json:"entries"`
}

// Run dispatches q against t.
func Run(t domain.Table, q Query) (Result, error) {
	res := Result{Operation: q.Operation, Column: q.Column, GroupBy: q.GroupBy}
	var err error
	switch q.Operation {
	case OperationMode:
		var value string
		var count int
		value, count, err = Mode(t, q.Column)
		if err == nil {
			res.Entries = []Entry{{Key: value, Value: float64(count)}}
		}
	case OperationTopN:
		res.Entries, err = TopN(t, q.Column, q.Limit)
	case OperationGroupMean:
		res.Entries, err = GroupMean(t, q.GroupBy, q.Column)
	case OperationGroupSum:
		res.Entries, err = GroupSum(t, q.GroupBy, q.Column)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, q.Operation)
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Mode returns the most frequent non-empty value of column. Ties resolve to
// the lexically smallest value.
func Mode(t domain.Table, column string) (string, int, error) {
	counts, _, err := count(t, column)
	if err != nil {
		return "", 0, err
	}
	if len(counts) == 0 {
		return "", 0, ErrNoData
	}
	var best string
	bestCount := 0
	for value, n := range counts {
		if n > bestCount || (n == bestCount && value < best) {
			best, bestCount = value, n
		}
	}
	return best, bestCount, nil
}

// TopN returns the n most frequent non-empty values of column. Equal counts
// keep first-seen order.
func TopN(t domain.Table, column string, n int) ([]Entry, error) {
	counts, order, err := count(t, column)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}
	if n > MaxTopN {
		n = MaxTopN
	}
	entries := make([]Entry, 0, len(order))
	for _, value := range order {
		entries = append(entries, Entry{Key: value, Value: float64(counts[value])})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// GroupMean averages the numeric values of column per groupBy value. Groups
// without a numeric value are omitted.
func GroupMean(t domain.Table, groupBy, column string) ([]Entry, error) {
	return group(t, groupBy, column, func(sum float64, n int) (float64, bool) {
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true
	})
}

// GroupSum totals the numeric values of column per groupBy value. Groups
// without a numeric value sum to 0.
func GroupSum(t domain.Table, groupBy, column string) ([]Entry, error) {
	return group(t, groupBy, column, func(sum float64, _ int) (float64, bool) {
		return sum, true
	})
}

func count(t domain.Table, column string) (map[string]int, []string, error) {
	if !t.HasColumn(column) {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	counts := make(map[string]int)
	var order []string
	for _, row := range t.Rows {
		v := row.Value(column)
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	return counts, order, nil
}

type accumulator struct {
	sum float64
	n   int
}

func group(t domain.Table, groupBy, column string, reduce func(sum float64, n int) (float64, bool)) ([]Entry, error) {
	for _, c := range []string{groupBy, column} {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}

	groups := make(map[string]*accumulator)
	var order []string
	for _, row := range t.Rows {
		key := row.Value(groupBy)
		if key == "" {
			continue
		}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
			order = append(order, key)
		}
		v, err := strconv.ParseFloat(row.Value(column), 64)
		if err != nil {
			continue
		}
		acc.sum += v
		acc.n++
	}

	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		if v, ok := reduce(acc.sum, acc.n); ok {
			entries = append(entries, Entry{Key: key, Value: v})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	return entries, nil
}
