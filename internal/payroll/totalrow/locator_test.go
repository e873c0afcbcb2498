package totalrow

import (
	"testing"

	"github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate_Empty(t *testing.T) {
	_, ok := Locate(nil)
	assert.False(t, ok)
}

func TestLocate_Chain(t *testing.T) {
	cases := []struct {
		name      string
		rows      []domain.Row
		wantIndex int
		want      domain.TotalRowHeuristic
	}{
		{
			name: "dash marker beats larger day count",
			rows: []domain.Row{
				{"Day/date": "01/03/2025", "Days Work": "40"},
				{"Day/date": "-", "Days Work": "20"},
				{"Day/date": "02/03/2025", "Days Work": "1"},
			},
			wantIndex: 1,
			want:      domain.HeuristicDashMarker,
		},
		{
			name: "last dash wins",
			rows: []domain.Row{
				{"Day/date": "-"},
				{"Day/date": "01/03/2025"},
				{"Day/date": " - "},
			},
			wantIndex: 2,
			want:      domain.HeuristicDashMarker,
		},
		{
			name: "empty day",
			rows: []domain.Row{
				{"Day/date": "01/03/2025", "Days": "1"},
				{"Day/date": "", "Days": "22"},
				{"Days": "1"},
				{"Day/date": "03/03/2025", "Days": "1"},
			},
			wantIndex: 2,
			want:      domain.HeuristicEmptyDay,
		},
		{
			name: "max days work",
			rows: []domain.Row{
				{"Day/date": "01/03/2025", "Working Days": "1"},
				{"Day/date": "Total", "Working Days": "21"},
				{"Day/date": "02/03/2025", "Working Days": "1"},
				{"Day/date": "03/03/2025", "Working Days": "n/a"},
			},
			wantIndex: 1,
			want:      domain.HeuristicMaxDaysWork,
		},
		{
			name: "non finite day counts ignored",
			rows: []domain.Row{
				{"Day/date": "Total", "Days Work": "nan"},
				{"Day/date": "Sum", "Days Work": "21"},
				{"Day/date": "01/03/2025", "Days Work": "1"},
				{"Day/date": "02/03/2025", "Days Work": "Inf"},
			},
			wantIndex: 1,
			want:      domain.HeuristicMaxDaysWork,
		},
		{
			name: "undated last row",
			rows: []domain.Row{
				{"Day/date": "1-Mar"},
				{"Day/date": "Mar-2"},
				{"Day/date": "TOTAL"},
			},
			wantIndex: 2,
			want:      domain.HeuristicUndatedLast,
		},
		{
			name: "fallback to last row",
			rows: []domain.Row{
				{"Day/date": "2025-03-01"},
				{"Day/date": "2025-03-02"},
			},
			wantIndex: 1,
			want:      domain.HeuristicLastFallback,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Locate(tc.rows)
			require.True(t, ok)
			assert.Equal(t, tc.wantIndex, got.Index)
			assert.Equal(t, tc.want, got.Heuristic)
		})
	}
}

func TestLocate_Deterministic(t *testing.T) {
	rows := []domain.Row{
		{"Day/date": "01/03/2025", "Days Work": "1"},
		{"Day/date": "-", "Days Work": "2"},
		{"Day/date": "02/03/2025", "Days Work": "1"},
	}
	first, ok := Locate(rows)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, _ := Locate(rows)
		assert.Equal(t, first, again)
	}
	assert.False(t, first.LowConfidence())
}

func TestLocate_FallbackIsLowConfidence(t *testing.T) {
	got, ok := Locate([]domain.Row{{"Day/date": "01/03/2025"}})
	require.True(t, ok)
	assert.True(t, got.LowConfidence())
}

func TestWorkingDays(t *testing.T) {
	cases := []struct {
		name   string
		row    domain.Row
		want   int
		wantOK bool
	}{
		{"days work", domain.Row{"Days Work": "22"}, 22, true},
		{"float value truncates", domain.Row{"Working Days": "21.0"}, 21, true},
		{"first candidate wins", domain.Row{"Days Work": "20", "Days": "3"}, 20, true},
		{"skips non numeric", domain.Row{"Days Work": "-", "Total Days": "18"}, 18, true},
		{"skips zero", domain.Row{"Days": "0", "Work Days": "4"}, 4, true},
		{"negative ignored", domain.Row{"Days Worked": "-2"}, 0, false},
		{"none", domain.Row{"Name": "Jane"}, 0, false},
		{"nan rejected", domain.Row{"Days Work": "nan"}, 0, false},
		{"NaN falls through", domain.Row{"Days Work": "NaN", "Days": "19"}, 19, true},
		{"inf rejected", domain.Row{"Days Work": "Inf"}, 0, false},
		{"huge value rejected", domain.Row{"Days Work": "1e30"}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := WorkingDays(tc.row)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsDate(t *testing.T) {
	for _, s := range []string{"1/3/2025", "01-03-25", "12/31/2024", "1-Mar", "Mar-1", "2025-03-01", "2025-03-01 00:00:00", "45717"} {
		assert.True(t, IsDate(s), s)
	}
	for _, s := range []string{"", "-", "TOTAL", "1-Foo", "Sum", "22"} {
		assert.False(t, IsDate(s), s)
	}
}
