package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTier_Boundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want float64
	}{
		{0, 0},
		{59.999, 0},
		{60.0, 0.5},
		{79.999, 0.5},
		{80.0, 0.8},
		{99.999, 0.8},
		{100.0, 1.0},
		{250, 1.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Tier(tc.pct), "pct=%v", tc.pct)
	}
}

func TestNetPayableHours_NeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, NetPayableHours(3, 5))
	assert.Equal(t, 0.0, NetPayableHours(0, 0))
	assert.InDelta(t, 70.5, NetPayableHours(72, 1.5), 1e-9)
}

func TestCompute_Scenario(t *testing.T) {
	got := Compute(Input{
		WorkingDays:     10,
		PayableLeads:    16,
		TargetPerDay:    2,
		PayableHoursRaw: 72,
		HourlyRate:      10,
		KPIFullAmount:   1000,
	})

	assert.Equal(t, 20.0, got.LeadsTarget)
	assert.InDelta(t, 80.0, got.PerformancePercent, 1e-9)
	assert.Equal(t, 0.8, got.Tier)
	assert.InDelta(t, 800.0, got.KPIBonus, 1e-9)
	assert.InDelta(t, 720.0, got.BaseSalary, 1e-9)
	assert.InDelta(t, 1520.0, got.TotalSalary, 1e-9)
}

func TestCompute_ZeroTarget(t *testing.T) {
	got := Compute(Input{WorkingDays: 0, PayableLeads: 7, TargetPerDay: 2, KPIFullAmount: 1000})
	assert.Equal(t, 0.0, got.LeadsTarget)
	assert.Equal(t, 0.0, got.PerformancePercent)
	assert.Equal(t, 0.0, got.Tier)
	assert.Equal(t, 0.0, got.TotalSalary)
}

func TestCompute_BreakExceedsPayable(t *testing.T) {
	got := Compute(Input{PayableHoursRaw: 2, BreakHours: 3, HourlyRate: 50})
	assert.Equal(t, 0.0, got.PayableHoursNet)
	assert.Equal(t, 0.0, got.BaseSalary)
}
