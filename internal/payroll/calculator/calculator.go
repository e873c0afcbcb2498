// Package calculator applies the tiered compensation formula.
package calculator

import "math"

// Input is everything the payroll formula depends on.
type Input struct {
	WorkingDays     int
	PayableLeads    int
	TargetPerDay    float64
	PayableHoursRaw float64
	BreakHours      float64
	HourlyRate      float64
	KPIFullAmount   float64
}

// Result holds the derived payroll figures. Values are not rounded.
type Result struct {
	LeadsTarget        float64
	PerformancePercent float64
	Tier               float64
	PayableHoursNet    float64
	BaseSalary         float64
	KPIBonus           float64
	TotalSalary        float64
}

type tierStep struct {
	minPercent float64
	tier       float64
}

// tiers are ordered by descending lower bound; each bound is inclusive.
var tiers = []tierStep{
	{minPercent: 100, tier: 1.0},
	{minPercent: 80, tier: 0.8},
	{minPercent: 60, tier: 0.5},
}

// Tier maps a performance percentage to the KPI bonus fraction.
func Tier(performancePercent float64) float64 {
	for _, step := range tiers {
		if performancePercent >= step.minPercent {
			return step.tier
		}
	}
	return 0
}

// NetPayableHours subtracts break time, never going below zero.
func NetPayableHours(payableRaw, breakHours float64) float64 {
	return math.Max(0, payableRaw-breakHours)
}

// Compute derives target, performance, tier and salary from in.
func Compute(in Input) Result {
	var r Result
	r.LeadsTarget = float64(in.WorkingDays) * in.TargetPerDay
	if r.LeadsTarget > 0 {
		r.PerformancePercent = float64(in.PayableLeads) / r.LeadsTarget * 100
	}
	r.Tier = Tier(r.PerformancePercent)
	r.PayableHoursNet = NetPayableHours(in.PayableHoursRaw, in.BreakHours)
	r.BaseSalary = r.PayableHoursNet * in.HourlyRate
	r.KPIBonus = in.KPIFullAmount * r.Tier
	r.TotalSalary = r.BaseSalary + r.KPIBonus
	return r
}
