package service

import (
	"context"
	"strconv"

	"github.com/smallbiznis/payslip/internal/observability/metrics"
	"github.com/smallbiznis/payslip/internal/payroll/businessdate"
	"github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/smallbiznis/payslip/internal/payroll/leads"
	"go.uber.org/zap"
)

// dailyReportNameWords is used when agentNameWords is 0: the leads export
// carries full names while the hours export carries the first two words.
const dailyReportNameWords = 2

// BuildDailyReport adds the payable lead count of each agent day to the
// hours export. Aggregate rows are kept unchanged after the daily rows.
func (s *Service) BuildDailyReport(ctx context.Context, hours domain.Table, leadTable domain.Table) (domain.Table, error) {
	started := s.clock.Now()
	out, err := s.buildDailyReport(hours, leadTable)
	s.metrics.ObserveReport(metrics.ReportDaily, err, s.clock.Now().Sub(started))
	if err != nil {
		s.log.Warn("daily report rejected", zap.Error(err))
		return domain.Table{}, err
	}
	s.log.Info("daily report built", zap.Int("rows", len(out.Rows)))
	return out, nil
}

func (s *Service) buildDailyReport(hours domain.Table, leadTable domain.Table) (domain.Table, error) {
	rules := s.rules.Get()
	if err := domain.CheckSchema(domain.SourceHours, hours, domain.RequiredHoursColumns...); err != nil {
		return domain.Table{}, err
	}
	records, discarded, _, err := leads.Parse(leadTable, rules.CutoffHour)
	if err != nil {
		return domain.Table{}, err
	}
	s.metrics.RecordDiscarded(discardedInvalidTimestamp, discarded)

	nameWords := rules.AgentNameWords
	if nameWords == 0 {
		nameWords = dailyReportNameWords
	}
	counts := leads.PayableByDay(records, nameWords)

	out := domain.Table{Columns: append([]string{}, hours.Columns...)}
	if !hours.HasColumn(domain.ColumnQualifiedPushed) {
		out.Columns = append(out.Columns, domain.ColumnQualifiedPushed)
	}

	year := referenceYear(hours, s.clock.Now().Year())
	var aggregates []domain.Row
	var undated []string
	for _, row := range hours.Rows {
		if row.Value(domain.ColumnDayDate) == domain.AggregateDayMarker {
			aggregates = append(aggregates, copyRow(row))
			continue
		}
		daily := copyRow(row)
		count := 0
		if date, ok := businessdate.ParseDay(row.Value(domain.ColumnDayDate), year); ok {
			agent := leads.AgentKey(row.Value(domain.ColumnName), nameWords)
			count = counts[agent][date]
		} else {
			undated = append(undated, row.Value(domain.ColumnDayDate))
		}
		daily[domain.ColumnQualifiedPushed] = strconv.Itoa(count)
		out.Rows = append(out.Rows, daily)
	}
	if len(undated) > 0 {
		s.metrics.RecordDiscarded(discardedInvalidDayDate, len(undated))
		s.log.Warn("daily rows with unrecognised Day/date written with 0 leads",
			zap.Int("rows", len(undated)),
			zap.Strings("values", undated))
	}
	out.Rows = append(out.Rows, aggregates...)
	return out, nil
}

// referenceYear returns the latest year written on a dated row, or fallback
// when no Day/date carries a year.
func referenceYear(hours domain.Table, fallback int) int {
	year := 0
	for _, row := range hours.Rows {
		if date, ok := businessdate.ParseDay(row.Value(domain.ColumnDayDate), 0); ok && date.Year() > year {
			year = date.Year()
		}
	}
	if year == 0 {
		return fallback
	}
	return year
}

func copyRow(row domain.Row) domain.Row {
	out := make(domain.Row, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	return out
}
