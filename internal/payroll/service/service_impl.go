package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payslip/internal/clock"
	"github.com/smallbiznis/payslip/internal/config"
	"github.com/smallbiznis/payslip/internal/observability/metrics"
	"github.com/smallbiznis/payslip/internal/payroll/calculator"
	"github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/smallbiznis/payslip/internal/payroll/duration"
	"github.com/smallbiznis/payslip/internal/payroll/leads"
	"github.com/smallbiznis/payslip/internal/payroll/totalrow"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	discardedInvalidTimestamp = "invalid_timestamp"
	discardedInvalidDayDate   = "invalid_day_date"
)

// Hours export columns a snapshot reads from the total row.
var snapshotHoursColumns = []string{
	domain.ColumnName,
	domain.ColumnDayDate,
	domain.ColumnLoggedTime,
	domain.ColumnPayable,
	domain.ColumnBreak,
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Rules   config.RulesProvider
	Clock   clock.Clock
	GenID   *snowflake.Node
	Metrics *metrics.ReportMetrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	rules   config.RulesProvider
	clock   clock.Clock
	genID   *snowflake.Node
	metrics *metrics.ReportMetrics
}

func NewService(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("payroll.service"),
		rules:   p.Rules,
		clock:   p.Clock,
		genID:   p.GenID,
		metrics: p.Metrics,
	}
}

func (s *Service) GenerateSnapshot(ctx context.Context, req domain.SnapshotRequest) (*domain.Report, error) {
	started := s.clock.Now()
	report, err := s.generateSnapshot(req)
	s.metrics.ObserveReport(metrics.ReportSnapshot, err, s.clock.Now().Sub(started))
	if err != nil {
		s.log.Warn("snapshot rejected",
			zap.String("agent", req.Agent),
			zap.Error(err),
		)
		return nil, err
	}

	for _, msg := range report.Messages {
		s.metrics.RecordWarning(msg.Code)
	}
	s.log.Info("snapshot generated",
		zap.String("id", report.Snapshot.ID),
		zap.String("agent", report.Snapshot.AgentName),
		zap.String("agent_type", report.Snapshot.AgentType),
		zap.Int("payable_leads", report.Snapshot.PayableLeads),
		zap.Float64("total_salary", report.Snapshot.TotalSalary),
		zap.Int("warnings", len(report.Messages)),
	)
	return report, nil
}

func (s *Service) generateSnapshot(req domain.SnapshotRequest) (*domain.Report, error) {
	rules := s.rules.Get()

	agent := strings.TrimSpace(req.Agent)
	if agent == "" {
		return nil, domain.ErrAgentRequired
	}
	agentType, targetPerDay, ok := rules.TargetPerDay(req.AgentType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAgentType, req.AgentType)
	}
	if err := domain.CheckSchema(domain.SourceHours, req.Hours, snapshotHoursColumns...); err != nil {
		return nil, err
	}

	leadResult, err := leads.Aggregate(req.Leads, leads.Filter{
		Agent:      agent,
		Start:      req.Start,
		End:        req.End,
		CutoffHour: rules.CutoffHour,
		NameWords:  rules.AgentNameWords,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordDiscarded(discardedInvalidTimestamp, leadResult.Discarded)

	agentRows := rowsForAgent(req.Hours, agent, rules.AgentNameWords)
	total, ok := totalrow.Locate(agentRows)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrAgentRowsNotFound, agent)
	}

	messages := append([]domain.Message{}, leadResult.Messages...)
	if total.LowConfidence() {
		messages = append(messages, domain.Warning(domain.CodeTotalRowLowConfidence,
			fmt.Sprintf("no aggregate marker found for %s; using the last row", agent)))
	}

	workingDays, ok := totalrow.WorkingDays(total.Row)
	if !ok {
		messages = append(messages, domain.Warning(domain.CodeWorkingDaysMissing,
			fmt.Sprintf("no working day count found for %s; leads target is 0", agent)))
	}

	for _, col := range []string{domain.ColumnPayable, domain.ColumnBreak} {
		if raw := total.Row.Value(col); !duration.Recognized(raw) {
			messages = append(messages, domain.Warning(domain.CodeDurationUnrecognized,
				fmt.Sprintf("%s value %q is not a duration; counted as 0", col, raw)))
		}
	}
	if len(leadResult.Records) == 0 {
		messages = append(messages, domain.Warning(domain.CodeNoLeads,
			fmt.Sprintf("no leads found for %s in the selected range", agent)))
	}

	result := calculator.Compute(calculator.Input{
		WorkingDays:     workingDays,
		PayableLeads:    leadResult.Summary.Payable,
		TargetPerDay:    targetPerDay,
		PayableHoursRaw: duration.Parse(total.Row.Value(domain.ColumnPayable)),
		BreakHours:      duration.Parse(total.Row.Value(domain.ColumnBreak)),
		HourlyRate:      rules.HourlyRate,
		KPIFullAmount:   rules.KPIFullAmount,
	})

	snapshot := domain.PayrollSnapshot{
		AgentName:          agent,
		AgentType:          agentType,
		DateRangeStart:     req.Start,
		DateRangeEnd:       req.End,
		WorkingDays:        workingDays,
		LeadsTarget:        result.LeadsTarget,
		PayableLeads:       leadResult.Summary.Payable,
		PerformancePercent: result.PerformancePercent,
		Tier:               result.Tier,
		PayableHoursNet:    result.PayableHoursNet,
		BaseSalary:         result.BaseSalary,
		KPIBonus:           result.KPIBonus,
		TotalSalary:        result.TotalSalary,
		GeneratedAt:        s.clock.Now(),
	}
	if s.genID != nil {
		snapshot.ID = s.genID.Generate().String()
	}

	return &domain.Report{
		Snapshot:  snapshot,
		Summary:   leadResult.Summary,
		TotalRow:  total,
		AgentRows: agentRows,
		Leads:     leadResult.Records,
		Messages:  messages,
	}, nil
}

func (s *Service) ListAgents(ctx context.Context, hours domain.Table) ([]string, error) {
	if err := domain.CheckSchema(domain.SourceHours, hours, domain.ColumnName); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	agents := []string{}
	for _, row := range hours.Rows {
		name := row.Value(domain.ColumnName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		agents = append(agents, name)
	}
	return agents, nil
}

func rowsForAgent(hours domain.Table, agent string, nameWords int) []domain.Row {
	key := leads.AgentKey(agent, nameWords)
	var rows []domain.Row
	for _, row := range hours.Rows {
		if leads.AgentKey(row.Value(domain.ColumnName), nameWords) == key {
			rows = append(rows, row)
		}
	}
	return rows
}
