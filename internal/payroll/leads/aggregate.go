// Package leads classifies lead log rows and counts them per agent and
// business date.
package leads

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/payslip/internal/payroll/businessdate"
	"github.com/smallbiznis/payslip/internal/payroll/domain"
)

const (
	resultQualified    = "qualified"
	resultDisqualified = "disqualified"
	resultCallBack     = "call back"
)

// Filter selects the leads of one agent within a business date range.
type Filter struct {
	Agent      string
	Start      time.Time
	End        time.Time
	CutoffHour int
	// NameWords compares agents on their first N name words; 0 compares the
	// whole trimmed name.
	NameWords int
}

// Result is the aggregate plus the rows it was computed from.
type Result struct {
	Summary   domain.LeadSummary  `json:"summary"`
	Records   []domain.LeadRecord `json:"records"`
	Discarded int                 `json:"discarded"`
	Messages  []domain.Message    `json:"messages,omitempty"`
}

// Aggregate counts the agent's leads inside the filter's business date range.
func Aggregate(t domain.Table, f Filter) (Result, error) {
	if err := validateFilter(f); err != nil {
		return Result{}, err
	}
	records, discarded, messages, err := Parse(t, f.CutoffHour)
	if err != nil {
		return Result{}, err
	}

	agent := AgentKey(f.Agent, f.NameWords)
	res := Result{Discarded: discarded, Messages: messages, Records: []domain.LeadRecord{}}
	for _, rec := range records {
		if AgentKey(rec.AgentName, f.NameWords) != agent {
			continue
		}
		if !businessdate.InRange(rec.BusinessDate, f.Start, f.End) {
			continue
		}
		res.Records = append(res.Records, rec)
		switch domain.Normalize(rec.LeadResult) {
		case resultQualified:
			res.Summary.Qualified++
		case resultDisqualified:
			res.Summary.Disqualified++
		case resultCallBack:
			res.Summary.Callbacks++
		}
		if rec.Payable {
			res.Summary.Payable++
		}
	}
	return res, nil
}

// Parse turns every row with a valid timestamp into a LeadRecord. Rows with an
// unparseable timestamp are dropped and counted.
func Parse(t domain.Table, cutoffHour int) ([]domain.LeadRecord, int, []domain.Message, error) {
	if err := domain.CheckSchema(domain.SourceLeads, t, domain.RequiredLeadsColumns...); err != nil {
		return nil, 0, nil, err
	}
	rule, ambiguous, err := detectPushRule(t)
	if err != nil {
		return nil, 0, nil, err
	}

	var messages []domain.Message
	if ambiguous {
		messages = append(messages, domain.Warning(domain.CodePushSchemaAmbiguous,
			fmt.Sprintf("both %q and %q are present; using %q", domain.ColumnLeadStatus, domain.ColumnPushedToClient, rule.column)))
	}

	records := make([]domain.LeadRecord, 0, len(t.Rows))
	discarded := 0
	for _, row := range t.Rows {
		ts, ok := businessdate.ParseTimestamp(row.Value(domain.ColumnTimestamp))
		if !ok {
			discarded++
			continue
		}
		result := row.Value(domain.ColumnLeadResult)
		records = append(records, domain.LeadRecord{
			AgentName:      row.Value(domain.ColumnAgentName),
			Timestamp:      ts,
			BusinessDate:   businessdate.Resolve(ts, cutoffHour),
			LeadResult:     result,
			LeadStatus:     row.Value(domain.ColumnLeadStatus),
			PushedToClient: row.Value(domain.ColumnPushedToClient),
			Case:           row.Value(domain.ColumnCase),
			Payable:        domain.Normalize(result) == resultQualified && rule.pushed(row.Value(rule.column)),
		})
	}
	if discarded > 0 {
		messages = append(messages, domain.Warning(domain.CodeInvalidTimestamps,
			fmt.Sprintf("%d lead rows skipped: unparseable %s", discarded, domain.ColumnTimestamp)))
	}
	return records, discarded, messages, nil
}

// PayableByDay counts payable leads per agent key and business date.
func PayableByDay(records []domain.LeadRecord, nameWords int) map[string]map[time.Time]int {
	out := make(map[string]map[time.Time]int)
	for _, rec := range records {
		if !rec.Payable {
			continue
		}
		key := AgentKey(rec.AgentName, nameWords)
		if out[key] == nil {
			out[key] = make(map[time.Time]int)
		}
		out[key][rec.BusinessDate]++
	}
	return out
}

// AgentKey normalises an agent name for matching.
func AgentKey(name string, words int) string {
	name = strings.TrimSpace(name)
	if words <= 0 {
		return name
	}
	fields := strings.Fields(name)
	if len(fields) > words {
		fields = fields[:words]
	}
	return strings.Join(fields, " ")
}

func validateFilter(f Filter) error {
	if strings.TrimSpace(f.Agent) == "" {
		return domain.ErrAgentRequired
	}
	if f.CutoffHour < 0 || f.CutoffHour > 23 {
		return domain.ErrInvalidCutoffHour
	}
	if f.Start.IsZero() || f.End.IsZero() || businessdate.DateOf(f.End).Before(businessdate.DateOf(f.Start)) {
		return domain.ErrInvalidDateRange
	}
	return nil
}
