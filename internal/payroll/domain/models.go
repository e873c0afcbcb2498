package domain

import "time"

// Hours export columns.
const (
	ColumnName       = "Name"
	ColumnDayDate    = "Day/date"
	ColumnLoggedTime = "Logged Time"
	ColumnPayable    = "Payable (t)"
	ColumnBreak      = "Break (t)"
)

// Leads export columns.
const (
	ColumnTimestamp      = "Timestamp"
	ColumnAgentName      = "Agent Name"
	ColumnLeadResult     = "Lead Result"
	ColumnLeadStatus     = "Lead Status"
	ColumnPushedToClient = "Pushed to Client"
	ColumnCase           = "Case"
)

// ColumnQualifiedPushed is appended to daily rows by the daily report.
const ColumnQualifiedPushed = "Qualified Leads (Pushed)"

// AggregateDayMarker marks a per-period aggregate row in the Day/date column.
const AggregateDayMarker = "-"

// WorkingDaysColumns lists the day-count headers seen across export generations,
// probed in order.
var WorkingDaysColumns = []string{
	"Days Work",
	"Days",
	"Working Days",
	"Work Days",
	"Days Worked",
	"Total Days",
}

// Required columns per source; the leads export additionally needs one push column.
var (
	RequiredHoursColumns = []string{ColumnName, ColumnDayDate}
	RequiredLeadsColumns = []string{ColumnTimestamp, ColumnAgentName, ColumnLeadResult}
)

// LeadRecord is one parsed row of the leads export.
type LeadRecord struct {
	AgentName      string    `json:"agent_name"`
	Timestamp      time.Time `json:"timestamp"`
	BusinessDate   time.Time `json:"business_date"`
	LeadResult     string    `json:"lead_result"`
	LeadStatus     string    `json:"lead_status,omitempty"`
	PushedToClient string    `json:"pushed_to_client,omitempty"`
	Case           string    `json:"case,omitempty"`
	Payable        bool      `json:"payable"`
}

// LeadSummary holds the per-agent lead counts for a date range.
type LeadSummary struct {
	Qualified    int `json:"qualified"`
	Disqualified int `json:"disqualified"`
	Callbacks    int `json:"callbacks"`
	Payable      int `json:"payable"`
}

// TotalRowHeuristic names the locator rule that selected a total row.
type TotalRowHeuristic string

const (
	HeuristicDashMarker   TotalRowHeuristic = "dash_marker"
	HeuristicEmptyDay     TotalRowHeuristic = "empty_day"
	HeuristicMaxDaysWork  TotalRowHeuristic = "max_days_work"
	HeuristicUndatedLast  TotalRowHeuristic = "undated_last_row"
	HeuristicLastFallback TotalRowHeuristic = "last_row_fallback"
)

// AgentTotalRow is the row holding an agent's already-summed period figures.
type AgentTotalRow struct {
	Row       Row               `json:"row"`
	Index     int               `json:"index"`
	Heuristic TotalRowHeuristic `json:"heuristic"`
}

// LowConfidence reports whether only the unconditional fallback matched.
func (t AgentTotalRow) LowConfidence() bool {
	return t.Heuristic == HeuristicLastFallback
}

// PayrollSnapshot is the computed payslip for one agent and date range.
type PayrollSnapshot struct {
	ID                 string    `json:"id"`
	AgentName          string    `json:"agent_name"`
	AgentType          string    `json:"agent_type"`
	DateRangeStart     time.Time `json:"date_range_start"`
	DateRangeEnd       time.Time `json:"date_range_end"`
	WorkingDays        int       `json:"working_days"`
	LeadsTarget        float64   `json:"leads_target"`
	PayableLeads       int       `json:"payable_leads"`
	PerformancePercent float64   `json:"performance_percent"`
	Tier               float64   `json:"tier"`
	PayableHoursNet    float64   `json:"payable_hours_net"`
	BaseSalary         float64   `json:"base_salary"`
	KPIBonus           float64   `json:"kpi_bonus"`
	TotalSalary        float64   `json:"total_salary"`
	GeneratedAt        time.Time `json:"generated_at"`
}
