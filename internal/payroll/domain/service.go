package domain

import (
	"context"
	"time"
)

// Service reconciles hours and leads exports into payroll reports.
type Service interface {
	GenerateSnapshot(ctx context.Context, req SnapshotRequest) (*Report, error)
	BuildDailyReport(ctx context.Context, hours Table, leads Table) (Table, error)
	ListAgents(ctx context.Context, hours Table) ([]string, error)
}

type SnapshotRequest struct {
	Agent     string
	AgentType string
	Start     time.Time
	End       time.Time
	Hours     Table
	Leads     Table
}

// Report is a snapshot plus the rows it was derived from, for auditing.
type Report struct {
	Snapshot  PayrollSnapshot `json:"snapshot"`
	Summary   LeadSummary     `json:"lead_summary"`
	TotalRow  AgentTotalRow   `json:"total_row"`
	AgentRows []Row           `json:"agent_rows"`
	Leads     []LeadRecord    `json:"leads"`
	Messages  []Message       `json:"messages"`
}
