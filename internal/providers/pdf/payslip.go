package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/payslip/internal/payroll/domain"
)

const dateLayout = "02 Jan 2006"

// PayslipData is a payroll report formatted for print.
type PayslipData struct {
	Title       string
	SnapshotID  string
	AgentName   string
	AgentType   string
	Period      string
	GeneratedAt string

	KPI    []Line
	Salary []Line
	Total  string

	Warnings []string
}

// Line is a label/value pair of a payslip table.
type Line struct {
	Label string
	Value string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// NewPayslipData formats report for print. Amounts are rounded to two
// decimals here only.
func NewPayslipData(report *domain.Report) PayslipData {
	s := report.Snapshot
	data := PayslipData{
		Title:       "Payslip",
		SnapshotID:  s.ID,
		AgentName:   s.AgentName,
		AgentType:   strings.ReplaceAll(s.AgentType, "_", " "),
		Period:      s.DateRangeStart.Format(dateLayout) + " - " + s.DateRangeEnd.Format(dateLayout),
		GeneratedAt: s.GeneratedAt.Format("02 Jan 2006 15:04 MST"),
		KPI: []Line{
			{Label: "Working days", Value: fmt.Sprintf("%d", s.WorkingDays)},
			{Label: "Leads target", Value: formatNumber(s.LeadsTarget)},
			{Label: "Payable leads", Value: fmt.Sprintf("%d", s.PayableLeads)},
			{Label: "Performance", Value: formatNumber(s.PerformancePercent) + "%"},
			{Label: "Tier", Value: fmt.Sprintf("%.0f%%", s.Tier*100)},
		},
		Salary: []Line{
			{Label: "Payable hours (net)", Value: formatNumber(s.PayableHoursNet)},
			{Label: "Base salary", Value: formatNumber(s.BaseSalary)},
			{Label: "KPI bonus", Value: formatNumber(s.KPIBonus)},
		},
		Total: formatNumber(s.TotalSalary),
	}
	for _, msg := range report.Messages {
		data.Warnings = append(data.Warnings, msg.Code+": "+msg.Message)
	}
	return data
}

func (p *PDFProvider) GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, data.Title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New(data.AgentName, props.Text{Style: fontstyle.Bold, Size: 12}),
			text.New("Agent type: "+data.AgentType, props.Text{Top: 6}),
			text.New("Period: "+data.Period, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Reference: "+data.SnapshotID, props.Text{Align: align.Right}),
			text.New("Generated: "+data.GeneratedAt, props.Text{Top: 4, Align: align.Right}),
		),
	)

	addSection(m, "Performance", data.KPI)
	addSection(m, "Salary", data.Salary)

	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Total salary", props.Text{Style: fontstyle.Bold, Size: 11, Top: 3}),
		text.NewCol(3, data.Total, props.Text{Style: fontstyle.Bold, Size: 11, Top: 3, Align: align.Right}),
	)

	if len(data.Warnings) > 0 {
		m.AddRow(10,
			text.NewCol(12, "Notes", props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}),
		)
		for _, w := range data.Warnings {
			m.AddRow(6, text.NewCol(12, w, props.Text{Size: 8}))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func addSection(m core.Maroto, title string, lines []Line) {
	m.AddRow(10,
		text.NewCol(12, title, props.Text{Style: fontstyle.Bold, Size: 11, Top: 3}),
	)
	for _, l := range lines {
		m.AddRow(7,
			text.NewCol(6, l.Label, props.Text{Size: 9}),
			text.NewCol(6, l.Value, props.Text{Size: 9, Align: align.Right}),
		)
	}
}

// formatNumber rounds half away from zero to two decimals.
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
