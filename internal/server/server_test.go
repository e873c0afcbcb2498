package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/payslip/internal/auth/password"
	"github.com/smallbiznis/payslip/internal/clock"
	"github.com/smallbiznis/payslip/internal/config"
	"github.com/smallbiznis/payslip/internal/observability"
	payrolldomain "github.com/smallbiznis/payslip/internal/payroll/domain"
	payrollservice "github.com/smallbiznis/payslip/internal/payroll/service"
	"github.com/smallbiznis/payslip/internal/providers/pdf"
	"github.com/smallbiznis/payslip/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	rules := config.DefaultPayrollConfig()
	rules.HourlyRate = 10
	rules.KPIFullAmount = 1000

	svc := payrollservice.NewService(payrollservice.Params{
		Log:   zap.NewNop(),
		Rules: config.NewStaticRules(rules),
		Clock: clock.NewFakeClock(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)),
		GenID: node,
	})

	engine := NewEngine(observability.Config{Environment: "test", LogLevel: "info"}, zap.NewNop())
	return NewServer(ServerParams{
		Gin:        engine,
		Cfg:        cfg,
		Log:        zap.NewNop(),
		PayrollSvc: svc,
		PDF:        pdf.New(),
	})
}

func xlsx(t *testing.T, sheetName string, table payrolldomain.Table) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, sheet.WriteTable(&buf, sheetName, table))
	return buf.Bytes()
}

func hoursExport(t *testing.T) []byte {
	return xlsx(t, "Trial 1", payrolldomain.Table{
		Columns: []string{"Name", "Day/date", "Logged Time", "Payable (t)", "Break (t)", "Days Work"},
		Rows: []payrolldomain.Row{
			{"Name": "Jane Doe", "Day/date": "2025-03-03", "Logged Time": "8 hours", "Payable (t)": "8 hours", "Break (t)": "48 min", "Days Work": "1"},
			{"Name": "Jane Doe", "Day/date": "-", "Logged Time": "80 hours", "Payable (t)": "80 hours", "Break (t)": "8 hours", "Days Work": "10"},
			{"Name": "John Roe", "Day/date": "-", "Logged Time": "8 hours", "Payable (t)": "8 hours", "Break (t)": "-", "Days Work": "1"},
		},
	})
}

func leadsExport(t *testing.T) []byte {
	table := payrolldomain.Table{Columns: []string{"Timestamp", "Agent Name", "Lead Result", "Lead Status"}}
	for i := 0; i < 16; i++ {
		table.Rows = append(table.Rows, payrolldomain.Row{
			"Timestamp":   fmt.Sprintf("2025-03-%02d 10:00:00", 3+i%10),
			"Agent Name":  "Jane Doe",
			"Lead Result": "qualified",
			"Lead Status": "Pushed to Client",
		})
	}
	return xlsx(t, "Leads Bank", table)
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func payslipRequest(t *testing.T, path string, fields map[string]string) *http.Request {
	return multipartRequest(t, path, fields,
		formFile{field: "hours_file", name: "Payslip Draft.xlsx", data: hoursExport(t)},
		formFile{field: "leads_file", name: "Leads Bank.xlsx", data: leadsExport(t)},
	)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.Config{})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGeneratePayslip(t *testing.T) {
	s := newTestServer(t, config.Config{})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, payslipRequest(t, "/api/payslips", map[string]string{
		"agent": "Jane Doe",
		"start": "2025-03-01",
		"end":   "2025-03-31",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report payrolldomain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 16, report.Snapshot.PayableLeads)
	assert.Equal(t, 10, report.Snapshot.WorkingDays)
	assert.Equal(t, 0.8, report.Snapshot.Tier)
	assert.InDelta(t, 1520, report.Snapshot.TotalSalary, 1e-9)
	assert.Equal(t, payrolldomain.HeuristicDashMarker, report.TotalRow.Heuristic)
}

func TestGeneratePayslipValidation(t *testing.T) {
	s := newTestServer(t, config.Config{})

	cases := []struct {
		name   string
		fields map[string]string
		status int
		code   string
	}{
		{name: "missing agent", fields: map[string]string{"start": "2025-03-01", "end": "2025-03-31"}, status: http.StatusBadRequest, code: "required"},
		{name: "bad date", fields: map[string]string{"agent": "Jane Doe", "start": "03/01/2025", "end": "2025-03-31"}, status: http.StatusBadRequest, code: "invalid_date"},
		{name: "reversed range", fields: map[string]string{"agent": "Jane Doe", "start": "2025-03-31", "end": "2025-03-01"}, status: http.StatusBadRequest, code: "invalid_date_range"},
		{name: "unknown type", fields: map[string]string{"agent": "Jane Doe", "agent_type": "contractor", "start": "2025-03-01", "end": "2025-03-31"}, status: http.StatusBadRequest, code: "unknown_agent_type"},
		{name: "unknown agent", fields: map[string]string{"agent": "Nobody", "start": "2025-03-01", "end": "2025-03-31"}, status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Engine().ServeHTTP(rec, payslipRequest(t, "/api/payslips", tc.fields))
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.code != "" {
				payload := decodeError(t, rec)
				require.NotEmpty(t, payload.Errors)
				assert.Equal(t, tc.code, payload.Errors[0].Code)
			}
		})
	}
}

func TestGeneratePayslipMissingFiles(t *testing.T) {
	s := newTestServer(t, config.Config{})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, multipartRequest(t, "/api/payslips", map[string]string{
		"agent": "Jane Doe", "start": "2025-03-01", "end": "2025-03-31",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "hours_file", payload.Errors[0].Field)
}

func TestGeneratePayslipSchemaError(t *testing.T) {
	s := newTestServer(t, config.Config{})
	hours := xlsx(t, "Trial 1", payrolldomain.Table{
		Columns: []string{"Name", "Day/date"},
		Rows:    []payrolldomain.Row{{"Name": "Jane Doe", "Day/date": "-"}},
	})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, multipartRequest(t, "/api/payslips",
		map[string]string{"agent": "Jane Doe", "start": "2025-03-01", "end": "2025-03-31"},
		formFile{field: "hours_file", name: "hours.xlsx", data: hours},
		formFile{field: "leads_file", name: "leads.xlsx", data: leadsExport(t)},
	))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "schema_error", payload.Type)
	assert.Len(t, payload.Errors, 3)
}

func TestGeneratePayslipMissingPushColumn(t *testing.T) {
	s := newTestServer(t, config.Config{})
	leads := xlsx(t, "Leads Bank", payrolldomain.Table{
		Columns: []string{"Timestamp", "Agent Name", "Lead Result"},
		Rows: []payrolldomain.Row{
			{"Timestamp": "2025-03-03 10:00:00", "Agent Name": "Jane Doe", "Lead Result": "qualified"},
		},
	})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, multipartRequest(t, "/api/payslips",
		map[string]string{"agent": "Jane Doe", "start": "2025-03-01", "end": "2025-03-31"},
		formFile{field: "hours_file", name: "hours.xlsx", data: hoursExport(t)},
		formFile{field: "leads_file", name: "leads.xlsx", data: leads},
	))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	payload := decodeError(t, rec)
	assert.Equal(t, "schema_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "leads", payload.Errors[0].Field)
	assert.Equal(t, "missing_push_column", payload.Errors[0].Code)
}

func TestDownloadPayslipPDF(t *testing.T) {
	s := newTestServer(t, config.Config{})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, payslipRequest(t, "/api/payslips/pdf", map[string]string{
		"agent": "Jane Doe", "start": "2025-03-01", "end": "2025-03-31",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payslip-jane-doe-2025-03-01-2025-03-31.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestDownloadDailyReport(t *testing.T) {
	s := newTestServer(t, config.Config{Report: config.ReportConfig{OutputSheet: "Trial 1 (Auto)"}})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, payslipRequest(t, "/api/reports/daily", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="trial-1-auto.xlsx"`, rec.Header().Get("Content-Disposition"))

	out, err := sheet.Load("report.xlsx", rec.Body.Bytes(), "Trial 1 (Auto)")
	require.NoError(t, err)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, "2025-03-03", out.Rows[0].Value("Day/date"))
	assert.Equal(t, "2", out.Rows[0].Value("Qualified Leads (Pushed)"))
	assert.Equal(t, "-", out.Rows[1].Value("Day/date"))
}

func TestListAgents(t *testing.T) {
	s := newTestServer(t, config.Config{})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, multipartRequest(t, "/api/agents", nil,
		formFile{field: "hours_file", name: "hours.xlsx", data: hoursExport(t)},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Jane Doe", "John Roe"}, resp.Data)
}

func TestColumnStats(t *testing.T) {
	s := newTestServer(t, config.Config{})
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, multipartRequest(t, "/api/stats",
		map[string]string{"operation": "top_n", "column": "Agent Name", "limit": "5"},
		formFile{field: "file", name: "leads.xlsx", data: leadsExport(t)},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"key":"Jane Doe","value":16`)

	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, multipartRequest(t, "/api/stats",
		map[string]string{"operation": "mode", "column": "Missing"},
		formFile{field: "file", name: "leads.xlsx", data: leadsExport(t)},
	))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_column", decodeError(t, rec).Errors[0].Code)
}

func TestBasicAuth(t *testing.T) {
	s := newTestServer(t, config.Config{AdminUsername: "admin", AdminPassword: "secret"})

	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, multipartRequest(t, "/api/agents", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	req := multipartRequest(t, "/api/agents", nil,
		formFile{field: "hours_file", name: "hours.xlsx", data: hoursExport(t)},
	)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBasicAuthWithHashedPassword(t *testing.T) {
	encoded, err := password.Hash("secret")
	require.NoError(t, err)
	s := newTestServer(t, config.Config{AdminUsername: "admin", AdminPassword: encoded})

	req := multipartRequest(t, "/api/agents", nil,
		formFile{field: "hours_file", name: "hours.xlsx", data: hoursExport(t)},
	)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = multipartRequest(t, "/api/agents", nil)
	req.SetBasicAuth("admin", encoded)
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
