package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config labels every series with the service identity.
type Config struct {
	ServiceName string
	Environment string
}

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

const (
	ReportSnapshot = "snapshot"
	ReportDaily    = "daily"
)

// ReportMetrics captures reconciliation health: how many reports ran, how
// long they took and how much input had to be discarded or flagged.
type ReportMetrics struct {
	reports       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	warnings      *prometheus.CounterVec
	discardedRows *prometheus.CounterVec
}

// NewReportMetrics registers report metrics on the default registerer.
func NewReportMetrics(cfg Config) (*ReportMetrics, error) {
	return NewReportMetricsWithRegisterer(prometheus.DefaultRegisterer, cfg)
}

// NewReportMetricsWithRegisterer registers report metrics on registerer.
func NewReportMetricsWithRegisterer(registerer prometheus.Registerer, cfg Config) (*ReportMetrics, error) {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "payslip"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &ReportMetrics{
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payslip_reports_total",
			Help:        "Reports computed by kind and outcome.",
			ConstLabels: constLabels,
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "payslip_report_duration_seconds",
			Help:        "Report computation latency.",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"kind"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payslip_report_warnings_total",
			Help:        "Non-fatal diagnostics raised while reconciling exports.",
			ConstLabels: constLabels,
		}, []string{"code"}),
		discardedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payslip_discarded_rows_total",
			Help:        "Input rows excluded from aggregation.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{m.reports, m.duration, m.warnings, m.discardedRows} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveReport records one finished report.
func (m *ReportMetrics) ObserveReport(kind string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.reports.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordWarning counts a diagnostic code.
func (m *ReportMetrics) RecordWarning(code string) {
	if m == nil {
		return
	}
	m.warnings.WithLabelValues(strings.TrimSpace(code)).Inc()
}

// RecordDiscarded counts rows excluded for reason.
func (m *ReportMetrics) RecordDiscarded(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.discardedRows.WithLabelValues(reason).Add(float64(n))
}
