// Command report writes the daily hours report with pushed lead counts,
// reading both exports from disk or their configured URLs.
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payslip/internal/cache"
	"github.com/smallbiznis/payslip/internal/clock"
	"github.com/smallbiznis/payslip/internal/config"
	"github.com/smallbiznis/payslip/internal/observability"
	"github.com/smallbiznis/payslip/internal/payroll"
	payrolldomain "github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/smallbiznis/payslip/internal/sheet"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		cache.Module,
		sheet.Module,
		payroll.Module,

		// No server module!
		fx.Invoke(StartReport),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

type reportJob struct {
	cfg     config.Config
	svc     payrolldomain.Service
	fetcher *sheet.Fetcher
	log     *zap.Logger
}

func StartReport(lc fx.Lifecycle, sd fx.Shutdowner, cfg config.Config, svc payrolldomain.Service, fetcher *sheet.Fetcher, log *zap.Logger) {
	job := &reportJob{cfg: cfg, svc: svc, fetcher: fetcher, log: log.Named("report")}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				code := 0
				if err := job.run(context.Background()); err != nil {
					job.log.Error("daily report failed", zap.Error(err))
					code = 1
				}
				_ = sd.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func (j *reportJob) run(ctx context.Context) error {
	hours, err := j.load(ctx, j.cfg.Report.HoursPath, j.cfg.HoursSourceURL, j.cfg.HoursSheet)
	if err != nil {
		return err
	}
	leads, err := j.load(ctx, j.cfg.Report.LeadsPath, j.cfg.LeadsSourceURL, j.cfg.LeadsSheet)
	if err != nil {
		return err
	}

	report, err := j.svc.BuildDailyReport(ctx, hours, leads)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := sheet.WriteTable(&buf, j.cfg.Report.OutputSheet, report); err != nil {
		return err
	}
	if err := os.WriteFile(j.cfg.Report.OutputPath, buf.Bytes(), 0o644); err != nil {
		return err
	}
	j.log.Info("daily report saved",
		zap.String("path", j.cfg.Report.OutputPath),
		zap.String("sheet", j.cfg.Report.OutputSheet),
		zap.Int("rows", len(report.Rows)),
	)
	return nil
}

// load prefers the configured URL and falls back to the local file.
func (j *reportJob) load(ctx context.Context, path, url, sheetName string) (payrolldomain.Table, error) {
	if url != "" {
		return j.fetcher.LoadURL(ctx, url, sheetName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return payrolldomain.Table{}, err
	}
	return sheet.Load(filepath.Base(path), data, sheetName)
}
