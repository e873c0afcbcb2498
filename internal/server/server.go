package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/payslip/internal/cache"
	"github.com/smallbiznis/payslip/internal/config"
	"github.com/smallbiznis/payslip/internal/observability"
	obsmiddleware "github.com/smallbiznis/payslip/internal/observability/logger"
	"github.com/smallbiznis/payslip/internal/payroll"
	payrolldomain "github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/smallbiznis/payslip/internal/providers"
	"github.com/smallbiznis/payslip/internal/providers/pdf"
	"github.com/smallbiznis/payslip/internal/ratelimit"
	"github.com/smallbiznis/payslip/internal/sheet"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

var Module = fx.Module("http.server",
	cache.Module,
	sheet.Module,
	payroll.Module,
	providers.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(obsCfg, log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	payrollSvc payrolldomain.Service
	fetcher    *sheet.Fetcher
	pdf        pdf.Provider
	limiter    *ratelimit.ReportLimiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	PayrollSvc payrolldomain.Service
	Fetcher    *sheet.Fetcher           `optional:"true"`
	PDF        pdf.Provider             `optional:"true"`
	Limiter    *ratelimit.ReportLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("http.server"),
		payrollSvc: p.PayrollSvc,
		fetcher:    p.Fetcher,
		pdf:        p.PDF,
		limiter:    p.Limiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	if s.cfg.AuthEnabled() {
		api.Use(BasicAuthRequired(s.cfg.AdminUsername, s.cfg.AdminPassword))
	}
	api.Use(s.ReportRateLimited())

	api.POST("/agents", s.ListAgents)
	api.POST("/payslips", s.GeneratePayslip)
	api.POST("/payslips/pdf", s.DownloadPayslipPDF)
	api.POST("/reports/daily", s.DownloadDailyReport)
	api.POST("/stats", s.ColumnStats)
}
