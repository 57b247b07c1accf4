package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/iomreport/internal/auth"
	authsession "github.com/smallbiznis/iomreport/internal/auth/session"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/importer"
	"github.com/smallbiznis/iomreport/internal/migration"
	"github.com/smallbiznis/iomreport/internal/observability"
	obsmiddleware "github.com/smallbiznis/iomreport/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/iomreport/internal/observability/metrics"
	obstracing "github.com/smallbiznis/iomreport/internal/observability/tracing"
	"github.com/smallbiznis/iomreport/internal/report"
	"github.com/smallbiznis/iomreport/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics, log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger, shutdowner fx.Shutdowner) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	Controller *session.Controller
	Importer   *importer.Service
	Exporter   *report.Exporter
	Gate       *auth.Gate
	Cookies    *authsession.Manager
	Settings   *config.SettingsStore
	SetupSQL   migration.SetupScript
}

type Server struct {
	cfg        config.Config
	log        *zap.Logger
	controller *session.Controller
	importer   *importer.Service
	exporter   *report.Exporter
	gate       *auth.Gate
	cookies    *authsession.Manager
	settings   *config.SettingsStore
	setupSQL   string
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:        p.Config,
		log:        p.Log.Named("http"),
		controller: p.Controller,
		importer:   p.Importer,
		exporter:   p.Exporter,
		gate:       p.Gate,
		cookies:    p.Cookies,
		settings:   p.Settings,
		setupSQL:   string(p.SetupSQL),
	}
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	api.GET("/status", s.Status)
	api.POST("/refresh", s.Refresh)
	api.GET("/report", s.Report)
	api.GET("/report/options", s.ReportOptions)
	for _, format := range []report.Format{report.FormatXLSX, report.FormatPDF, report.FormatCSV} {
		api.GET("/report/export."+string(format), s.Export(format))
	}

	authGroup := r.Group("/auth")
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.Me)
	authGroup.POST("/view", s.SelectView)

	admin := r.Group("/admin", s.AdminRequired())
	admin.GET("/settings", s.GetSettings)
	admin.PUT("/settings", s.UpdateSettings)
	admin.POST("/settings/test", s.TestSettings)
	admin.GET("/setup-sql", s.SetupSQL)
	admin.POST("/imports/file", s.ImportFile)
	admin.POST("/imports/url", s.ImportURL)
	admin.POST("/imports/sheets", s.ImportSheet)
	admin.GET("/imports/pending", s.GetPending)
	admin.DELETE("/imports/pending", s.DiscardPending)
	admin.POST("/imports/pending/commit", s.CommitPending)
}
