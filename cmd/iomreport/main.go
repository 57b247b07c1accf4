package main

import (
	"github.com/smallbiznis/iomreport/internal/auth"
	"github.com/smallbiznis/iomreport/internal/cache"
	"github.com/smallbiznis/iomreport/internal/clock"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery"
	"github.com/smallbiznis/iomreport/internal/importer"
	"github.com/smallbiznis/iomreport/internal/migration"
	"github.com/smallbiznis/iomreport/internal/observability"
	"github.com/smallbiznis/iomreport/internal/ratelimit"
	"github.com/smallbiznis/iomreport/internal/report"
	"github.com/smallbiznis/iomreport/internal/server"
	"github.com/smallbiznis/iomreport/internal/session"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Core infrastructure
		config.Module,
		observability.Module,
		clock.Module,
		cache.Module,
		ratelimit.Module,

		// Domain
		delivery.Module,
		migration.Module,
		importer.Module,
		report.Module,
		session.Module,
		auth.Module,

		server.Module,
	)
	app.Run()
}
