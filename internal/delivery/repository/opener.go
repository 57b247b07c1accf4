package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/migration"
	obslogger "github.com/smallbiznis/iomreport/internal/observability/logger"
	"github.com/smallbiznis/iomreport/internal/observability/tracing"
	"github.com/smallbiznis/iomreport/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Client *http.Client `optional:"true"`
}

// Opener picks a backend by URL scheme: http(s) goes to PostgREST,
// database schemes open a direct connection.
type Opener struct {
	client      *http.Client
	log         *zap.Logger
	autoMigrate bool
}

func NewOpener(p Params) *Opener {
	client := p.Client
	if client == nil {
		client = tracing.NewHTTPClient(60 * time.Second)
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Opener{
		client:      client,
		log:         log.Named("delivery.repository"),
		autoMigrate: p.Config.RemoteAutoMigrate,
	}
}

func (o *Opener) Open(ctx context.Context, settings config.GatewaySettings) (domain.Backend, error) {
	u, err := url.Parse(strings.TrimSpace(settings.URL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedTarget, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return newPostgrestBackend(o.client, settings.URL, settings.Key)
	case "postgres", "postgresql", "mysql", "sqlite":
		return o.openSQL(ctx, settings)
	default:
		return nil, fmt.Errorf("%w: scheme %q", domain.ErrUnsupportedTarget, u.Scheme)
	}
}

func (o *Opener) openSQL(ctx context.Context, settings config.GatewaySettings) (domain.Backend, error) {
	cfg, err := db.ParseURL(settings.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedTarget, err)
	}

	conn, err := db.Open(cfg,
		db.WithLogger(obslogger.NewGormLogger(o.log, obslogger.DefaultGormLoggerConfig())),
		db.WithTracing(),
	)
	if err != nil {
		return nil, toRemoteError(err)
	}

	if o.autoMigrate {
		if err := migration.EnsureSchema(conn.WithContext(ctx), cfg.Type); err != nil {
			_ = db.Close(conn)
			return nil, toRemoteError(err)
		}
		o.log.Info("remote schema ensured", zap.String("driver", cfg.Type))
	}

	return newSQLBackend(conn), nil
}

var _ domain.Opener = (*Opener)(nil)
