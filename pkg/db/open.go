package db

import (
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	gormprom "gorm.io/plugin/prometheus"
)

type options struct {
	logger     gormlogger.Interface
	tracing    bool
	metricsFor string
}

type Option func(*options)

func WithLogger(l gormlogger.Interface) Option {
	return func(o *options) { o.logger = l }
}

// WithTracing attaches the OpenTelemetry gorm plugin.
func WithTracing() Option {
	return func(o *options) { o.tracing = true }
}

// WithMetrics exports connection pool stats under the given db label.
// Use it for long-lived handles only; the collectors live for the process.
func WithMetrics(dbName string) Option {
	return func(o *options) { o.metricsFor = dbName }
}

// Open connects using cfg and applies pool limits and plugins.
func Open(cfg Config, opts ...Option) (*gorm.DB, error) {
	o := options{logger: gormlogger.Discard}
	for _, opt := range opts {
		opt(&o)
	}

	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 o.logger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Type, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}

	if o.tracing {
		if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithoutQueryVariables())); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("register tracing plugin: %w", err)
		}
	}
	if o.metricsFor != "" {
		if err := conn.Use(gormprom.New(gormprom.Config{
			DBName:          o.metricsFor,
			RefreshInterval: 15,
		})); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("register metrics plugin: %w", err)
		}
	}

	return conn, nil
}

// Close releases the underlying pool.
func Close(conn *gorm.DB) error {
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
