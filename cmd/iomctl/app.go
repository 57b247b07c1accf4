package main

import (
	"fmt"
	"io"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/iomreport/internal/cache"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/delivery/repository"
	"github.com/smallbiznis/iomreport/internal/delivery/service"
	"github.com/smallbiznis/iomreport/internal/observability/logger"
	"github.com/smallbiznis/iomreport/internal/ratelimit"
	"github.com/smallbiznis/iomreport/internal/session"
	"go.uber.org/zap"
)

// runtime is the CLI's hand-wired equivalent of the service graph.
type runtime struct {
	cfg        config.Config
	log        *zap.Logger
	settings   *config.SettingsStore
	controller *session.Controller
	closers    []func() error
}

func loadBase() (config.Config, *zap.Logger, *config.SettingsStore, error) {
	cfg := config.Load()
	if settingsFile != "" {
		cfg.SettingsFile = settingsFile
	}

	log, err := logger.Build(logger.Config{
		ServiceName:     "iomctl",
		Environment:     cfg.Environment,
		Version:         cfg.AppVersion,
		Level:           logLevel,
		Format:          "console",
		SamplingInitial: -1,
	})
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	settings, err := config.NewSettingsStore(cfg.SettingsFile, log)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, log, settings, nil
}

func newRuntime() (*runtime, error) {
	cfg, log, settings, err := loadBase()
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log, settings: settings}

	var client *redis.Client
	if cfg.UsesRedis() {
		client = cache.NewRedisClient(cfg.Redis)
		rt.closers = append(rt.closers, client.Close)
	}

	store, closeStore := cache.Open(cfg, client, log)
	rt.closers = append(rt.closers, closeStore)

	guard, err := ratelimit.NewGuard(cfg, client)
	if err != nil {
		rt.Close()
		return nil, err
	}

	opener := repository.NewOpener(repository.Params{Config: cfg, Log: log})
	controller, err := session.NewController(session.Params{
		Config:   cfg,
		Settings: settings,
		Factory:  service.NewFactory(service.Params{Opener: opener, Log: log}),
		Cache:    store,
		Log:      log,
		Guard:    guard,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.controller = controller
	rt.closers = append(rt.closers, controller.Close)
	return rt, nil
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.log.Debug("close failed", zap.Error(err))
		}
	}
	_ = rt.log.Sync()
}

// printRemoteError explains a gateway failure and points at the setup
// script when the table is missing.
func printRemoteError(w io.Writer, err error) {
	remoteErr, ok := domain.AsRemoteError(err)
	if !ok {
		return
	}
	fmt.Fprintf(w, "Remote error: %s\n", remoteErr.Error())
	if remoteErr.Hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", remoteErr.Hint)
	}
	if remoteErr.SchemaMissing() {
		fmt.Fprintln(w, "The delivery_records table is missing or outdated. Run `iomctl setup-sql` and execute the script in the database SQL editor.")
	}
}
