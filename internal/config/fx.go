package config

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(provideSettingsStore),
)

func provideSettingsStore(lc fx.Lifecycle, cfg Config, log *zap.Logger) (*SettingsStore, error) {
	store, err := NewSettingsStore(cfg.SettingsFile, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			store.Watch()
			return nil
		},
	})
	return store, nil
}
