package importer

import (
	"context"

	"github.com/smallbiznis/iomreport/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("importer",
	fx.Provide(provideSheetsReader),
	fx.Provide(NewService),
)

// provideSheetsReader returns nil when no service account is configured.
func provideSheetsReader(cfg config.Config, log *zap.Logger) (*SheetsReader, error) {
	if cfg.GoogleSheetsCredentialsFile == "" {
		log.Named("importer").Info("sheets api import disabled")
		return nil, nil
	}
	return NewSheetsReader(context.Background(), cfg.GoogleSheetsCredentialsFile)
}
