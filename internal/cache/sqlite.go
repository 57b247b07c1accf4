package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	obslogger "github.com/smallbiznis/iomreport/internal/observability/logger"
	"github.com/smallbiznis/iomreport/pkg/db"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type cachedRecord struct {
	Position int               `gorm:"primaryKey;autoIncrement:false"`
	Data     datatypes.JSONMap `gorm:"not null"`
}

func (cachedRecord) TableName() string {
	return "cached_records"
}

// SQLiteStore persists the record set in a local SQLite file, one row per
// record in display order.
type SQLiteStore struct {
	conn *gorm.DB
	log  *zap.Logger
}

func NewSQLiteStore(path string, log *zap.Logger, opts ...db.Option) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	opts = append([]db.Option{
		db.WithLogger(obslogger.NewGormLogger(log, obslogger.DefaultGormLoggerConfig())),
	}, opts...)
	conn, err := db.Open(db.Config{Type: db.TypeSQLite, DSN: path, MaxOpenConn: 1}, opts...)
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(&cachedRecord{}); err != nil {
		_ = db.Close(conn)
		return nil, fmt.Errorf("migrate cache: %w", err)
	}

	return &SQLiteStore{conn: conn, log: log.Named("cache.sqlite")}, nil
}

// SaveAll clears and refills the table in one transaction.
func (s *SQLiteStore) SaveAll(ctx context.Context, records []domain.Record) error {
	return s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&cachedRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		rows := make([]cachedRecord, 0, len(records))
		for i, rec := range records {
			rows = append(rows, cachedRecord{Position: i, Data: datatypes.JSONMap(rec.Wire())})
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

func (s *SQLiteStore) LoadAll(ctx context.Context) []domain.Record {
	var rows []cachedRecord
	if err := s.conn.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		obslogger.WithContext(ctx, s.log).Warn("cache read failed", zap.Error(err))
		return nil
	}
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.FromWire(domain.WireRow(row.Data)))
	}
	return records
}

func (s *SQLiteStore) Close() error {
	return db.Close(s.conn)
}
