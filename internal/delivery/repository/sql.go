package repository

import (
	"context"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/pkg/db"
	"gorm.io/gorm"
)

// sqlBackend reads and writes the delivery table directly over a database
// connection (Postgres, MySQL or SQLite).
type sqlBackend struct {
	conn  *gorm.DB
	table string
}

func newSQLBackend(conn *gorm.DB) *sqlBackend {
	return &sqlBackend{conn: conn, table: domain.TableName}
}

func (b *sqlBackend) FetchAll(ctx context.Context) ([]domain.WireRow, error) {
	var rows []map[string]any
	if err := b.conn.WithContext(ctx).Table(b.table).Order("id asc").Find(&rows).Error; err != nil {
		return nil, toRemoteError(err)
	}

	out := make([]domain.WireRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.WireRow(row))
	}
	return out, nil
}

func (b *sqlBackend) DeleteAll(ctx context.Context) error {
	stmt := "DELETE FROM " + b.conn.Statement.Quote(b.table) + " WHERE id <> ?"
	if err := b.conn.WithContext(ctx).Exec(stmt, -1).Error; err != nil {
		return toRemoteError(err)
	}
	return nil
}

func (b *sqlBackend) Insert(ctx context.Context, rows []domain.WireRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, map[string]any(row))
	}
	if err := b.conn.WithContext(ctx).Table(b.table).Create(&values).Error; err != nil {
		return toRemoteError(err)
	}
	return nil
}

func (b *sqlBackend) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := b.conn.WithContext(ctx).Table(b.table).Count(&total).Error; err != nil {
		return 0, toRemoteError(err)
	}
	return total, nil
}

func (b *sqlBackend) Close() error {
	return db.Close(b.conn)
}

func toRemoteError(err error) error {
	if err == nil {
		return nil
	}
	if driverErr, ok := db.Classify(err); ok {
		return &domain.RemoteError{
			Message: driverErr.Message,
			Details: driverErr.Details,
			Hint:    driverErr.Hint,
			Code:    driverErr.Code,
			Err:     err,
		}
	}
	return domain.WrapRemoteError(err)
}
