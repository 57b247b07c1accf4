package cache

import (
	"context"
	"encoding/json"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

// Store keeps the last good record set on this machine so the dashboard
// can still render when the remote store is unreachable.
type Store interface {
	// SaveAll replaces the cached set with records.
	SaveAll(ctx context.Context, records []domain.Record) error
	// LoadAll returns the cached set. Read failures yield an empty set.
	LoadAll(ctx context.Context) []domain.Record
}

func encodeSnapshot(records []domain.Record) ([]byte, error) {
	rows := make([]domain.WireRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Wire())
	}
	return json.Marshal(rows)
}

func decodeSnapshot(data []byte) ([]domain.Record, error) {
	var rows []domain.WireRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.FromWire(row))
	}
	return records, nil
}
