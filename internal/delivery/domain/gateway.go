package domain

import (
	"context"

	"github.com/smallbiznis/iomreport/internal/config"
)

// BatchSize is the number of rows sent per insert call.
const BatchSize = 40

// TableName is the backend table holding delivery records.
const TableName = "delivery_records"

// Backend is an open connection to the delivery_records table.
type Backend interface {
	FetchAll(ctx context.Context) ([]WireRow, error)
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, rows []WireRow) error
	Count(ctx context.Context) (int64, error)
	Close() error
}

// Opener connects to the backend described by the gateway settings.
type Opener interface {
	Open(ctx context.Context, settings config.GatewaySettings) (Backend, error)
}

// BatchFunc is told how many rows have been inserted so far.
type BatchFunc func(inserted, total int)

// Gateway reads and overwrites the remote record set.
type Gateway interface {
	Settings() config.GatewaySettings
	FetchAll(ctx context.Context) ([]Record, error)
	ReplaceAll(ctx context.Context, rows []DisplayRow, onBatch BatchFunc) error
	Ping(ctx context.Context) error
	Close() error
}

// GatewayFactory builds a gateway bound to one target.
type GatewayFactory func(settings config.GatewaySettings) Gateway
