package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/stretchr/testify/require"
)

func sqliteSettings(t *testing.T) config.GatewaySettings {
	t.Helper()
	return config.GatewaySettings{URL: "sqlite://" + filepath.Join(t.TempDir(), "remote.db")}
}

func TestSQLBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, err := newTestOpener(true).Open(ctx, sqliteSettings(t))
	require.NoError(t, err)
	defer backend.Close()

	rows := []domain.WireRow{
		domain.ToWire(domain.DisplayRow{"IOM NO.": "1001", "BUYER": "Zara", "DELIVERY QTY. (YDS)": "1,500.5"}),
		domain.ToWire(domain.DisplayRow{"IOM NO.": "1002", "BUYER": "H&M"}),
	}
	require.NoError(t, backend.Insert(ctx, rows))

	total, err := backend.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	fetched, err := backend.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, fetched, 2)

	first := domain.FromWire(fetched[0])
	require.Equal(t, "Zara", first.Buyer)
	require.NotZero(t, first.ID)
	require.NotNil(t, first.DeliveryQtyYds)
	require.Equal(t, 1500.5, *first.DeliveryQtyYds)
	require.Equal(t, 1001.0, *first.IOMNo)

	second := domain.FromWire(fetched[1])
	require.Nil(t, second.DeliveryQtyYds)
	require.Greater(t, second.ID, first.ID)

	require.NoError(t, backend.DeleteAll(ctx))
	total, err = backend.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestSQLBackendMissingTable(t *testing.T) {
	backend, err := newTestOpener(false).Open(context.Background(), sqliteSettings(t))
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.FetchAll(context.Background())
	remoteErr, ok := domain.AsRemoteError(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeUndefinedTable, remoteErr.Code)
	require.True(t, remoteErr.SchemaMissing())
}

func TestSQLBackendUnknownColumn(t *testing.T) {
	backend, err := newTestOpener(true).Open(context.Background(), sqliteSettings(t))
	require.NoError(t, err)
	defer backend.Close()

	err = backend.Insert(context.Background(), []domain.WireRow{{"buyer": "Zara", "not_a_column": "x"}})
	remoteErr, ok := domain.AsRemoteError(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeUndefinedColumn, remoteErr.Code)
}
