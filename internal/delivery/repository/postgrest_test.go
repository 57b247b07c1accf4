package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOpener(autoMigrate bool) *Opener {
	return NewOpener(Params{
		Config: config.Config{RemoteAutoMigrate: autoMigrate},
		Log:    zap.NewNop(),
		Client: http.DefaultClient,
	})
}

func TestPostgrestBackendRequests(t *testing.T) {
	var inserted []domain.WireRow
	var deleteQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/delivery_records", r.URL.Path)
		require.Equal(t, "anon-key", r.Header.Get("apikey"))
		require.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodGet:
			if r.Header.Get("Prefer") == "count=exact" {
				w.Header().Set("Content-Range", "0-0/2")
				_, _ = w.Write([]byte(`[{"id":1}]`))
				return
			}
			require.Equal(t, "*", r.URL.Query().Get("select"))
			require.Equal(t, "id.asc", r.URL.Query().Get("order"))
			_, _ = w.Write([]byte(`[{"id":1,"buyer":"Zara","delivery_qty_yds":1200},{"id":2,"buyer":"H&M","delivery_qty_yds":null}]`))
		case http.MethodDelete:
			deleteQuery = r.URL.RawQuery
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPost:
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var batch []domain.WireRow
			require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
			inserted = append(inserted, batch...)
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	backend, err := newTestOpener(false).Open(context.Background(), config.GatewaySettings{URL: srv.URL + "/", Key: "anon-key"})
	require.NoError(t, err)
	defer backend.Close()

	rows, err := backend.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Zara", rows[0]["buyer"])

	require.NoError(t, backend.DeleteAll(context.Background()))
	require.Equal(t, "id=neq.-1", deleteQuery)

	require.NoError(t, backend.Insert(context.Background(), []domain.WireRow{{"buyer": "Uniqlo"}}))
	require.Len(t, inserted, 1)
	require.Equal(t, "Uniqlo", inserted[0]["buyer"])

	total, err := backend.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestPostgrestBackendInsertsSparseRows(t *testing.T) {
	var columns string
	var batch []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))

		columns = r.URL.Query().Get("columns")
		if columns == "" && len(batch) > 1 && len(batch[0]) != len(batch[1]) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"PGRST102","details":null,"hint":null,"message":"All object keys must match"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	backend, err := newTestOpener(false).Open(context.Background(), config.GatewaySettings{URL: srv.URL, Key: "k"})
	require.NoError(t, err)

	rows := []domain.WireRow{
		domain.ToWire(domain.DisplayRow{"IOM NO.": 1, "BUYER": "Zara", "Remarks": "late"}),
		domain.ToWire(domain.DisplayRow{"IOM NO.": 2, "BUYER": "H&M"}),
	}
	require.NotEqual(t, len(rows[0]), len(rows[1]))

	require.NoError(t, backend.Insert(context.Background(), rows))
	require.Equal(t, `"buyer","iom_no","remarks"`, columns)
	require.Len(t, batch, 2)
	require.NotContains(t, batch[1], "remarks")
}

func TestPostgrestBackendDecodesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"PGRST205","details":null,"hint":"Perhaps you meant the table 'public.records'","message":"Could not find the table 'public.delivery_records' in the schema cache"}`))
	}))
	defer srv.Close()

	backend, err := newTestOpener(false).Open(context.Background(), config.GatewaySettings{URL: srv.URL, Key: "k"})
	require.NoError(t, err)

	_, err = backend.FetchAll(context.Background())
	remoteErr, ok := domain.AsRemoteError(err)
	require.True(t, ok)
	require.Equal(t, "PGRST205", remoteErr.Code)
	require.Equal(t, http.StatusNotFound, remoteErr.Status)
	require.True(t, remoteErr.SchemaMissing())
	require.Contains(t, remoteErr.Hint, "public.records")
}

func TestPostgrestBackendPlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	backend, err := newTestOpener(false).Open(context.Background(), config.GatewaySettings{URL: srv.URL, Key: "k"})
	require.NoError(t, err)

	err = backend.DeleteAll(context.Background())
	remoteErr, ok := domain.AsRemoteError(err)
	require.True(t, ok)
	require.Equal(t, "bad gateway", remoteErr.Message)
	require.False(t, remoteErr.SchemaMissing())
}

func TestOpenerRejectsUnknownScheme(t *testing.T) {
	_, err := newTestOpener(false).Open(context.Background(), config.GatewaySettings{URL: "ftp://example.com"})
	require.True(t, errors.Is(err, domain.ErrUnsupportedTarget))
}

func TestNewPostgrestBackendKeepsRestPrefix(t *testing.T) {
	b, err := newPostgrestBackend(http.DefaultClient, "https://x.supabase.co/rest/v1/", "k")
	require.NoError(t, err)
	require.Equal(t, "https://x.supabase.co/rest/v1/delivery_records", b.tableURL)
}
