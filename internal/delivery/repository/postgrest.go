package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

const maxErrorBody = 64 << 10

// postgrestBackend talks to the delivery table through a PostgREST
// endpoint such as Supabase's /rest/v1.
type postgrestBackend struct {
	client   *http.Client
	tableURL string
	key      string
}

func newPostgrestBackend(client *http.Client, baseURL, key string) (*postgrestBackend, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(path, "/rest/v1") {
		path += "/rest/v1"
	}
	u.Path = path + "/" + domain.TableName
	u.RawQuery = ""

	return &postgrestBackend{client: client, tableURL: u.String(), key: key}, nil
}

func (b *postgrestBackend) FetchAll(ctx context.Context) ([]domain.WireRow, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "id.asc")

	resp, err := b.do(ctx, http.MethodGet, query, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rows []domain.WireRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &domain.RemoteError{Message: "decode response: " + err.Error(), Status: resp.StatusCode, Err: err}
	}
	return rows, nil
}

// DeleteAll removes every row. PostgREST refuses an unfiltered DELETE, so
// the filter matches any id.
func (b *postgrestBackend) DeleteAll(ctx context.Context) error {
	query := url.Values{}
	query.Set("id", "neq.-1")

	resp, err := b.do(ctx, http.MethodDelete, query, nil, http.Header{"Prefer": {"return=minimal"}})
	if err != nil {
		return err
	}
	return drain(resp)
}

// Insert posts one batch. Rows may carry different key sets, which
// PostgREST only accepts when the columns parameter names their union;
// columns a row omits take their default.
func (b *postgrestBackend) Insert(ctx context.Context, rows []domain.WireRow) error {
	if len(rows) == 0 {
		return nil
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return &domain.RemoteError{Message: "encode rows: " + err.Error(), Err: err}
	}

	query := url.Values{}
	query.Set("columns", insertColumns(rows))

	resp, err := b.do(ctx, http.MethodPost, query, bytes.NewReader(body), http.Header{
		"Content-Type": {"application/json"},
		"Prefer":       {"return=minimal"},
	})
	if err != nil {
		return err
	}
	return drain(resp)
}

func insertColumns(rows []domain.WireRow) string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			seen[key] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, `"`+key+`"`)
	}
	sort.Strings(columns)
	return strings.Join(columns, ",")
}

// Count asks for an exact count and reads it from Content-Range.
func (b *postgrestBackend) Count(ctx context.Context) (int64, error) {
	query := url.Values{}
	query.Set("select", "id")
	query.Set("limit", "1")

	resp, err := b.do(ctx, http.MethodGet, query, nil, http.Header{"Prefer": {"count=exact"}})
	if err != nil {
		return 0, err
	}
	defer drain(resp)

	contentRange := resp.Header.Get("Content-Range")
	idx := strings.LastIndexByte(contentRange, '/')
	if idx < 0 {
		return 0, nil
	}
	total, err := strconv.ParseInt(contentRange[idx+1:], 10, 64)
	if err != nil {
		return 0, nil
	}
	return total, nil
}

func (b *postgrestBackend) Close() error {
	return nil
}

func (b *postgrestBackend) do(ctx context.Context, method string, query url.Values, body io.Reader, header http.Header) (*http.Response, error) {
	target := b.tableURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, domain.WrapRemoteError(err)
	}
	req.Header.Set("apikey", b.key)
	req.Header.Set("Authorization", "Bearer "+b.key)
	req.Header.Set("Accept", "application/json")
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, domain.WrapRemoteError(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, decodeRemoteError(resp)
	}
	return resp, nil
}

func decodeRemoteError(resp *http.Response) *domain.RemoteError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	remoteErr := &domain.RemoteError{Status: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		remoteErr.Message = payload.Message
		remoteErr.Details = payload.Details
		remoteErr.Hint = payload.Hint
		remoteErr.Code = payload.Code
	}
	if remoteErr.Message == "" {
		remoteErr.Message = strings.TrimSpace(string(raw))
	}
	if remoteErr.Message == "" {
		remoteErr.Message = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return remoteErr
}

func drain(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
