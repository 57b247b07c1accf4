package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

var sheetsEditPath = regexp.MustCompile(`^/spreadsheets/d/([a-zA-Z0-9_-]+)(/.*)?$`)

// CSVExportURL rewrites a Google Sheets document link to its CSV export
// link. Published (/d/e/...) links and non-Google URLs are returned as is.
func CSVExportURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(u.Hostname(), "docs.google.com") {
		return strings.TrimSpace(raw)
	}
	m := sheetsEditPath.FindStringSubmatch(u.Path)
	if m == nil || m[1] == "e" {
		return u.String()
	}
	if strings.HasPrefix(m[2], "/export") || strings.HasPrefix(m[2], "/gviz") {
		return u.String()
	}

	gid := u.Query().Get("gid")
	if gid == "" && strings.HasPrefix(u.Fragment, "gid=") {
		gid = strings.TrimPrefix(u.Fragment, "gid=")
	}

	out := url.URL{
		Scheme: "https",
		Host:   u.Host,
		Path:   "/spreadsheets/d/" + m[1] + "/export",
	}
	q := url.Values{"format": []string{"csv"}}
	if gid != "" {
		q.Set("gid", gid)
	}
	out.RawQuery = q.Encode()
	return out.String()
}

// CSVFetcher downloads delimited text from a URL.
type CSVFetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewCSVFetcher(client *http.Client, maxBytes int64) *CSVFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &CSVFetcher{client: client, maxBytes: maxBytes}
}

// Fetch downloads and decodes the CSV at rawURL.
func (f *CSVFetcher) Fetch(ctx context.Context, rawURL string) ([]domain.DisplayRow, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrEmptyURL
	}
	target := CSVExportURL(rawURL)
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, decodeError(SourceURL, "Failed to fetch from Google Sheets URL.", fmt.Errorf("invalid url %q", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, decodeError(SourceURL, "Failed to fetch from Google Sheets URL.", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, decodeError(SourceURL, "Failed to fetch from Google Sheets URL.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, decodeError(SourceURL, "Failed to fetch from Google Sheets URL.", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = &limitedReader{r: io.LimitReader(resp.Body, f.maxBytes+1), max: f.maxBytes}
	}
	rows, err := DecodeCSV(body, SourceURL)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Message = "Failed to fetch from Google Sheets URL."
		}
		return nil, err
	}
	return rows, nil
}

type limitedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return n, fmt.Errorf("response larger than %d bytes", l.max)
	}
	return n, err
}
