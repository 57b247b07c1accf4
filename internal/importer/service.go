package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/observability/metrics"
	"github.com/smallbiznis/iomreport/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Import sources, used as the metrics "source" label.
const (
	SourceFile   = "file"
	SourceURL    = "url"
	SourceSheets = "sheets"
)

// Result is a decoded import awaiting confirmation.
type Result struct {
	Source string
	Rows   []domain.DisplayRow
}

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
	Client  *http.Client     `optional:"true"`
	Sheets  *SheetsReader    `optional:"true"`
}

// Service decodes uploads, CSV links and Sheets ranges into display rows.
type Service struct {
	log      *zap.Logger
	metrics  *metrics.Metrics
	fetcher  *CSVFetcher
	sheets   *SheetsReader
	maxBytes int64
}

func NewService(p Params) *Service {
	client := p.Client
	if client == nil {
		client = tracing.NewHTTPClient(60 * time.Second)
	}
	return &Service{
		log:      p.Log.Named("importer"),
		metrics:  p.Metrics,
		fetcher:  NewCSVFetcher(client, p.Config.ImportMaxBytes),
		sheets:   p.Sheets,
		maxBytes: p.Config.ImportMaxBytes,
	}
}

// SheetsEnabled reports whether Sheets API imports are configured.
func (s *Service) SheetsEnabled() bool {
	return s.sheets != nil
}

// ImportFile decodes an uploaded workbook or CSV file.
func (s *Service) ImportFile(ctx context.Context, name string, r io.Reader) (Result, error) {
	var buf bytes.Buffer
	reader := r
	if s.maxBytes > 0 {
		reader = io.LimitReader(r, s.maxBytes+1)
	}
	if _, err := buf.ReadFrom(reader); err != nil {
		return Result{}, decodeError(SourceFile, "Failed to read uploaded file.", err)
	}
	if s.maxBytes > 0 && int64(buf.Len()) > s.maxBytes {
		return Result{}, decodeError(SourceFile, "Uploaded file is too large.", fmt.Errorf("limit is %d bytes", s.maxBytes))
	}

	rows, err := DecodeFile(name, buf.Bytes())
	return s.finish(ctx, SourceFile, rows, err, zap.String("file", name))
}

// ImportURL downloads CSV from a link. Google Sheets document links are
// rewritten to their CSV export.
func (s *Service) ImportURL(ctx context.Context, rawURL string) (Result, error) {
	rows, err := s.fetcher.Fetch(ctx, rawURL)
	return s.finish(ctx, SourceURL, rows, err, zap.String("url", tracing.RedactURL(strings.TrimSpace(rawURL))))
}

// ImportSheet reads a range through the Sheets API.
func (s *Service) ImportSheet(ctx context.Context, spreadsheetID, readRange string) (Result, error) {
	if s.sheets == nil {
		return Result{}, ErrSheetsDisabled
	}
	rows, err := s.sheets.Read(ctx, spreadsheetID, readRange)
	return s.finish(ctx, SourceSheets, rows, err, zap.String("spreadsheet_id", spreadsheetID))
}

func (s *Service) finish(ctx context.Context, source string, rows []domain.DisplayRow, err error, fields ...zap.Field) (Result, error) {
	if err != nil {
		s.log.Warn("import failed", append(fields, zap.String("source", source), zap.Error(err))...)
		return Result{}, err
	}
	s.metrics.RecordImport(ctx, source, len(rows))
	s.log.Info("import decoded", append(fields, zap.String("source", source), zap.Int("rows", len(rows)))...)
	return Result{Source: source, Rows: rows}, nil
}

// StatusMessage is the operator-facing summary of a decoded import.
func (r Result) StatusMessage() string {
	if r.Source == SourceFile {
		return fmt.Sprintf("%d records ready for sync.", len(r.Rows))
	}
	return fmt.Sprintf("%d records fetched from cloud.", len(r.Rows))
}
