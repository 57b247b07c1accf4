package report

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/smallbiznis/iomreport/internal/clock"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrUnknownFormat = errors.New("unknown_export_format")

// Format is an export file format; its value is the file extension.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts a format name or extension, case-insensitively.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".")) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", ErrUnknownFormat
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock      `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

// Exporter writes the report view of a record set as a downloadable file.
type Exporter struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewExporter(p Params) *Exporter {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if p.Clock != nil {
		now = p.Clock.Now
	}
	return &Exporter{
		log:     log.Named("report.export"),
		metrics: p.Metrics,
		now:     now,
	}
}

// Export writes records in the given format and returns the file name.
// Callers pass the filtered record set.
func (e *Exporter) Export(ctx context.Context, w io.Writer, format Format, records []domain.Record) (string, error) {
	now := e.now()

	var err error
	switch format {
	case FormatXLSX:
		err = writeXLSX(w, records)
	case FormatPDF:
		err = writePDF(w, records, now)
	case FormatCSV:
		err = writeCSV(w, records)
	default:
		return "", ErrUnknownFormat
	}
	if err != nil {
		e.log.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		return "", err
	}

	e.metrics.RecordExport(ctx, string(format))
	e.log.Info("report exported",
		zap.String("format", string(format)),
		zap.Int("records", len(records)),
	)
	return FileName(now, format), nil
}
