package importer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultSheetsRange is read when no range is given.
const DefaultSheetsRange = "A:BZ"

// SheetsReader reads a range of a spreadsheet through the Sheets API.
type SheetsReader struct {
	service *sheets.Service
}

// NewSheetsReader authenticates with a service account key file.
func NewSheetsReader(ctx context.Context, credentialsFile string) (*SheetsReader, error) {
	jsonKey, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account key file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}

	httpClient := oauth2.NewClient(ctx, jwtConfig.TokenSource(ctx))
	return NewSheetsReaderWithOptions(ctx, option.WithHTTPClient(httpClient))
}

// NewSheetsReaderWithOptions builds a reader from raw client options.
func NewSheetsReaderWithOptions(ctx context.Context, opts ...option.ClientOption) (*SheetsReader, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return &SheetsReader{service: srv}, nil
}

// Read returns the rows of readRange, the first row being the header.
// Values are unformatted, so dates come back as serial day numbers.
func (r *SheetsReader) Read(ctx context.Context, spreadsheetID, readRange string) ([]domain.DisplayRow, error) {
	if r == nil || r.service == nil {
		return nil, ErrSheetsDisabled
	}
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, decodeError(SourceSheets, "Spreadsheet id is required.", nil)
	}
	if strings.TrimSpace(readRange) == "" {
		readRange = DefaultSheetsRange
	}

	resp, err := r.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, decodeError(SourceSheets, "Failed to read Google Sheets range.", err)
	}
	return anyTable(resp.Values), nil
}
