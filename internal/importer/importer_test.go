package importer

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func newTestService(t *testing.T, client *http.Client) *Service {
	t.Helper()
	return NewService(Params{
		Config: config.Config{ImportMaxBytes: 1 << 20},
		Log:    zap.NewNop(),
		Client: client,
	})
}

func TestDecodeCSVTypesCells(t *testing.T) {
	input := "\ufeffIOM NO.,BUYER,DELIVERY QTY. (YDS),DELIVERY DATE,Flag\n" +
		"1001,Acme,\"1,234.5\",45292,true\n" +
		",,,,\n" +
		"1002,Zenith,50.5,,\n"

	rows, err := DecodeCSV(strings.NewReader(input), SourceURL)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, 1001.0, rows[0]["IOM NO."])
	require.Equal(t, "Acme", rows[0]["BUYER"])
	require.Equal(t, "1,234.5", rows[0]["DELIVERY QTY. (YDS)"])
	require.Equal(t, 45292.0, rows[0]["DELIVERY DATE"])
	require.Equal(t, true, rows[0]["Flag"])

	_, ok := rows[1]["DELIVERY DATE"]
	require.False(t, ok)

	record := domain.FromDisplay(rows[0])
	require.Equal(t, 1234.5, *record.DeliveryQtyYds)
	require.Equal(t, "45292", record.DeliveryDate)
}

func TestDecodeCSVUTF16(t *testing.T) {
	text := "BUYER\nAcme\n"
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	for _, r := range text {
		buf.WriteByte(byte(r))
		buf.WriteByte(0)
	}

	rows, err := DecodeCSV(&buf, SourceFile)
	require.NoError(t, err)
	require.Equal(t, []domain.DisplayRow{{"BUYER": "Acme"}}, rows)
}

func TestHeaderKeysDeduplicate(t *testing.T) {
	require.Equal(t, []string{"A", "", "A_1", "B", "A_2"}, headerKeys([]string{" A ", "", "A", "B", "A"}))
}

func TestTypedValue(t *testing.T) {
	require.Equal(t, 12.0, typedValue("12"))
	require.Equal(t, -0.5, typedValue("-.5"))
	require.Equal(t, 1e3, typedValue("1e3"))
	require.Equal(t, "1,234", typedValue("1,234"))
	require.Equal(t, "12-01-24", typedValue("12-01-24"))
	require.Equal(t, "12345678901234567890", typedValue("12345678901234567890"))
	require.Equal(t, false, typedValue("FALSE"))
}

func TestDecodeWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"IOM NO.", "BUYER", "DELIVERY DATE", "Remarks"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1001, "Acme", 45292, "ok"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{1002, "Zenith"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := DecodeFile("report.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 1001.0, rows[0]["IOM NO."])
	require.Equal(t, 45292.0, rows[0]["DELIVERY DATE"])
	require.Equal(t, "ok", rows[0]["Remarks"])
	require.Equal(t, domain.DisplayRow{"IOM NO.": 1002.0, "BUYER": "Zenith"}, rows[1])
}

func TestDecodeFileFailures(t *testing.T) {
	_, err := DecodeFile("empty.xlsx", nil)
	require.ErrorIs(t, err, ErrDecode)

	_, err = DecodeFile("broken.xlsx", []byte("PK\x03\x04garbage"))
	require.ErrorIs(t, err, ErrDecode)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "Failed to parse Excel file.", decodeErr.Message)
}

func TestDecodeFileRejectsBinary(t *testing.T) {
	legacy := append([]byte("\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1"), []byte("junk,more\n\x00\x01\x02")...)
	rows, err := DecodeFile("report.xls", legacy)
	require.ErrorIs(t, err, ErrDecode)
	require.Nil(t, rows)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "Failed to parse Excel file.", decodeErr.Message)

	rows, err = DecodeFile("dump.bin", []byte("IOM NO.,BUYER\n1,\xff\xfeZara\n"))
	require.ErrorIs(t, err, ErrDecode)
	require.Nil(t, rows)

	rows, err = DecodeFile("nul.csv", []byte("IOM NO.,BUYER\n1,Za\x00ra\n"))
	require.ErrorIs(t, err, ErrDecode)
	require.Nil(t, rows)
}

func TestCSVExportURL(t *testing.T) {
	cases := map[string]string{
		"https://docs.google.com/spreadsheets/d/abc_123/edit#gid=42":      "https://docs.google.com/spreadsheets/d/abc_123/export?format=csv&gid=42",
		"https://docs.google.com/spreadsheets/d/abc_123/edit?usp=sharing": "https://docs.google.com/spreadsheets/d/abc_123/export?format=csv",
		"https://docs.google.com/spreadsheets/d/e/2PACX-1/pub?output=csv": "https://docs.google.com/spreadsheets/d/e/2PACX-1/pub?output=csv",
		"https://docs.google.com/spreadsheets/d/abc/export?format=csv":    "https://docs.google.com/spreadsheets/d/abc/export?format=csv",
		"https://example.com/data.csv":                                    "https://example.com/data.csv",
	}
	for in, want := range cases {
		require.Equal(t, want, CSVExportURL(in), in)
	}
}

func TestImportURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("BUYER,COLOR\nAcme,Red\nZenith,Blue\n"))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.Client())

	result, err := svc.ImportURL(context.Background(), srv.URL+"/data.csv")
	require.NoError(t, err)
	require.Equal(t, SourceURL, result.Source)
	require.Len(t, result.Rows, 2)
	require.Equal(t, "2 records fetched from cloud.", result.StatusMessage())

	_, err = svc.ImportURL(context.Background(), srv.URL+"/missing.csv")
	require.ErrorIs(t, err, ErrDecode)

	_, err = svc.ImportURL(context.Background(), "  ")
	require.ErrorIs(t, err, ErrEmptyURL)

	_, err = svc.ImportURL(context.Background(), "ftp://example.com/x.csv")
	require.ErrorIs(t, err, ErrDecode)
}

func TestImportFile(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.ImportFile(context.Background(), "data.csv", strings.NewReader("BUYER\nAcme\n"))
	require.NoError(t, err)
	require.Equal(t, "1 records ready for sync.", result.StatusMessage())

	svc.maxBytes = 4
	_, err = svc.ImportFile(context.Background(), "data.csv", strings.NewReader("BUYER\nAcme\n"))
	require.ErrorIs(t, err, ErrDecode)
}

func TestImportSheet(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.ImportSheet(context.Background(), "id", "")
	require.ErrorIs(t, err, ErrSheetsDisabled)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/v4/spreadsheets/sheet-1/values/")
		require.Equal(t, "UNFORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Sheet1!A1:C3","majorDimension":"ROWS","values":[["IOM NO.","BUYER","DELIVERY DATE"],[1001,"Acme",45292],[]]}`))
	}))
	defer srv.Close()

	reader, err := NewSheetsReaderWithOptions(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	svc.sheets = reader

	result, err := svc.ImportSheet(context.Background(), "sheet-1", "")
	require.NoError(t, err)
	require.Equal(t, []domain.DisplayRow{{"IOM NO.": 1001.0, "BUYER": "Acme", "DELIVERY DATE": 45292.0}}, result.Rows)
}
