package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errNotText = errors.New("content is not UTF-8 or UTF-16 text")

// DecodeCSV parses comma separated text with a header line. A UTF-8 or
// UTF-16 byte order mark is honoured and removed. Anything else must
// already be valid UTF-8 without NUL bytes.
func DecodeCSV(r io.Reader, source string) ([]domain.DisplayRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, decodeError(source, "Failed to parse CSV data.", err)
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), raw)
	if err != nil {
		return nil, decodeError(source, "Failed to parse CSV data.", err)
	}
	if !utf8.Valid(text) || bytes.IndexByte(text, 0) >= 0 {
		return nil, decodeError(source, "Failed to parse CSV data.", errNotText)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, decodeError(source, "Failed to parse CSV data.", err)
	}
	if len(records) == 0 {
		return []domain.DisplayRow{}, nil
	}
	return table(records[0], records[1:]), nil
}

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte("\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1")
)

// DecodeFile picks the decoder from the file content: zip containers are
// workbooks, everything else is read as CSV. Legacy OLE2 workbooks (.xls)
// are rejected.
func DecodeFile(name string, data []byte) ([]domain.DisplayRow, error) {
	if len(data) == 0 {
		return nil, decodeError(SourceFile, "Failed to parse Excel file.", errors.New("file "+name+" is empty"))
	}
	if bytes.HasPrefix(data, zipMagic) {
		return DecodeWorkbook(data)
	}
	if bytes.HasPrefix(data, ole2Magic) {
		return nil, decodeError(SourceFile, "Failed to parse Excel file.",
			errors.New("legacy .xls workbooks are not supported, save "+name+" as .xlsx or CSV"))
	}
	return DecodeCSV(bytes.NewReader(data), SourceFile)
}
