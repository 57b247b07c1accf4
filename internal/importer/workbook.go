package importer

import (
	"bytes"
	"errors"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/xuri/excelize/v2"
)

// DecodeWorkbook reads the first worksheet of an xlsx workbook. Cells are
// read raw, so dates arrive as serial day numbers.
func DecodeWorkbook(data []byte) ([]domain.DisplayRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(SourceFile, "Failed to parse Excel file.", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, decodeError(SourceFile, "Failed to parse Excel file.", errors.New("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, decodeError(SourceFile, "Failed to parse Excel file.", err)
	}
	if len(rows) == 0 {
		return []domain.DisplayRow{}, nil
	}
	return table(rows[0], rows[1:]), nil
}
