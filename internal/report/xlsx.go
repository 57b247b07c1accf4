package report

import (
	"fmt"
	"io"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of an xlsx export.
const SheetName = "Delivery_Report"

func writeXLSX(w io.Writer, records []domain.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return err
	}

	for i, column := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, column); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, name, name, columnWidth(column))
	}

	for r, record := range records {
		values := make([]any, len(Columns))
		for i, column := range Columns {
			values[i] = Value(record, column)
		}
		cell := fmt.Sprintf("A%d", r+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func columnWidth(column string) float64 {
	if n := float64(len(column)) + 2; n > 12 {
		return n
	}
	return 12
}
