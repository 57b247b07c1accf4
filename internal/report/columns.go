package report

import (
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/pkg/serialdate"
)

const (
	ColumnFinishDate   = "Finish Date"
	ColumnDeliveryDate = "DELIVERY DATE"
	ColumnDeliveryQty  = "DELIVERY QTY. (YDS)"
	ColumnBuyer        = "BUYER"

	placeholder = "-"
)

// Columns is the report view, in order.
var Columns = []string{
	"IOM NO.",
	ColumnBuyer,
	"FABRIC COMPOSITION",
	"CONSTRUCTION",
	"WEAVE",
	"COLOR",
	"EMERIZING",
	"Dyeing Floor",
	"Dye MC Name",
	ColumnFinishDate,
	ColumnDeliveryDate,
	ColumnDeliveryQty,
	"Remarks",
}

func isDateColumn(column string) bool {
	return column == ColumnFinishDate || column == ColumnDeliveryDate
}

// Value returns the cell for a report column: dates as DD-MM-YY, numbers
// as float64, text as is and "-" when empty.
func Value(record domain.Record, column string) any {
	raw := record.Value(column)
	if isDateColumn(column) {
		return serialdate.Format(raw)
	}
	switch v := raw.(type) {
	case nil:
		return placeholder
	case string:
		if v == "" {
			return placeholder
		}
		return v
	default:
		return v
	}
}

// Cell is Value rendered as text.
func Cell(record domain.Record, column string) string {
	switch v := Value(record, column).(type) {
	case string:
		return v
	default:
		return domain.TextValue(v)
	}
}

// Row renders one record over Columns.
func Row(record domain.Record) []string {
	out := make([]string, len(Columns))
	for i, column := range Columns {
		out[i] = Cell(record, column)
	}
	return out
}

// Rows renders records over Columns.
func Rows(records []domain.Record) [][]string {
	out := make([][]string, 0, len(records))
	for _, record := range records {
		out = append(out, Row(record))
	}
	return out
}
