package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Summary holds the dashboard cards.
type Summary struct {
	RecordCount      int     `json:"record_count"`
	UniqueBuyers     int     `json:"unique_buyers"`
	DeliveryQty      float64 `json:"delivery_qty"`
	DeliveryQtyLabel string  `json:"delivery_qty_label"`
}

// Summarize counts records and distinct buyers and sums delivery quantity.
// Missing quantities count as zero.
func Summarize(records []domain.Record) Summary {
	buyers := make(map[string]struct{})
	total := decimal.Zero
	for _, record := range records {
		if buyer := strings.TrimSpace(record.Buyer); buyer != "" {
			buyers[buyer] = struct{}{}
		}
		if record.DeliveryQtyYds != nil {
			total = total.Add(decimal.NewFromFloat(*record.DeliveryQtyYds))
		}
	}

	qty, _ := total.Float64()
	return Summary{
		RecordCount:      len(records),
		UniqueBuyers:     len(buyers),
		DeliveryQty:      qty,
		DeliveryQtyLabel: FormatQuantity(qty),
	}
}

var printer = message.NewPrinter(language.English)

// FormatQuantity groups thousands and abbreviates values of 1000 or more to
// thousands with one decimal and a "K" suffix.
func FormatQuantity(v float64) string {
	if v >= 1000 {
		return printer.Sprint(number.Decimal(v/1000, number.MaxFractionDigits(1))) + " K"
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
