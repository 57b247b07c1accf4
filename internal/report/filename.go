package report

import (
	"fmt"
	"time"
)

const fileNamePrefix = "Delivery_Report"

// FileName is Delivery_Report_YYYY-MM-DD.<ext> for the UTC day of now.
func FileName(now time.Time, format Format) string {
	return fmt.Sprintf("%s_%s.%s", fileNamePrefix, now.UTC().Format("2006-01-02"), format)
}
