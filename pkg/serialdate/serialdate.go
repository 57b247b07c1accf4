// Package serialdate parses the date values found in delivery sheets:
// spreadsheet serial day numbers as well as calendar text.
package serialdate

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// UnixEpochSerial is the serial day number of 1970-01-01.
const UnixEpochSerial = 25569

const secondsPerDay = 86400

// ReportLayout is the DD-MM-YY layout used in tables and exports.
const ReportLayout = "02-01-06"

var layouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/1/2",
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2-Jan-06",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// FromSerial converts a serial day number to a UTC time.
func FromSerial(serial float64) time.Time {
	ms := math.Round((serial - UnixEpochSerial) * secondsPerDay * 1000)
	return time.UnixMilli(int64(ms)).UTC()
}

// ToSerial converts t to a serial day number.
func ToSerial(t time.Time) float64 {
	return float64(t.UTC().UnixMilli())/(secondsPerDay*1000) + UnixEpochSerial
}

// Parse interprets v as a date. Numbers and numeric text are serial day
// numbers; other text is tried against the known calendar layouts. Empty
// and unrecognised values report false.
func Parse(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t.UTC(), !t.IsZero()
	case float64:
		return fromNumber(t)
	case float32:
		return fromNumber(float64(t))
	case int:
		return fromNumber(float64(t))
	case int64:
		return fromNumber(float64(t))
	case *float64:
		if t == nil {
			return time.Time{}, false
		}
		return fromNumber(*t)
	case string:
		return ParseText(t)
	default:
		return time.Time{}, false
	}
}

// ParseText parses a trimmed text value, serial numbers included.
func ParseText(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromNumber(f)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseDay parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDay(raw string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Format renders v as DD-MM-YY. Empty values render as "-" and values that
// are not dates are returned as text unchanged.
func Format(v any) string {
	if isEmpty(v) {
		return "-"
	}
	if t, ok := Parse(v); ok {
		return t.Format(ReportLayout)
	}
	switch t := v.(type) {
	case string:
		return t
	case *float64:
		return strconv.FormatFloat(*t, 'f', -1, 64)
	default:
		return toText(v)
	}
}

func fromNumber(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	return FromSerial(f), true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case *float64:
		return t == nil
	}
	return false
}

func toText(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case time.Time:
		return t.Format(ReportLayout)
	}
	return ""
}
