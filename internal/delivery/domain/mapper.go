package domain

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	separatorRun  = regexp.MustCompile(`[\s./-]+`)
	parenthesis   = regexp.MustCompile(`[()]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// WireKey returns the backend column name for a spreadsheet header. Known
// headers resolve through the column table; anything else is slugged.
func WireKey(display string) string {
	if col, ok := columnsByDisplay[display]; ok {
		return col.Wire
	}
	return SlugKey(display)
}

// SlugKey lowercases and trims the header, turns runs of whitespace, dots,
// slashes and hyphens into one underscore, drops parentheses, collapses
// repeated underscores and trims a trailing one.
func SlugKey(display string) string {
	key := strings.TrimSpace(strings.ToLower(display))
	key = separatorRun.ReplaceAllString(key, "_")
	key = parenthesis.ReplaceAllString(key, "")
	key = underscoreRun.ReplaceAllString(key, "_")
	return strings.TrimSuffix(key, "_")
}

// ToWire converts an imported row to backend form. The id field is dropped,
// numeric columns become float64 or nil and every other column becomes
// trimmed text.
func ToWire(row DisplayRow) WireRow {
	keys := make([]string, 0, len(row))
	for key := range row {
		if key == ColumnID {
			continue
		}
		keys = append(keys, key)
	}
	// Of two headers that slug to the same column, the one sorting last
	// wins.
	sort.Strings(keys)

	out := make(WireRow, len(keys))
	for _, key := range keys {
		wire := WireKey(key)
		if IsNumeric(wire) {
			out[wire] = numberOrNil(NumericValue(row[key]))
			continue
		}
		out[wire] = TextValue(row[key])
	}
	return out
}

// ToDisplay renames known backend columns to their spreadsheet headers.
// Unknown keys are kept as they are.
func ToDisplay(row WireRow) DisplayRow {
	out := make(DisplayRow, len(row))
	for key, value := range row {
		if col, ok := columnsByWire[key]; ok {
			out[col.Display] = value
			continue
		}
		out[key] = value
	}
	return out
}

// FromWire builds a typed record from a backend row.
func FromWire(row WireRow) Record {
	var r Record
	for key, value := range row {
		r.set(key, value)
	}
	return r
}

// FromDisplay normalizes an imported row into a typed record.
func FromDisplay(row DisplayRow) Record {
	return FromWire(ToWire(row))
}

// FromDisplayRows normalizes a whole import.
func FromDisplayRows(rows []DisplayRow) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDisplay(row))
	}
	return out
}

func (r *Record) set(key string, value any) {
	switch key {
	case ColumnID:
		if n := NumericValue(value); n != nil {
			r.ID = int64(*n)
		}
		return
	case ColumnCreatedAt:
		r.CreatedAt = TextValue(value)
		return
	}

	col, ok := columnsByWire[key]
	if !ok {
		if r.Extra == nil {
			r.Extra = map[string]any{}
		}
		r.Extra[key] = value
		return
	}
	if col.Kind == KindNumeric {
		*col.number(r) = NumericValue(value)
		return
	}
	*col.text(r) = TextValue(value)
}

// Wire returns the record in backend form, including system columns when set.
func (r Record) Wire() WireRow {
	out := make(WireRow, len(Columns)+len(r.Extra)+2)
	for key, value := range r.Extra {
		out[key] = value
	}
	for _, col := range Columns {
		out[col.Wire] = r.get(col)
	}
	if r.ID != 0 {
		out[ColumnID] = r.ID
	}
	if r.CreatedAt != "" {
		out[ColumnCreatedAt] = r.CreatedAt
	}
	return out
}

// Display returns the record keyed by spreadsheet headers.
func (r Record) Display() DisplayRow {
	return ToDisplay(r.Wire())
}

// Value returns the value stored under a spreadsheet header: a string for
// text columns, a float64 or nil for numeric ones.
func (r Record) Value(display string) any {
	if col, ok := columnsByDisplay[display]; ok {
		return r.get(col)
	}
	if value, ok := r.Extra[display]; ok {
		return value
	}
	return r.Extra[WireKey(display)]
}

// Text returns the value under a spreadsheet header as text.
func (r Record) Text(display string) string {
	return TextValue(r.Value(display))
}

func (r Record) get(col Column) any {
	if col.Kind == KindNumeric {
		return numberOrNil(*col.number(&r))
	}
	return *col.text(&r)
}

// NumericValue parses v as a decimal number after removing thousands
// separators. Empty and unparseable input yields nil, never zero.
func NumericValue(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		f := float64(n)
		return &f
	case int32:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case bool:
		return nil
	}

	s := strings.TrimSpace(strings.ReplaceAll(TextValue(v), ",", ""))
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return finite(f)
}

// TextValue renders v as trimmed text. nil becomes the empty string.
func TextValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case float64:
		return FormatNumber(t)
	case float32:
		return FormatNumber(float64(t))
	case *float64:
		if t == nil {
			return ""
		}
		return FormatNumber(*t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// FormatNumber prints a float without trailing zeros or exponent.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func numberOrNil(n *float64) any {
	if n == nil {
		return nil
	}
	return *n
}
