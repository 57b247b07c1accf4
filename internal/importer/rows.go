package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

// Numbers above 2^53 lose precision as float64 and stay text.
const maxExactFloat = 1 << 53

var floatPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// table turns a header row plus data rows into display rows. Blank rows
// are skipped, and so are empty cells and cells under an empty header.
// Repeated headers get a _1, _2... suffix.
func table(header []string, data [][]string) []domain.DisplayRow {
	keys := headerKeys(header)
	out := make([]domain.DisplayRow, 0, len(data))
	for _, cells := range data {
		row := make(domain.DisplayRow, len(keys))
		for i, cell := range cells {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			row[keys[i]] = typedValue(cell)
		}
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}

// anyTable is table for sources that already deliver typed cells.
func anyTable(values [][]any) []domain.DisplayRow {
	if len(values) == 0 {
		return []domain.DisplayRow{}
	}
	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = domain.TextValue(cell)
	}
	keys := headerKeys(header)

	out := make([]domain.DisplayRow, 0, len(values)-1)
	for _, cells := range values[1:] {
		row := make(domain.DisplayRow, len(keys))
		for i, cell := range cells {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			switch v := cell.(type) {
			case nil:
				continue
			case string:
				if strings.TrimSpace(v) == "" {
					continue
				}
				row[keys[i]] = typedValue(v)
			default:
				row[keys[i]] = v
			}
		}
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}

func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, raw := range header {
		key := strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		if n, ok := seen[key]; ok {
			seen[key] = n + 1
			key = key + "_" + strconv.Itoa(n+1)
		} else {
			seen[key] = 0
		}
		keys[i] = key
	}
	return keys
}

// typedValue converts numeric-looking text to float64 and true/false to
// bool. Anything else stays as text.
func typedValue(cell string) any {
	switch strings.TrimSpace(cell) {
	case "true", "TRUE", "True":
		return true
	case "false", "FALSE", "False":
		return false
	}
	if floatPattern.MatchString(cell) {
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err == nil && math.Abs(f) <= maxExactFloat {
			return f
		}
	}
	return cell
}
