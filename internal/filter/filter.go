package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/pkg/serialdate"
)

// Filterable text fields, keyed by spreadsheet header.
const (
	FieldIOMNo             = "IOM NO."
	FieldBuyer             = "BUYER"
	FieldFabricComposition = "FABRIC COMPOSITION"
	FieldConstruction      = "CONSTRUCTION"
	FieldColor             = "COLOR"

	FieldDeliveryDate = "DELIVERY DATE"
)

// TextFields lists the text filters in display order.
var TextFields = []string{
	FieldIOMNo,
	FieldBuyer,
	FieldFabricComposition,
	FieldConstruction,
	FieldColor,
}

// Criteria is the set of active filters. From and To are YYYY-MM-DD days
// bounding the delivery date, both inclusive.
type Criteria struct {
	IOMNo             string `form:"iom_no" json:"iom_no"`
	Buyer             string `form:"buyer" json:"buyer"`
	FabricComposition string `form:"fabric_composition" json:"fabric_composition"`
	Construction      string `form:"construction" json:"construction"`
	Color             string `form:"color" json:"color"`
	From              string `form:"from" json:"from"`
	To                string `form:"to" json:"to"`
}

// Text returns the text filters keyed by field.
func (c Criteria) Text() map[string]string {
	return map[string]string{
		FieldIOMNo:             c.IOMNo,
		FieldBuyer:             c.Buyer,
		FieldFabricComposition: c.FabricComposition,
		FieldConstruction:      c.Construction,
		FieldColor:             c.Color,
	}
}

// Active reports whether any filter is set.
func (c Criteria) Active() bool {
	for _, v := range c.Text() {
		if v != "" {
			return true
		}
	}
	return c.hasDateRange()
}

// Reset clears every filter.
func (c *Criteria) Reset() {
	*c = Criteria{}
}

func (c Criteria) hasDateRange() bool {
	return c.From != "" || c.To != ""
}

type compiled struct {
	text   map[string]string
	ranged bool
	from   *time.Time
	to     *time.Time
}

func (c Criteria) compile() compiled {
	out := compiled{text: make(map[string]string, len(TextFields)), ranged: c.hasDateRange()}
	for field, value := range c.Text() {
		if value == "" {
			continue
		}
		out.text[field] = strings.ToLower(value)
	}
	// A bound that is not a calendar day constrains nothing.
	if from, ok := serialdate.ParseDay(c.From); ok {
		out.from = &from
	}
	if to, ok := serialdate.ParseDay(c.To); ok {
		end := serialdate.EndOfDay(to)
		out.to = &end
	}
	return out
}

// Apply returns the records matching c in their original order. The input
// slice is not modified.
func Apply(records []domain.Record, c Criteria) []domain.Record {
	m := c.compile()
	out := make([]domain.Record, 0, len(records))
	for _, record := range records {
		if m.match(record) {
			out = append(out, record)
		}
	}
	return out
}

func (m compiled) match(record domain.Record) bool {
	for field, needle := range m.text {
		if !strings.Contains(strings.ToLower(record.Text(field)), needle) {
			return false
		}
	}
	if !m.ranged {
		return true
	}

	raw := record.Text(FieldDeliveryDate)
	if raw == "" {
		return false
	}
	delivered, ok := serialdate.ParseText(raw)
	if !ok {
		// Unparseable dates are kept.
		return true
	}
	if m.from != nil && delivered.Before(*m.from) {
		return false
	}
	if m.to != nil && delivered.After(*m.to) {
		return false
	}
	return true
}

// Options returns the sorted distinct non-empty values of every text
// filter field.
func Options(records []domain.Record) map[string][]string {
	out := make(map[string][]string, len(TextFields))
	for _, field := range TextFields {
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, record := range records {
			value := record.Text(field)
			if value == "" {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			values = append(values, value)
		}
		sort.Strings(values)
		out[field] = values
	}
	return out
}
