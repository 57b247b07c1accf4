package report

import (
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/filter"
	"github.com/smallbiznis/iomreport/pkg/pagination"
)

// View is one rendered report page.
type View struct {
	Summary  Summary             `json:"summary"`
	Columns  []string            `json:"columns"`
	Rows     [][]string          `json:"rows"`
	Page     pagination.PageInfo `json:"page"`
	Filtered bool                `json:"filtered"`
}

// Build filters records, summarizes the filtered set and renders the
// requested page of it.
func Build(records []domain.Record, criteria filter.Criteria, page pagination.Pagination) View {
	filtered := filter.Apply(records, criteria)
	info := pagination.Resolve(page, len(filtered))
	return View{
		Summary:  Summarize(filtered),
		Columns:  Columns,
		Rows:     Rows(pagination.Slice(filtered, info)),
		Page:     info,
		Filtered: criteria.Active(),
	}
}
