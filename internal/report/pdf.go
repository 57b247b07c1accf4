package report

import (
	"io"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

// PDFTitle heads every pdf export.
const PDFTitle = "IOM Delivery Report"

// Grid widths of Columns; they add up to pdfGridSize.
var pdfWidths = []int{2, 2, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2}

const pdfGridSize = 28

var (
	headerFill    = &props.Color{Red: 51, Green: 65, Blue: 85}
	alternateFill = &props.Color{Red: 248, Green: 250, Blue: 252}
	gridColor     = &props.Color{Red: 203, Green: 213, Blue: 225}
	white         = &props.Color{Red: 255, Green: 255, Blue: 255}
)

func writePDF(w io.Writer, records []domain.Record, now time.Time) error {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithMaxGridSize(pdfGridSize).
		WithLeftMargin(10).
		WithRightMargin(10).
		WithTopMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(9,
		text.NewCol(pdfGridSize, PDFTitle, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(8,
		text.NewCol(pdfGridSize, "Generated on: "+now.Format("1/2/2006"), props.Text{
			Size:  10,
			Align: align.Left,
		}),
	)

	header := make([]core.Col, len(Columns))
	for i, column := range Columns {
		header[i] = text.NewCol(pdfWidths[i], column, props.Text{
			Size:  7,
			Style: fontstyle.Bold,
			Color: white,
			Top:   1.5,
			Left:  1,
			Right: 1,
		})
	}
	m.AddRow(9, header...).WithStyle(&props.Cell{
		BackgroundColor: headerFill,
		BorderType:      border.Full,
		BorderColor:     gridColor,
		BorderThickness: 0.1,
	})

	for r, record := range records {
		cells := Row(record)
		cols := make([]core.Col, len(cells))
		for i, cell := range cells {
			cols[i] = text.NewCol(pdfWidths[i], cell, props.Text{
				Size:  7,
				Top:   1.5,
				Left:  1,
				Right: 1,
			})
		}
		style := &props.Cell{
			BorderType:      border.Full,
			BorderColor:     gridColor,
			BorderThickness: 0.1,
		}
		if r%2 == 1 {
			style.BackgroundColor = alternateFill
		}
		m.AddRow(8, cols...).WithStyle(style)
	}

	doc, err := m.Generate()
	if err != nil {
		return err
	}
	_, err = w.Write(doc.GetBytes())
	return err
}
