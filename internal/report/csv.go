package report

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

type csvRow struct {
	IOMNo             string `csv:"IOM NO."`
	Buyer             string `csv:"BUYER"`
	FabricComposition string `csv:"FABRIC COMPOSITION"`
	Construction      string `csv:"CONSTRUCTION"`
	Weave             string `csv:"WEAVE"`
	Color             string `csv:"COLOR"`
	Emerizing         string `csv:"EMERIZING"`
	DyeingFloor       string `csv:"Dyeing Floor"`
	DyeMCName         string `csv:"Dye MC Name"`
	FinishDate        string `csv:"Finish Date"`
	DeliveryDate      string `csv:"DELIVERY DATE"`
	DeliveryQty       string `csv:"DELIVERY QTY. (YDS)"`
	Remarks           string `csv:"Remarks"`
}

func newCSVRow(record domain.Record) csvRow {
	c := Row(record)
	return csvRow{
		IOMNo:             c[0],
		Buyer:             c[1],
		FabricComposition: c[2],
		Construction:      c[3],
		Weave:             c[4],
		Color:             c[5],
		Emerizing:         c[6],
		DyeingFloor:       c[7],
		DyeMCName:         c[8],
		FinishDate:        c[9],
		DeliveryDate:      c[10],
		DeliveryQty:       c[11],
		Remarks:           c[12],
	}
}

func writeCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(csvRow{}); err != nil {
		return err
	}
	for _, record := range records {
		if err := enc.Encode(newCSVRow(record)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
