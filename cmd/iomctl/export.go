package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smallbiznis/iomreport/internal/filter"
	"github.com/smallbiznis/iomreport/internal/report"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		criteria filter.Criteria
		format   string
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered report as xlsx, pdf or csv",
		Long: `Load the record set, apply the filters and write the 13-column report to
Delivery_Report_<date>.<format> in the output directory.

Examples:
  iomctl export --buyer acme --from 2024-01-01 --to 2024-01-31
  iomctl export --format pdf --out ./reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("%w: %q", err, format)
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := cmd.Context()
			status := rt.controller.Load(ctx)
			if status.Error != nil {
				printRemoteError(cmd.ErrOrStderr(), status.Error)
				if status.RecordCount == 0 {
					return status.Error
				}
			}

			records := filter.Apply(rt.controller.Records(), criteria)

			var buf bytes.Buffer
			name, err := report.NewExporter(report.Params{Log: rt.log}).Export(ctx, &buf, f, records)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(records), path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&criteria.IOMNo, "iom-no", "", "IOM number contains")
	flags.StringVar(&criteria.Buyer, "buyer", "", "buyer contains")
	flags.StringVar(&criteria.FabricComposition, "fabric-composition", "", "fabric composition contains")
	flags.StringVar(&criteria.Construction, "construction", "", "construction contains")
	flags.StringVar(&criteria.Color, "color", "", "color contains")
	flags.StringVar(&criteria.From, "from", "", "delivery date from (YYYY-MM-DD)")
	flags.StringVar(&criteria.To, "to", "", "delivery date to (YYYY-MM-DD), inclusive")
	flags.StringVar(&format, "format", string(report.FormatXLSX), "xlsx, pdf or csv")
	flags.StringVar(&outDir, "out", ".", "output directory")
	return cmd
}
