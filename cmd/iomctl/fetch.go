package main

import (
	"fmt"
	"io"

	"github.com/smallbiznis/iomreport/internal/report"
	"github.com/smallbiznis/iomreport/internal/session"
	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Load the remote record set and print the summary cards",
		Long: `Load every delivery record from the configured backend. When the
backend is unreachable the last cached copy is used instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			status := rt.controller.Load(cmd.Context())
			out := cmd.OutOrStdout()
			printSummary(out, status, report.Summarize(rt.controller.Records()))

			if status.Error != nil {
				printRemoteError(cmd.ErrOrStderr(), status.Error)
				if !status.FromCache {
					return status.Error
				}
			}
			return nil
		},
	}
}

func printSummary(w io.Writer, status session.Status, summary report.Summary) {
	source := "remote"
	if status.FromCache {
		source = "local cache"
	}
	fmt.Fprintf(w, "Source:         %s\n", source)
	fmt.Fprintf(w, "Total records:  %d\n", summary.RecordCount)
	fmt.Fprintf(w, "Unique buyers:  %d\n", summary.UniqueBuyers)
	fmt.Fprintf(w, "Delivery qty:   %s yds\n", summary.DeliveryQtyLabel)
}
