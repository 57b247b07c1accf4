package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/smallbiznis/iomreport/internal/importer"
	"github.com/smallbiznis/iomreport/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func importCmd() *cobra.Command {
	var (
		commit     bool
		fromSheets bool
		sheetRange string
	)

	cmd := &cobra.Command{
		Use:   "import <file|url|spreadsheet-id>",
		Short: "Decode a workbook, CSV file or CSV link and optionally replace the remote data",
		Long: `Decode delivery rows from an .xlsx/.xls/.csv file, a CSV link (Google
Sheets edit links are rewritten to their CSV export) or, with --sheets, a
spreadsheet id read through the Sheets API.

Nothing is written remotely unless --commit is given. Commit deletes every
remote row and inserts the imported rows in batches of 40.

Examples:
  iomctl import ./delivery.xlsx
  iomctl import "https://docs.google.com/spreadsheets/d/<id>/edit#gid=0" --commit
  iomctl import <spreadsheet-id> --sheets --range "Sheet1!A:BZ"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := cmd.Context()
			result, err := rt.decode(ctx, args[0], fromSheets, sheetRange)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.StatusMessage())
			info := rt.controller.Stage(result)
			fmt.Fprintln(out, info.Message)

			if !commit {
				fmt.Fprintln(out, "Nothing was written. Run again with --commit to replace the remote data.")
				return nil
			}

			bar := progressbar.NewOptions(max(len(result.Rows), 1),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Syncing to cloud"),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
			err = rt.controller.Commit(ctx, info.ID, func(inserted, _ int) {
				if err := bar.Set(inserted); err != nil {
					rt.log.Debug("progress update failed", zap.Error(err))
				}
			})
			if err != nil {
				printRemoteError(cmd.ErrOrStderr(), err)
				return err
			}
			_ = bar.Finish()
			fmt.Fprintln(out, session.MessageCommitted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "replace the remote data with the imported rows")
	cmd.Flags().BoolVar(&fromSheets, "sheets", false, "treat the argument as a spreadsheet id and read it through the Sheets API")
	cmd.Flags().StringVar(&sheetRange, "range", importer.DefaultSheetsRange, "A1 range to read with --sheets")
	return cmd
}

func (rt *runtime) decode(ctx context.Context, source string, fromSheets bool, sheetRange string) (importer.Result, error) {
	params := importer.Params{Config: rt.cfg, Log: rt.log}

	if fromSheets {
		if rt.cfg.GoogleSheetsCredentialsFile == "" {
			return importer.Result{}, errors.New("GOOGLE_SHEETS_CREDENTIALS_FILE is not set")
		}
		reader, err := importer.NewSheetsReader(ctx, rt.cfg.GoogleSheetsCredentialsFile)
		if err != nil {
			return importer.Result{}, err
		}
		params.Sheets = reader
		return importer.NewService(params).ImportSheet(ctx, source, sheetRange)
	}

	svc := importer.NewService(params)
	if isURL(source) {
		result, err := svc.ImportURL(ctx, source)
		if err == nil {
			if saveErr := rt.settings.SaveSheetURL(source); saveErr != nil {
				rt.log.Warn("remember sheet url failed", zap.Error(saveErr))
			}
		}
		return result, err
	}

	f, err := os.Open(source)
	if err != nil {
		return importer.Result{}, err
	}
	defer f.Close()
	return svc.ImportFile(ctx, filepath.Base(source), f)
}

func isURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
