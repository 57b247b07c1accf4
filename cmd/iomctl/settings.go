package main

import (
	"fmt"
	"io"

	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/session"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the remote backend target",
	}
	cmd.AddCommand(settingsShowCmd(), settingsSetCmd(), settingsTestCmd())
	return cmd
}

func printSettings(w io.Writer, gw config.GatewaySettings, sheetURL string) {
	fmt.Fprintf(w, "URL:        %s\n", gw.URL)
	fmt.Fprintf(w, "Key:        %s\n", gw.Key)
	if sheetURL != "" {
		fmt.Fprintf(w, "Sheet URL:  %s\n", sheetURL)
	}
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, settings, err := loadBase()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			printSettings(cmd.OutOrStdout(), settings.Gateway(), settings.SheetURL())
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	var rawURL, key string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a new backend URL and/or key",
		Long: `Store a new backend target. Supported URLs are PostgREST endpoints
(http, https) and direct database URLs (postgres, mysql, sqlite). An
unsupported URL is ignored and the current one kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, settings, err := loadBase()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			next := settings.Gateway()
			if cmd.Flags().Changed("url") {
				if !config.ValidGatewayURL(rawURL) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Ignoring unsupported URL %q\n", rawURL)
				}
				next.URL = rawURL
			}
			if cmd.Flags().Changed("key") {
				next.Key = key
			}

			saved, err := settings.SaveGateway(next)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, session.MessageSaved)
			printSettings(out, saved, settings.SheetURL())
			return nil
		},
	}
	cmd.Flags().StringVar(&rawURL, "url", "", "backend URL")
	cmd.Flags().StringVar(&key, "key", "", "backend access key")
	return cmd
}

func settingsTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the delivery table is reachable on the active target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.controller.TestConnection(cmd.Context(), nil); err != nil {
				printRemoteError(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.MessageConnected)
			return nil
		},
	}
}
