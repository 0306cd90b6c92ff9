package client

import (
	"context"
	"fmt"

	"github.com/mwantia/goindex/internal/agent"
	"github.com/mwantia/goindex/pkg/importer"
	"github.com/spf13/cobra"
)

func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import links from cloud caches",
		Long:  "Import links from the JSON caches written by the cloud sync jobs.",
	}

	cmd.AddCommand(NewImportCloudCommand())
	cmd.AddCommand(NewImportCloudsCommand())

	return cmd
}

func printImportReport(cmd *cobra.Command, r *importer.Report) {
	out := cmd.OutOrStdout()
	if r.Missing {
		fmt.Fprintf(out, "%-14s no cache found\n", r.Provider)
		return
	}
	fmt.Fprintf(out, "%-14s %d new, %d existing, %d invalid (%d in cache)\n",
		r.Provider, r.Imported, r.Existing, r.Invalid, r.Total)
}

func NewImportCloudCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cloud <provider> <file>",
		Short: "Import a single cache file",
		Long: `Import a single cache file for the given provider.

Example:
  goindex import cloud "Google Drive" ./cache_drive.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				report, err := gia.Importer().ImportCacheFile(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if report.Missing {
					return fmt.Errorf("cache file '%s' does not exist", args[1])
				}

				printImportReport(cmd, report)
				return nil
			})
		},
	}

	return cmd
}

func NewImportCloudsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clouds [dir]",
		Short: "Import every known cache file",
		Long:  "Import the YouTube, Google Drive, OneDrive and Dropbox caches found in dir (default is the current directory).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				reports, err := gia.Importer().ImportDir(ctx, dir)

				total := 0
				for _, r := range reports {
					printImportReport(cmd, r)
					total += r.Imported
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d new link(s)\n", total)

				return err
			})
		},
	}

	return cmd
}
