package client

import (
	"context"
	"fmt"
	"time"

	"github.com/mwantia/goindex/internal/agent"
	"github.com/spf13/cobra"
)

func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Index a directory tree",
		Long: `Walk a directory recursively and reconcile it with the index.

New files are inserted and known files get their size and timestamps
refreshed. Nothing is ever deleted; tags and descriptions are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				report, err := gia.Scanner().Scan(ctx, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scan %s of %s\n", report.RunID, report.Root)
				fmt.Fprintf(out, "  New:      %d\n", report.New)
				fmt.Fprintf(out, "  Updated:  %d\n", report.Updated)
				fmt.Fprintf(out, "  Skipped:  %d\n", report.Skipped)
				fmt.Fprintf(out, "  Errored:  %d\n", report.Errored)
				fmt.Fprintf(out, "  Duration: %s\n", report.Duration.Round(time.Millisecond))
				return nil
			})
		},
	}

	return cmd
}
