package server

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/goindex/internal/agent"
	"github.com/spf13/cobra"
)

func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				stats, err := gia.Store().Stats(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Index: %s\n", gia.Store().Path())
				fmt.Fprintf(out, "  Resources:            %s\n", humanize.Comma(stats.Resources))
				fmt.Fprintf(out, "    Local files:        %s\n", humanize.Comma(stats.LocalResources))
				fmt.Fprintf(out, "    Web links:          %s\n", humanize.Comma(stats.WebResources))
				fmt.Fprintf(out, "  Distinct tags:        %s\n", humanize.Comma(stats.DistinctTags))
				fmt.Fprintf(out, "  Without description:  %s\n", humanize.Comma(stats.WithoutDescription))
				fmt.Fprintf(out, "  Without tags:         %s\n", humanize.Comma(stats.WithoutTags))
				fmt.Fprintf(out, "  Apps:                 %s\n", humanize.Comma(stats.Apps))
				fmt.Fprintf(out, "  Web accounts:         %s\n", humanize.Comma(stats.WebAccounts))
				fmt.Fprintf(out, "  Pages:                %s\n", humanize.Comma(stats.Pages))
				fmt.Fprintf(out, "  Relations:            %s\n", humanize.Comma(stats.Relations))
				return nil
			})
		},
	}

	return cmd
}
