package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mwantia/goindex/internal/agent"
	"github.com/mwantia/goindex/pkg/query"
	"github.com/spf13/cobra"
)

// predicateFlags holds the raw search flags shared by every search command
type predicateFlags struct {
	name        string
	excludeName string
	tag         string
	excludeTag  string
	days        string
	ext         string
	excludeExt  string
	info        string
	platform    string
	category    string
	status      string
	order       string
	limit       int
}

// register adds the flags of every predicate family target supports
func (f *predicateFlags) register(cmd *cobra.Command, target query.Target) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Only entries whose name contains this text")
	cmd.Flags().StringVar(&f.excludeName, "exclude-name", "", "Drop entries whose name contains this text")
	cmd.Flags().StringVarP(&f.tag, "tag", "t", "", "Only entries with a tag containing this text")
	cmd.Flags().StringVar(&f.excludeTag, "exclude-tag", "", "Drop entries with a tag containing this text")
	cmd.Flags().StringVar(&f.order, "order", "", "Result order (recent, oldest, name)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum number of results (0 = no limit)")

	if target.PlatformColumn != "" {
		cmd.Flags().StringVar(&f.platform, "platform", "", "Only entries whose platform contains this text")
	}
	if target.CategoryColumn != "" {
		cmd.Flags().StringVar(&f.category, "category", "", "Only entries whose category contains this text")
	}
	if target.StatusColumn != "" {
		cmd.Flags().StringVar(&f.status, "status", "", "Only entries whose status contains this text")
	}

	if target.ExtensionColumn != "" {
		cmd.Flags().StringVarP(&f.days, "days", "d", "", "Only entries modified within the last N days")
		cmd.Flags().StringVarP(&f.ext, "ext", "e", "", "Comma-separated extensions to include (use 'web' for links)")
		cmd.Flags().StringVar(&f.excludeExt, "exclude-ext", "", "Comma-separated extensions to exclude (use 'web' for links)")
		cmd.Flags().StringVar(&f.info, "info", "", "Filter by annotations (with, without)")
	}
}

func (f *predicateFlags) predicates() query.Predicates {
	return query.Predicates{
		Name:              strings.TrimSpace(f.name),
		ExcludeName:       strings.TrimSpace(f.excludeName),
		Tag:               strings.TrimSpace(f.tag),
		ExcludeTag:        strings.TrimSpace(f.excludeTag),
		Days:              query.ParseDays(f.days),
		Extensions:        query.ParseExtensions(f.ext),
		ExcludeExtensions: query.ParseExtensions(f.excludeExt),
		Info:              query.ParseInfo(f.info),
		Platform:          strings.TrimSpace(f.platform),
		Category:          strings.TrimSpace(f.category),
		Status:            strings.TrimSpace(f.status),
		Order:             query.Order(strings.ToLower(strings.TrimSpace(f.order))),
		Limit:             f.limit,
	}
}

func NewSearchCommand() *cobra.Command {
	var flags predicateFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search indexed files and links",
		Long: `Search indexed files and links.

Every flag narrows the result; values inside a comma-separated list widen it.

Example:
  goindex search --ext pdf,docx --exclude-tag archive
  goindex search --name invoice --days 30
  goindex search --ext web --tag youtube
  goindex search --info without --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Build(query.Resources, flags.predicates(), time.Now())
			if err != nil {
				return err
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				resources, err := gia.Store().ListResources(ctx, q)
				if err != nil {
					return fmt.Errorf("failed to search resources: %w", err)
				}

				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), resources)
				}
				printResources(cmd.OutOrStdout(), resources)
				return nil
			})
		},
	}

	flags.register(cmd, query.Resources)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	return cmd
}
