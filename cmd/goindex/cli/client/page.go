package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mwantia/goindex/internal/agent"
	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/query"
	"github.com/spf13/cobra"
)

func NewPageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Manage bookmarked pages",
		Long:  "Register, search and remove web pages that are used without an account.",
	}

	cmd.AddCommand(NewPageAddCommand())
	cmd.AddCommand(NewPageSearchCommand())
	cmd.AddCommand(NewPageRemoveCommand())

	return cmd
}

func NewPageAddCommand() *cobra.Command {
	var page models.Page

	cmd := &cobra.Command{
		Use:   "add <name>...",
		Short: "Register a page",
		Long: `Register a page that needs no account.

Example:
  goindex page add Go documentation --url https://go.dev/doc --category Referencia --tags go,docs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page.Name = strings.TrimSpace(strings.Join(args, " "))
			page.URL = strings.TrimSpace(page.URL)
			if page.Name == "" || page.URL == "" {
				return fmt.Errorf("name and --url are required")
			}
			page.Tags = joinTags(page.Tags)
			page.RegisteredAt = time.Now().Format(models.RegisteredAtLayout)

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				if err := gia.Store().CreatePage(ctx, &page); err != nil {
					return fmt.Errorf("failed to register page: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Registered page '%s' as %d\n", page.Name, page.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&page.URL, "url", "", "Page url")
	cmd.Flags().StringVar(&page.Category, "category", "", "Page category")
	cmd.Flags().StringVar(&page.Description, "description", "", "Short description")
	cmd.Flags().StringVar(&page.Tags, "tags", "", "Comma-separated tags")

	return cmd
}

func NewPageSearchCommand() *cobra.Command {
	var flags predicateFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search registered pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Build(query.Pages, flags.predicates(), time.Now())
			if err != nil {
				return err
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				pages, err := gia.Store().ListPages(ctx, q)
				if err != nil {
					return fmt.Errorf("failed to search pages: %w", err)
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return printJSON(out, pages)
				}
				if len(pages) == 0 {
					fmt.Fprintln(out, "No pages found.")
					return nil
				}

				rows := make([][]string, 0, len(pages))
				for _, p := range pages {
					rows = append(rows, []string{
						strconv.FormatUint(uint64(p.ID), 10),
						shorten(p.Name, maxNameWidth),
						shorten(p.URL, maxNameWidth),
						p.Category,
						p.Tags,
					})
				}
				printTable(out, []string{"ID", "NAME", "URL", "CATEGORY", "TAGS"}, rows)
				fmt.Fprintf(out, "Total: %d page(s)\n", len(pages))
				return nil
			})
		},
	}

	flags.register(cmd, query.Pages)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	return cmd
}

func NewPageRemoveCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "rm <page-id>",
		Short: "Remove a page (needs confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("refusing to remove page %d without --confirm", id)
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				if err := gia.Store().DeletePage(ctx, id); err != nil {
					return fmt.Errorf("failed to remove page %d: %w", id, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Removed page %d\n", id)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "confirm", "c", false, "Confirms the removal of the page")

	return cmd
}
