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

func NewAppCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Manage installed applications",
		Long:  "Register, search and remove the applications kept in the index.",
	}

	cmd.AddCommand(NewAppAddCommand())
	cmd.AddCommand(NewAppSearchCommand())
	cmd.AddCommand(NewAppRemoveCommand())

	return cmd
}

// joinTags normalizes a comma-separated tag list for the inline tags column
func joinTags(raw string) string {
	return strings.Join(splitTags([]string{raw}), ",")
}

func NewAppAddCommand() *cobra.Command {
	var app models.App

	cmd := &cobra.Command{
		Use:   "add <name>...",
		Short: "Register an application",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Name = strings.TrimSpace(strings.Join(args, " "))
			app.Platform = strings.TrimSpace(app.Platform)
			if app.Name == "" || app.Platform == "" {
				return fmt.Errorf("name and --platform are required")
			}
			app.Tags = joinTags(app.Tags)
			app.RegisteredAt = time.Now().Format(models.RegisteredAtLayout)

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				if err := gia.Store().CreateApp(ctx, &app); err != nil {
					return fmt.Errorf("failed to register app: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Registered app '%s' as %d\n", app.Name, app.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&app.Platform, "platform", "", "Platform the app runs on (e.g. Windows, Android)")
	cmd.Flags().StringVar(&app.Category, "category", "", "App category")
	cmd.Flags().StringVar(&app.Version, "version", "", "Installed version")
	cmd.Flags().StringVar(&app.Status, "status", "Instalada", "Install status")
	cmd.Flags().BoolVar(&app.Free, "free", true, "Whether the app is free")
	cmd.Flags().StringVar(&app.StoreLink, "store-link", "", "Store or download link")
	cmd.Flags().StringVar(&app.Notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&app.Tags, "tags", "", "Comma-separated tags")

	return cmd
}

func NewAppSearchCommand() *cobra.Command {
	var flags predicateFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search registered applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Build(query.Apps, flags.predicates(), time.Now())
			if err != nil {
				return err
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				apps, err := gia.Store().ListApps(ctx, q)
				if err != nil {
					return fmt.Errorf("failed to search apps: %w", err)
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return printJSON(out, apps)
				}
				if len(apps) == 0 {
					fmt.Fprintln(out, "No apps found.")
					return nil
				}

				rows := make([][]string, 0, len(apps))
				for _, a := range apps {
					rows = append(rows, []string{
						strconv.FormatUint(uint64(a.ID), 10),
						shorten(a.Name, maxNameWidth),
						a.Platform,
						a.Category,
						a.Status,
						a.Tags,
					})
				}
				printTable(out, []string{"ID", "NAME", "PLATFORM", "CATEGORY", "STATUS", "TAGS"}, rows)
				fmt.Fprintf(out, "Total: %d app(s)\n", len(apps))
				return nil
			})
		},
	}

	flags.register(cmd, query.Apps)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	return cmd
}

func NewAppRemoveCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "rm <app-id>",
		Short: "Remove an application",
		Long: `Remove an application from the index (needs confirmation).

Relations of the app are kept and show up as dangling until
'goindex relation prune --confirm' removes them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("refusing to remove app %d without --confirm", id)
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				app, err := gia.Store().GetApp(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to load app %d: %w", id, err)
				}

				return removeEntity(ctx, cmd, gia, models.EntityRef{Kind: models.KindApp, ID: id}, app.Name,
					gia.Store().DeleteApp)
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "confirm", "c", false, "Confirms the removal of the app")

	return cmd
}

// removeEntity deletes a relatable entity and reports the relations it leaves dangling
func removeEntity(ctx context.Context, cmd *cobra.Command, gia *agent.GoIndexAgent, ref models.EntityRef, name string,
	remove func(ctx context.Context, id uint) error) error {
	edges, err := gia.Relations().List(ctx, ref)
	if err != nil {
		return err
	}

	if err := remove(ctx, ref.ID); err != nil {
		return fmt.Errorf("failed to remove %s: %w", ref, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Removed %s '%s' (%d)\n", strings.ToLower(ref.Kind.Label()), name, ref.ID)
	if len(edges) > 0 {
		fmt.Fprintf(out, "%d relation(s) now point at a missing entity, see 'goindex relation prune'\n", len(edges))
	}
	return nil
}
