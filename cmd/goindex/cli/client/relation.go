package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/goindex/internal/agent"
	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/spf13/cobra"
)

func NewRelationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relation",
		Short: "Manage relations between entities",
		Long: `Manage annotated relations between resources, apps and web accounts.

Entities are addressed as <kind> <id>, where kind is one of
file, app or account.`,
	}

	cmd.AddCommand(NewRelationListCommand())
	cmd.AddCommand(NewRelationAddCommand())
	cmd.AddCommand(NewRelationRemoveCommand())
	cmd.AddCommand(NewRelationPruneCommand())

	return cmd
}

func parseRef(kind, id string) (models.EntityRef, error) {
	k, err := models.ParseEntityKind(strings.ToLower(kind))
	if err != nil {
		return models.EntityRef{}, err
	}
	n, err := parseID(id)
	if err != nil {
		return models.EntityRef{}, err
	}
	return models.EntityRef{Kind: k, ID: n}, nil
}

func NewRelationListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <kind> <id>",
		Short: "List the relations of an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0], args[1])
			if err != nil {
				return err
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				edges, err := gia.Relations().List(ctx, ref)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(edges) == 0 {
					fmt.Fprintf(out, "No relations found for %s.\n", ref)
					return nil
				}

				rows := make([][]string, 0, len(edges))
				for _, e := range edges {
					registered := "-"
					if !e.RegisteredAt.IsZero() {
						registered = humanize.Time(e.RegisteredAt)
					}
					rows = append(rows, []string{
						strconv.FormatUint(uint64(e.ID), 10),
						e.Other.Kind.Label(),
						strconv.FormatUint(uint64(e.Other.ID), 10),
						shorten(e.OtherName, maxNameWidth),
						shorten(e.Description, maxNameWidth),
						registered,
					})
				}

				printTable(out, []string{"ID", "KIND", "ENTITY", "NAME", "NOTE", "REGISTERED"}, rows)
				return nil
			})
		},
	}

	return cmd
}

func NewRelationAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <kind> <id> <kind> <id> <note>...",
		Short: "Relate two entities",
		Long: `Relate two entities with a note.

Example:
  goindex relation add file 12 app 3 Opened with this editor`,
		Args: cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := parseRef(args[0], args[1])
			if err != nil {
				return err
			}
			destination, err := parseRef(args[2], args[3])
			if err != nil {
				return err
			}
			text := strings.Join(args[4:], " ")

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				note, err := gia.Relations().Add(ctx, origin, destination, text)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Created relation %d between %s and %s\n", note.ID, origin, destination)
				return nil
			})
		},
	}

	return cmd
}

func NewRelationRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <relation-id>",
		Short: "Remove a relation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				if err := gia.Relations().Remove(ctx, id); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Removed relation %d\n", id)
				return nil
			})
		},
	}

	return cmd
}

func NewRelationPruneCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove relations pointing at missing entities",
		Long:  "Remove every relation whose origin or destination no longer exists (needs confirmation).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to prune relations without --confirm")
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				pruned, err := gia.Relations().PruneDangling(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d dangling relation(s)\n", pruned)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "confirm", "c", false, "Confirms the removal of dangling relations")

	return cmd
}
