package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwantia/goindex/internal/agent"
	"github.com/spf13/cobra"
)

func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage resource tags",
		Long:  "Add, clear and list the tags attached to indexed resources.",
	}

	cmd.AddCommand(NewTagAddCommand())
	cmd.AddCommand(NewTagClearCommand())
	cmd.AddCommand(NewTagListCommand())

	return cmd
}

// splitTags accepts tags as separate arguments or comma-separated lists
func splitTags(args []string) []string {
	var tags []string
	for _, arg := range args {
		for _, tag := range strings.Split(arg, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func NewTagAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id> <tag>...",
		Short: "Attach tags to a resource",
		Long:  "Attach tags to a resource. Tags that are already attached are skipped.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				added, err := gia.Annotations().AddTags(ctx, id, splitTags(args[1:])...)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added %d tag(s) to resource %d\n", added, id)
				return nil
			})
		},
	}

	return cmd
}

func NewTagClearCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear <id>",
		Short: "Remove every tag of a resource",
		Long:  "Remove every tag of a resource (needs confirmation).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("refusing to clear tags of resource %d without --confirm", id)
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				removed, err := gia.Annotations().ClearTags(ctx, id)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d tag(s) from resource %d\n", removed, id)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "confirm", "c", false, "Confirms the removal of all tags")

	return cmd
}

func NewTagListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [id]",
		Short: "List tags",
		Long:  "List the tags of one resource, or every distinct tag in the index.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				var tags []string
				var err error

				if len(args) == 1 {
					id, perr := parseID(args[0])
					if perr != nil {
						return perr
					}
					tags, err = gia.Annotations().Tags(ctx, id)
				} else {
					tags, err = gia.Annotations().AllTags(ctx)
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(tags) == 0 {
					fmt.Fprintln(out, "No tags found.")
					return nil
				}
				for _, tag := range tags {
					fmt.Fprintln(out, tag)
				}
				return nil
			})
		},
	}

	return cmd
}
