package client

import (
	"context"
	"strings"

	"github.com/mwantia/goindex/internal/agent"
	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/spf13/cobra"
)

func NewDescribeCommand() *cobra.Command {
	var source string
	var model string

	cmd := &cobra.Command{
		Use:   "describe <id> [text...]",
		Short: "Show or set the description of a resource",
		Long: `Show a resource with its tags and descriptions, or set a description.

A description from the same source replaces the previous one.

Example:
  goindex describe 42
  goindex describe 42 Quarterly report for the board
  goindex describe 42 --source AI --model local-llm Summary of the document`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				if text != "" {
					if err := gia.Annotations().SetDescription(ctx, id, text, source, model); err != nil {
						return err
					}
				}

				resource, err := gia.Store().GetResource(ctx, id)
				if err != nil {
					return err
				}
				return showResource(ctx, cmd, gia, resource)
			})
		},
	}

	cmd.Flags().StringVar(&source, "source", models.SourceManual, "Description source (Manual, AI)")
	cmd.Flags().StringVar(&model, "model", models.NoModel, "Model that produced an AI description")

	return cmd
}
