package client

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mwantia/goindex/internal/agent"
	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/db/store"
	"github.com/spf13/cobra"
)

func NewLookupCommand() *cobra.Command {
	var web bool

	cmd := &cobra.Command{
		Use:   "lookup <path>",
		Short: "Show the index entry of a path",
		Long:  "Look up a resource by its exact path, or by its exact url with --web.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, kind := args[0], models.ResourceLocal
			if web {
				kind = models.ResourceWeb
			} else if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				resource, err := gia.Store().GetResourceByPath(ctx, path, kind)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("'%s' is not indexed", path)
				}
				if err != nil {
					return err
				}

				return showResource(ctx, cmd, gia, resource)
			})
		},
	}

	cmd.Flags().BoolVar(&web, "web", false, "Look up a web link instead of a local path")

	return cmd
}

func showResource(ctx context.Context, cmd *cobra.Command, gia *agent.GoIndexAgent, resource *models.Resource) error {
	tags, err := gia.Annotations().Tags(ctx, resource.ID)
	if err != nil {
		return err
	}
	descriptions, err := gia.Annotations().Descriptions(ctx, resource.ID)
	if err != nil {
		return err
	}

	printResource(cmd.OutOrStdout(), resource, tags, descriptions)
	return nil
}
