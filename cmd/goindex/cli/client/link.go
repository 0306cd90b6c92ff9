package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwantia/goindex/internal/agent"
	"github.com/spf13/cobra"
)

func NewLinkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage web links",
		Long:  "Register web or cloud links as resources of the index.",
	}

	cmd.AddCommand(NewLinkAddCommand())

	return cmd
}

func NewLinkAddCommand() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "add <url> <name>...",
		Short: "Register a web link",
		Long: `Register a web link. A url that is already registered is left unchanged.

Example:
  goindex link add https://example.com/handbook Team handbook --provider "Google Drive"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			name := strings.Join(args[1:], " ")

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				id, created, err := gia.Importer().InsertWebResource(ctx, url, name, provider)
				if err != nil {
					return err
				}

				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "Registered link as resource %d\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Link is already registered as resource %d\n", id)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Cloud provider the link belongs to, stored as a tag")

	return cmd
}
