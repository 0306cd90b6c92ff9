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

func NewAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage web accounts",
		Long:  "Register, search and remove the web service accounts kept in the index.",
	}

	cmd.AddCommand(NewAccountAddCommand())
	cmd.AddCommand(NewAccountSearchCommand())
	cmd.AddCommand(NewAccountRemoveCommand())

	return cmd
}

func NewAccountAddCommand() *cobra.Command {
	var account models.WebAccount

	cmd := &cobra.Command{
		Use:   "add <site>",
		Short: "Register a web account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account.Site = strings.TrimSpace(args[0])
			if account.Site == "" {
				return fmt.Errorf("site is required")
			}
			account.Tags = joinTags(account.Tags)
			account.RegisteredAt = time.Now().Format(models.RegisteredAtLayout)

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				if err := gia.Store().CreateWebAccount(ctx, &account); err != nil {
					return fmt.Errorf("failed to register account: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Registered account '%s' as %d\n", account.Site, account.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&account.URL, "url", "", "Login url")
	cmd.Flags().StringVar(&account.Category, "category", "", "Account category")
	cmd.Flags().StringVar(&account.Email, "email", "", "Email or user name")
	cmd.Flags().StringVar(&account.Status, "status", "Activa", "Account status")
	cmd.Flags().StringVar(&account.Plan, "plan", "Gratuito", "Subscription plan")
	cmd.Flags().BoolVar(&account.TwoFactor, "2fa", false, "Whether two-factor authentication is enabled")
	cmd.Flags().StringVar(&account.Notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&account.Tags, "tags", "", "Comma-separated tags")

	return cmd
}

func NewAccountSearchCommand() *cobra.Command {
	var flags predicateFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search registered web accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := query.Build(query.WebAccounts, flags.predicates(), time.Now())
			if err != nil {
				return err
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				accounts, err := gia.Store().ListWebAccounts(ctx, q)
				if err != nil {
					return fmt.Errorf("failed to search accounts: %w", err)
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					return printJSON(out, accounts)
				}
				if len(accounts) == 0 {
					fmt.Fprintln(out, "No accounts found.")
					return nil
				}

				rows := make([][]string, 0, len(accounts))
				for _, a := range accounts {
					twoFactor := "no"
					if a.TwoFactor {
						twoFactor = "yes"
					}
					rows = append(rows, []string{
						strconv.FormatUint(uint64(a.ID), 10),
						shorten(a.Site, maxNameWidth),
						a.Email,
						a.Category,
						a.Status,
						a.Plan,
						twoFactor,
						a.Tags,
					})
				}
				printTable(out, []string{"ID", "SITE", "USER", "CATEGORY", "STATUS", "PLAN", "2FA", "TAGS"}, rows)
				fmt.Fprintf(out, "Total: %d account(s)\n", len(accounts))
				return nil
			})
		},
	}

	flags.register(cmd, query.WebAccounts)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	return cmd
}

func NewAccountRemoveCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "rm <account-id>",
		Short: "Remove a web account",
		Long: `Remove a web account from the index (needs confirmation).

Relations of the account are kept and show up as dangling until
'goindex relation prune --confirm' removes them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("refusing to remove account %d without --confirm", id)
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				account, err := gia.Store().GetWebAccount(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to load account %d: %w", id, err)
				}

				return removeEntity(ctx, cmd, gia, models.EntityRef{Kind: models.KindWebAccount, ID: id}, account.Site,
					gia.Store().DeleteWebAccount)
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "confirm", "c", false, "Confirms the removal of the account")

	return cmd
}
