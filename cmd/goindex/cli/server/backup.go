package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/goindex/internal/agent"
	"github.com/spf13/cobra"
)

func NewBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup [dest]",
		Short: "Write a consistent copy of the index",
		Long: `Write a consistent copy of the index database.

The copy is produced by the database engine, never by copying the live file.
Without a destination a timestamped file is written to ./backups.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := filepath.Join("backups", fmt.Sprintf("index_%s.db", time.Now().Format("20060102_150405")))
			if len(args) == 1 {
				dest = args[0]
			}

			return agent.Run(cmd.Context(), func(ctx context.Context, gia *agent.GoIndexAgent) error {
				if err := gia.Store().Backup(ctx, dest); err != nil {
					return err
				}

				size := "unknown size"
				if info, err := os.Stat(dest); err == nil {
					size = humanize.Bytes(uint64(info.Size()))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s (%s)\n", dest, size)
				return nil
			})
		},
	}

	return cmd
}
