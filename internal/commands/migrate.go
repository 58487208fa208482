package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groupfund/groupfund/internal/storage"
)

func newMigrateCommand(flags *storageFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := storage.MigrateUp(flags.options()); err != nil {
					return fmt.Errorf("migrating up: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", flags.backend)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations, dropping every ledger table",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := storage.MigrateDown(flags.options()); err != nil {
					return fmt.Errorf("migrating down: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrations rolled back (%s)\n", flags.backend)
				return nil
			},
		},
	)

	return cmd
}
