package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groupfund/groupfund/internal/service"
	"github.com/groupfund/groupfund/internal/storage"
)

func newCategoriesCommand(flags *storageFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories if none exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), flags, func(_ storage.Store, ledger *service.LedgerService) error {
				inserted, err := ledger.SeedDefaultCategories(cmd.Context())
				if err != nil {
					return err
				}
				if inserted == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "categories already present, nothing seeded")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d default categories\n", inserted)
				return nil
			})
		},
	})

	return cmd
}
