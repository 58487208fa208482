package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groupfund/groupfund/internal/model"
	"github.com/groupfund/groupfund/internal/service"
	"github.com/groupfund/groupfund/internal/storage"
)

// ErrDrift is returned by verify when any cached total disagrees with the
// participant's deposits.
var ErrDrift = errors.New("contribution totals drifted from deposits")

func newVerifyCommand(flags *storageFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every participant's total against their deposits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), flags, func(store storage.Store, _ *service.LedgerService) error {
				drift, err := store.ContributionDrift(cmd.Context())
				if err != nil {
					return fmt.Errorf("checking totals: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(drift) == 0 {
					fmt.Fprintln(out, "all contribution totals match their deposits")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PARTICIPANT\tID\tCACHED\tACTUAL")
				for _, d := range drift {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.ParticipantID,
						model.FormatAmount(d.Cached), model.FormatAmount(d.Actual))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				return fmt.Errorf("%d participant(s): %w", len(drift), ErrDrift)
			})
		},
	}
}
