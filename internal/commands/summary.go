package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groupfund/groupfund/internal/handler/dto"
	"github.com/groupfund/groupfund/internal/service"
	"github.com/groupfund/groupfund/internal/storage"
)

func newSummaryCommand(flags *storageFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print totals and each participant's settlement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd.Context(), flags, func(_ storage.Store, ledger *service.LedgerService) error {
				summary, err := service.NewReportService(ledger, 0).Summary(cmd.Context())
				if err != nil {
					return fmt.Errorf("computing summary: %w", err)
				}

				resp := dto.ToSummaryResponse(summary)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(resp)
				}
				return printSummary(cmd.OutOrStdout(), resp)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

func printSummary(out io.Writer, s *dto.SummaryResponse) error {
	fmt.Fprintf(out, "Collected:  %s\n", s.TotalCollected)
	fmt.Fprintf(out, "Spent:      %s\n", s.TotalSpent)
	fmt.Fprintf(out, "Balance:    %s\n", s.Balance)
	fmt.Fprintf(out, "Share:      %s\n", s.IndividualShare)
	fmt.Fprintf(out, "Still owed: %s\n\n", s.TotalDue)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PARTICIPANT\tCONTRIBUTED\tDELTA\tSTATUS\tDUE\t")
	for _, p := range s.Participants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", p.Name, p.Contribution, p.Delta, p.Status, p.AmountDue)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.Categories) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CATEGORY\tCOST\tPERCENT\t")
	for _, c := range s.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s%%\t\n", c.Name, c.Cost, c.Percent)
	}
	return tw.Flush()
}
