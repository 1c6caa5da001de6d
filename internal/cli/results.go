package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List recently finished rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RecentResults

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/results?limit=%d", limit), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of rounds to list (1-50)")

	return cmd
}
