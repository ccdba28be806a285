package cli

import (
	"context"

	"github.com/spf13/cobra"

	"toolwatch/internal/console/aggregator"
)

func newStatsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch execution records and display summary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := newConsole()
			if err != nil {
				return err
			}
			defer con.close()

			if err := con.agg.Fetch(context.Background(), limit); err != nil {
				return err
			}

			renderStats(con.agg.Statistics())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", aggregator.DefaultFetchLimit, "Maximum records to fetch")

	return cmd
}
