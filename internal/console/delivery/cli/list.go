package cli

import (
	"context"

	"github.com/spf13/cobra"

	"toolwatch/internal/console/aggregator"
)

func newListCommand() *cobra.Command {
	var (
		limit  int
		search string
		status string
		tool   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch execution records and display them as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := newConsole()
			if err != nil {
				return err
			}
			defer con.close()

			criteria, err := buildCriteria(search, status, tool)
			if err != nil {
				return err
			}
			con.agg.SetCriteria(criteria)

			if err := con.agg.Fetch(context.Background(), limit); err != nil {
				return err
			}

			records := con.agg.Filtered()
			if err := renderRecordsTable(records); err != nil {
				return err
			}

			if !criteria.IsZero() {
				printMatchSummary(len(records), len(con.agg.Records()))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", aggregator.DefaultFetchLimit, "Maximum records to fetch")
	addFilterFlags(cmd, &search, &status, &tool)

	return cmd
}
