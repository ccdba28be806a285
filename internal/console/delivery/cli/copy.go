package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"toolwatch/internal/console/aggregator"
)

func newCopyCommand() *cobra.Command {
	var (
		limit  int
		search string
		status string
		tool   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "copy [index]",
		Short: "Copy a record, or the whole filtered set, to the clipboard",
		Long: `Copy places execution data on the system clipboard.

With an index (1-based, into the filtered view) the record is copied as a
readable text block, or as JSON with --json. Without an index the whole
filtered set is copied as JSON.`,
		Args: cobra.MaximumNArgs(1),
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

			if len(args) == 0 {
				data, err := aggregator.ExportJSON(records)
				if err != nil {
					return err
				}
				if err := con.clip.Copy(string(data)); err != nil {
					return &aggregator.ClipboardError{Err: err}
				}
				pterm.Success.Printfln("Copied %d records as JSON.", len(records))
				return nil
			}

			index, err := strconv.Atoi(args[0])
			if err != nil || index < 1 || index > len(records) {
				return fmt.Errorf("index must be between 1 and %d", len(records))
			}
			record := records[index-1]

			var payload string
			if asJSON {
				data, err := aggregator.ExportJSON([]aggregator.Record{record})
				if err != nil {
					return err
				}
				payload = string(data)
			} else {
				payload = record.Text()
			}

			if err := con.clip.Copy(payload); err != nil {
				return &aggregator.ClipboardError{Err: err}
			}
			pterm.Success.Printfln("Copied record %d (%s).", index, record.ToolName)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", aggregator.DefaultFetchLimit, "Maximum records to fetch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Copy the record as JSON instead of text")
	addFilterFlags(cmd, &search, &status, &tool)

	return cmd
}
