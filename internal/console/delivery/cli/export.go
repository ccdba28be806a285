package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"toolwatch/internal/console/aggregator"
)

func newExportCommand() *cobra.Command {
	var (
		limit  int
		search string
		status string
		tool   string
		format string
		fields []string
		dir    string
		prefix string
		toClip bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered record set as CSV or JSON",
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

			var data []byte
			var ext string
			switch format {
			case "csv":
				data = aggregator.ExportCSV(records, fields)
				ext = ".csv"
			case "json":
				data, err = aggregator.ExportJSON(records)
				if err != nil {
					return err
				}
				ext = ".json"
			default:
				return fmt.Errorf("unknown export format %q, expected csv or json", format)
			}

			if toClip {
				if err := con.clip.Copy(string(data)); err != nil {
					return &aggregator.ClipboardError{Err: err}
				}
				pterm.Success.Printfln("Copied %d records to the clipboard.", len(records))
				return nil
			}

			if dir == "" {
				dir = con.cfg.Export.Dir
			}
			if dir == "" {
				dir = "."
			}
			if prefix == "" {
				prefix = con.cfg.Export.Prefix
			}
			if prefix == "" {
				prefix = "executions"
			}

			path, err := aggregator.WriteExportFile(dir, prefix, ext, time.Now(), data)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Exported %d records to %s", len(records), path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", aggregator.DefaultFetchLimit, "Maximum records to fetch")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format: csv or json")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "CSV column order, defaults to every field")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory, defaults to the configured export dir")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Output file prefix, defaults to the configured prefix")
	cmd.Flags().BoolVar(&toClip, "clip", false, "Copy the export to the clipboard instead of writing a file")
	addFilterFlags(cmd, &search, &status, &tool)

	return cmd
}
