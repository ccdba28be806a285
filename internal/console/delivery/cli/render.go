package cli

import (
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"toolwatch/internal/console/aggregator"
	"toolwatch/pkg/utils"
)

const commandColumnWidth = 48

// renderRecordsTable prints records as a terminal table in fetch order.
func renderRecordsTable(records []aggregator.Record) error {
	if len(records) == 0 {
		pterm.Info.Println("No executions to display.")
		return nil
	}

	data := pterm.TableData{
		{"TIME", "TOOL", "STATUS", "CODE", "DURATION", "COMMAND"},
	}
	for _, r := range records {
		data = append(data, []string{
			formatTimestamp(r.Timestamp),
			r.ToolName,
			formatStatus(r),
			formatReturnCode(r.ReturnCode),
			formatDuration(r.ExecutionTime),
			utils.Truncate(r.Command, commandColumnWidth),
		})
	}

	return pterm.DefaultTable.WithHasHeader(true).WithBoxed(false).WithData(data).Render()
}

// renderStats prints the summary derived from the full record set.
func renderStats(stats aggregator.Statistics) {
	pterm.DefaultSection.Println("Execution Summary")
	pterm.Printfln("Total executions:   %d", stats.Total)
	pterm.Printfln("Succeeded:          %s (%d%%)", pterm.FgGreen.Sprint(stats.SuccessCount), stats.SuccessRatePercent)
	pterm.Printfln("Failed:             %s (%d%%)", pterm.FgRed.Sprint(stats.FailureCount), stats.FailureRatePercent)
	pterm.Printfln("Average duration:   %.2fs", stats.AvgExecutionTime)
}

// printMatchSummary notes how many records the filter kept.
func printMatchSummary(matched, total int) {
	pterm.Printfln("%d of %d records match the current filter.", matched, total)
}

func formatTimestamp(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func formatStatus(r aggregator.Record) string {
	if r.SecurityCheckPassed != nil && !*r.SecurityCheckPassed {
		return pterm.FgYellow.Sprint("blocked")
	}
	if r.Success {
		return pterm.FgGreen.Sprint("ok")
	}
	return pterm.FgRed.Sprint("failed")
}

func formatReturnCode(code *int) string {
	if code == nil {
		return "-"
	}
	return strconv.Itoa(*code)
}

func formatDuration(seconds *float64) string {
	if seconds == nil {
		return "-"
	}
	return strconv.FormatFloat(*seconds, 'f', 2, 64) + "s"
}
