package aggregator

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolwatch/pkg/utils"
)

func TestExportCSVRoundTripsThroughStandardReader(t *testing.T) {
	records := []Record{
		{
			ToolName:      "report",
			Command:       `grep -r "TODO, FIXME" src/`,
			Success:       false,
			ReturnCode:    utils.ToPointer(2),
			ExecutionTime: utils.ToPointer(0.5),
			Stdout:        utils.ToPointer("line one\nline two, with comma"),
			Stderr:        utils.ToPointer(`said "no such file"`),
		},
		{
			ToolName: "noop",
			Command:  "true",
			Success:  true,
		},
	}
	fields := DefaultFields()

	out := ExportCSV(records, fields)

	reader := csv.NewReader(strings.NewReader(string(out)))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)

	assert.Equal(t, fields, rows[0])
	for i, r := range records {
		for j, f := range fields {
			assert.Equal(t, r.FieldValue(f), rows[i+1][j], "record %d field %s", i, f)
		}
	}
}

func TestExportCSVQuotesEveryCell(t *testing.T) {
	records := []Record{
		{ToolName: "lint", Command: "golangci-lint run", Success: true},
	}

	out := string(ExportCSV(records, []string{FieldToolName, FieldCommand, FieldSuccess}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"tool_name","command","success"`, lines[0])
	assert.Equal(t, `"lint","golangci-lint run","true"`, lines[1])
}

func TestExportCSVDoublesEmbeddedQuotes(t *testing.T) {
	records := []Record{
		{ToolName: "echo", Command: `echo "hello"`, Success: true},
	}

	out := string(ExportCSV(records, []string{FieldCommand}))

	assert.Contains(t, out, `"echo ""hello"""`)
}

func TestExportCSVHonorsFieldOrderAndAbsentValues(t *testing.T) {
	records := []Record{
		{ToolName: "noop", Command: "true", Success: true},
	}

	out := string(ExportCSV(records, []string{FieldReturnCode, FieldToolName, FieldStderr}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"return_code","tool_name","stderr"`, lines[0])
	assert.Equal(t, `"","noop",""`, lines[1])
}

func TestExportCSVDefaultsFieldsWhenNoneGiven(t *testing.T) {
	out := string(ExportCSV(nil, nil))

	reader := csv.NewReader(strings.NewReader(out))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, DefaultFields(), rows[0])
}

func TestExportJSONRoundTrips(t *testing.T) {
	records := sampleRecords(t)

	data, err := ExportJSON(records)
	require.NoError(t, err)

	var decoded []Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, records, decoded)
}

func TestRecordTextIncludesOnlyPresentFields(t *testing.T) {
	records := sampleRecords(t)

	full := records[0].Text()
	assert.Contains(t, full, "Tool: lint")
	assert.Contains(t, full, "Command: golangci-lint run ./...")
	assert.Contains(t, full, "Success: true")
	assert.Contains(t, full, "Return code: 0")
	assert.Contains(t, full, "Execution time: 1.20s")
	assert.Contains(t, full, "Security check passed: true")
	assert.Contains(t, full, "Stdout:\n0 issues")
	assert.NotContains(t, full, "Stderr")

	sparse := records[2].Text()
	assert.Contains(t, sparse, "Tool: lint")
	assert.Contains(t, sparse, "Success: true")
	assert.NotContains(t, sparse, "Return code")
	assert.NotContains(t, sparse, "Execution time")
	assert.NotContains(t, sparse, "Timestamp")
	assert.NotContains(t, sparse, "Stdout")
}

func TestWriteExportFileNamesByDate(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 20, 15, 4, 5, 0, time.UTC)

	path, err := WriteExportFile(dir, "executions", ".csv", now, []byte("data"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "executions-2026-08-20.csv"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}

func TestWriteExportFileReportsExportError(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocked, []byte("file"), 0o644))

	_, err := WriteExportFile(blocked, "executions", ".csv", time.Now(), []byte("data"))

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
}
