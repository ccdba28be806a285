package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"toolwatch/pkg/logger"
	"toolwatch/pkg/utils"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func testTime(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return &parsed
}

// sampleRecords mirrors a typical platform payload: successes and failures
// from different tools, with some optional fields absent.
func sampleRecords(t *testing.T) []Record {
	t.Helper()
	return []Record{
		{
			ToolName:            "lint",
			Command:             "golangci-lint run ./...",
			Success:             true,
			ReturnCode:          utils.ToPointer(0),
			ExecutionTime:       utils.ToPointer(1.2),
			Timestamp:           testTime(t, "2026-08-20T09:00:00Z"),
			Stdout:              utils.ToPointer("0 issues"),
			SecurityCheckPassed: utils.ToPointer(true),
		},
		{
			ToolName:      "deploy",
			Command:       "kubectl apply -f manifests/",
			Success:       false,
			ReturnCode:    utils.ToPointer(1),
			ExecutionTime: utils.ToPointer(3.4),
			Timestamp:     testTime(t, "2026-08-20T09:05:00Z"),
			Stderr:        utils.ToPointer("Error occurred: connection refused"),
		},
		{
			ToolName: "lint",
			Command:  "eslint src/",
			Success:  true,
		},
	}
}
