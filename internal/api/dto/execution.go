package dto

import (
	"encoding/json"
	"time"
)

// ExecutionRecordResponse is the wire form of one execution record.
// ToolName and Command are always present; every other outcome field is
// omitted when the execution never produced it.
type ExecutionRecordResponse struct {
	ID                  uint            `json:"id"`
	TaskID              string          `json:"task_id,omitempty"`
	ToolName            string          `json:"tool_name"`
	Command             string          `json:"command"`
	Arguments           json.RawMessage `json:"arguments,omitempty" swaggertype:"object"`
	Success             bool            `json:"success"`
	ReturnCode          *int            `json:"return_code,omitempty"`
	ExecutionTime       *float64        `json:"execution_time,omitempty"`
	Timestamp           *time.Time      `json:"timestamp,omitempty"`
	Stdout              *string         `json:"stdout,omitempty"`
	Stderr              *string         `json:"stderr,omitempty"`
	SecurityCheckPassed *bool           `json:"security_check_passed,omitempty"`
}

// ExecutionsResponse wraps the record list in the envelope consumers
// expect.
type ExecutionsResponse struct {
	Executions []ExecutionRecordResponse `json:"executions"`
}

// IngestExecutionRequest is the DTO for reporting an execution performed
// outside the runner, such as a CI job or a manual run.
type IngestExecutionRequest struct {
	ToolName            string          `json:"tool_name"`
	Command             string          `json:"command"`
	Arguments           json.RawMessage `json:"arguments,omitempty" swaggertype:"object"`
	Success             bool            `json:"success"`
	ReturnCode          *int            `json:"return_code,omitempty"`
	ExecutionTime       *float64        `json:"execution_time,omitempty"`
	Timestamp           *time.Time      `json:"timestamp,omitempty"`
	Stdout              *string         `json:"stdout,omitempty"`
	Stderr              *string         `json:"stderr,omitempty"`
	SecurityCheckPassed *bool           `json:"security_check_passed,omitempty"`
}

// StatsResponse is the DTO for the aggregate view over the whole log.
type StatsResponse struct {
	Total              int64   `json:"total"`
	SuccessCount       int64   `json:"success_count"`
	FailureCount       int64   `json:"failure_count"`
	SuccessRatePercent int     `json:"success_rate_percent"`
	FailureRatePercent int     `json:"failure_rate_percent"`
	AvgExecutionTime   float64 `json:"average_execution_time"`
}
