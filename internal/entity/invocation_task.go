package entity

import "time"

// InvocationTask is the unit of work published to the tool invocation
// stream by the API service and consumed by the runner.
type InvocationTask struct {
	TaskID      string    `json:"task_id"`
	ToolName    string    `json:"tool_name"`
	Arguments   []string  `json:"arguments,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}
