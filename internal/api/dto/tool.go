package dto

import (
	"encoding/json"
	"time"
)

// CreateToolRequest is the DTO for registering a new tool.
type CreateToolRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Command     string          `json:"command,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
	Timeout     int             `json:"timeout"`
	Enabled     *bool           `json:"enabled,omitempty"`
}

// UpdateToolRequest is the DTO for updating a registered tool.
type UpdateToolRequest struct {
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Command     string          `json:"command,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
	Timeout     int             `json:"timeout"`
	Enabled     *bool           `json:"enabled,omitempty"`
}

// ToolResponse is the DTO for API responses containing tool details.
type ToolResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Command     string          `json:"command,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
	Timeout     int             `json:"timeout"`
	Enabled     bool            `json:"enabled"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InvokeToolRequest is the DTO for queueing a tool invocation.
type InvokeToolRequest struct {
	Arguments []string `json:"arguments,omitempty"`
}

// InvokeToolResponse acknowledges a queued invocation.
type InvokeToolResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}
