package strategy

import (
	"context"

	"toolwatch/internal/entity"
)

// Outcome carries everything one execution produced.
type Outcome struct {
	Command       string
	Stdout        string
	Stderr        string
	ReturnCode    int
	ExecutionTime float64
}

// ToolExecutionStrategy defines the interface for different tool execution strategies.
type ToolExecutionStrategy interface {
	Execute(ctx context.Context, tool *entity.Tool, task *entity.InvocationTask) (*Outcome, error)
	GetType() entity.ToolType
}
