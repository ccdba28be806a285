package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ExecutionRecord is one logged tool invocation. ToolName and Command are
// always present; the remaining outcome fields are optional and stay nil
// when the execution never produced them, such as a run blocked before it
// started.
type ExecutionRecord struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	TaskID              string         `gorm:"index" json:"task_id,omitempty"`
	ToolName            string         `gorm:"not null;index" json:"tool_name"`
	Command             string         `gorm:"not null" json:"command"`
	Arguments           datatypes.JSON `gorm:"type:jsonb" json:"arguments,omitempty"`
	Success             bool           `gorm:"not null" json:"success"`
	ReturnCode          *int           `json:"return_code,omitempty"`
	ExecutionTime       *float64       `json:"execution_time,omitempty"`
	ExecutedAt          *time.Time     `gorm:"index" json:"timestamp,omitempty"`
	Stdout              *string        `json:"stdout,omitempty"`
	Stderr              *string        `json:"stderr,omitempty"`
	SecurityCheckPassed *bool          `json:"security_check_passed,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the ExecutionRecord model.
func (ExecutionRecord) TableName() string {
	return "execution_records"
}
