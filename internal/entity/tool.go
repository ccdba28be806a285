package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ToolType determines which execution strategy runs a tool.
type ToolType string

const (
	// ToolTypeCommand runs a shell command on the runner host.
	ToolTypeCommand ToolType = "command"
	// ToolTypeHTTP performs an HTTP request described by the tool payload.
	ToolTypeHTTP ToolType = "http"
)

// Tool is a registered, invocable tool. Command holds the command line for
// command tools; Payload holds the request description for HTTP tools.
type Tool struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"unique;not null" json:"name"`
	Description string         `json:"description"`
	Type        ToolType       `gorm:"not null" json:"type"`
	Command     string         `json:"command,omitempty"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	Timeout     int            `json:"timeout"`
	Enabled     bool           `gorm:"default:true" json:"enabled"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Tool model.
func (Tool) TableName() string {
	return "tools"
}
