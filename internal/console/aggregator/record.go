package aggregator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one tool invocation as served by the platform API. ToolName
// and Command are always present; every other field is optional and nil
// when the backend did not report it. Records are never mutated after
// decoding, so filtered views can share the backing array safely.
type Record struct {
	ToolName            string     `json:"tool_name"`
	Command             string     `json:"command"`
	Success             bool       `json:"success"`
	ReturnCode          *int       `json:"return_code,omitempty"`
	ExecutionTime       *float64   `json:"execution_time,omitempty"`
	Timestamp           *time.Time `json:"timestamp,omitempty"`
	Stdout              *string    `json:"stdout,omitempty"`
	Stderr              *string    `json:"stderr,omitempty"`
	SecurityCheckPassed *bool      `json:"security_check_passed,omitempty"`
}

// Field names accepted by ExportCSV and the --fields flag.
const (
	FieldToolName            = "tool_name"
	FieldCommand             = "command"
	FieldSuccess             = "success"
	FieldReturnCode          = "return_code"
	FieldExecutionTime       = "execution_time"
	FieldTimestamp           = "timestamp"
	FieldStdout              = "stdout"
	FieldStderr              = "stderr"
	FieldSecurityCheckPassed = "security_check_passed"
)

// DefaultFields returns the column order used when the caller does not
// choose one.
func DefaultFields() []string {
	return []string{
		FieldTimestamp,
		FieldToolName,
		FieldCommand,
		FieldSuccess,
		FieldReturnCode,
		FieldExecutionTime,
		FieldStdout,
		FieldStderr,
		FieldSecurityCheckPassed,
	}
}

// FieldValue renders the named field of r as cell text. Absent optional
// fields and unknown field names render as the empty string rather than
// failing the export.
func (r Record) FieldValue(name string) string {
	switch name {
	case FieldToolName:
		return r.ToolName
	case FieldCommand:
		return r.Command
	case FieldSuccess:
		return strconv.FormatBool(r.Success)
	case FieldReturnCode:
		if r.ReturnCode == nil {
			return ""
		}
		return strconv.Itoa(*r.ReturnCode)
	case FieldExecutionTime:
		if r.ExecutionTime == nil {
			return ""
		}
		return strconv.FormatFloat(*r.ExecutionTime, 'f', -1, 64)
	case FieldTimestamp:
		if r.Timestamp == nil {
			return ""
		}
		return r.Timestamp.Format(time.RFC3339)
	case FieldStdout:
		if r.Stdout == nil {
			return ""
		}
		return *r.Stdout
	case FieldStderr:
		if r.Stderr == nil {
			return ""
		}
		return *r.Stderr
	case FieldSecurityCheckPassed:
		if r.SecurityCheckPassed == nil {
			return ""
		}
		return strconv.FormatBool(*r.SecurityCheckPassed)
	}
	return ""
}

// Text renders the record as a human-readable block for clipboard copy.
// Only fields present on the record appear.
func (r Record) Text() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Tool: %s\n", r.ToolName)
	fmt.Fprintf(&sb, "Command: %s\n", r.Command)
	fmt.Fprintf(&sb, "Success: %t\n", r.Success)
	if r.ReturnCode != nil {
		fmt.Fprintf(&sb, "Return code: %d\n", *r.ReturnCode)
	}
	if r.ExecutionTime != nil {
		fmt.Fprintf(&sb, "Execution time: %.2fs\n", *r.ExecutionTime)
	}
	if r.Timestamp != nil {
		fmt.Fprintf(&sb, "Timestamp: %s\n", r.Timestamp.Format(time.RFC3339))
	}
	if r.SecurityCheckPassed != nil {
		fmt.Fprintf(&sb, "Security check passed: %t\n", *r.SecurityCheckPassed)
	}
	if r.Stdout != nil {
		fmt.Fprintf(&sb, "Stdout:\n%s\n", *r.Stdout)
	}
	if r.Stderr != nil {
		fmt.Fprintf(&sb, "Stderr:\n%s\n", *r.Stderr)
	}

	return sb.String()
}
