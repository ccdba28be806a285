package telegram

import (
	"fmt"
	"strings"
	"time"

	"toolwatch/pkg/utils"
)

// FormatSecurityBlockMessage formats the alert sent when the guardrail
// refuses to run a command.
func FormatSecurityBlockMessage(toolName, command, reason string, at time.Time) string {
	var sb strings.Builder

	sb.WriteString("🛑 *Execution Blocked*\n\n")
	sb.WriteString(fmt.Sprintf("🔧 *Tool:* `%s`\n", toolName))
	sb.WriteString(fmt.Sprintf("💻 *Command:* `%s`\n", utils.Truncate(command, 256)))
	sb.WriteString(fmt.Sprintf("⚠️ *Reason:* %s\n", reason))
	sb.WriteString(fmt.Sprintf("📅 %s\n", at.Format("2006-01-02 15:04:05")))

	return sb.String()
}

// FormatFailureRateAlertMessage formats the alert sent when the observed
// failure rate crosses the configured threshold.
func FormatFailureRateAlertMessage(failureRatePercent, thresholdPercent, total, failures int, at time.Time) string {
	var sb strings.Builder

	sb.WriteString("📛 *Failure Rate Alert*\n\n")
	sb.WriteString(fmt.Sprintf("📉 Failure rate at *%d%%* (threshold %d%%)\n", failureRatePercent, thresholdPercent))
	sb.WriteString(fmt.Sprintf("🔢 %d of %d executions failed\n", failures, total))
	sb.WriteString(fmt.Sprintf("📅 %s\n", at.Format("2006-01-02 15:04:05")))

	return sb.String()
}

// FormatExecutionFailureMessage formats the alert sent when a watched tool
// execution fails.
func FormatExecutionFailureMessage(toolName, command, stderr string, returnCode int, at time.Time) string {
	var sb strings.Builder

	sb.WriteString("❌ *Execution Failed*\n\n")
	sb.WriteString(fmt.Sprintf("🔧 *Tool:* `%s`\n", toolName))
	sb.WriteString(fmt.Sprintf("💻 *Command:* `%s`\n", utils.Truncate(command, 256)))
	sb.WriteString(fmt.Sprintf("🔙 *Return code:* %d\n", returnCode))
	if stderr != "" {
		sb.WriteString(fmt.Sprintf("📄 *Stderr:*\n```\n%s\n```\n", utils.Truncate(stderr, 512)))
	}
	sb.WriteString(fmt.Sprintf("📅 %s\n", at.Format("2006-01-02 15:04:05")))

	return sb.String()
}
