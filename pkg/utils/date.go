package utils

import (
	"time"
)

// FormatISODate renders t as a calendar date, used in export file names.
func FormatISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
