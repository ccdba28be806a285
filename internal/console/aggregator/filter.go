package aggregator

import (
	"fmt"
	"strings"
)

// StatusFilter narrows records by outcome.
type StatusFilter string

const (
	// StatusAny keeps records regardless of outcome.
	StatusAny StatusFilter = "any"
	// StatusSuccess keeps only successful records.
	StatusSuccess StatusFilter = "success"
	// StatusFailure keeps only failed records.
	StatusFailure StatusFilter = "failure"
)

// ParseStatusFilter maps a flag value to a StatusFilter. The empty string
// means StatusAny.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return StatusAny, nil
	case "success", "ok":
		return StatusSuccess, nil
	case "failure", "failed", "fail":
		return StatusFailure, nil
	}
	return StatusAny, fmt.Errorf("unknown status filter %q", s)
}

// FilterCriteria is the operator-selected view over a record set. All
// populated predicates must match; the zero value keeps every record.
type FilterCriteria struct {
	Search string
	Status StatusFilter
	Tool   string
}

// IsZero reports whether the criteria would keep every record.
func (c FilterCriteria) IsZero() bool {
	return c.Search == "" && (c.Status == "" || c.Status == StatusAny) && c.Tool == ""
}

// Matches reports whether r passes every predicate of c.
func (c FilterCriteria) Matches(r Record) bool {
	if c.Search != "" && !matchesSearch(r, c.Search) {
		return false
	}

	switch c.Status {
	case StatusSuccess:
		if !r.Success {
			return false
		}
	case StatusFailure:
		if r.Success {
			return false
		}
	}

	if c.Tool != "" && r.ToolName != c.Tool {
		return false
	}

	return true
}

// matchesSearch checks tool name, command, stdout and stderr
// case-insensitively. Absent stdout and stderr never match.
func matchesSearch(r Record, search string) bool {
	needle := strings.ToLower(search)

	if strings.Contains(strings.ToLower(r.ToolName), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Command), needle) {
		return true
	}
	if r.Stdout != nil && strings.Contains(strings.ToLower(*r.Stdout), needle) {
		return true
	}
	if r.Stderr != nil && strings.Contains(strings.ToLower(*r.Stderr), needle) {
		return true
	}

	return false
}

// ApplyFilters returns the records of in that match criteria, preserving
// their relative order. The input slice is never modified.
func ApplyFilters(in []Record, criteria FilterCriteria) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		if criteria.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
