package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFiltersZeroCriteriaKeepsEverything(t *testing.T) {
	records := sampleRecords(t)

	got := ApplyFilters(records, FilterCriteria{})

	assert.Equal(t, records, got)
	assert.True(t, FilterCriteria{}.IsZero())
}

func TestApplyFiltersIsIdempotent(t *testing.T) {
	records := sampleRecords(t)
	criteria := FilterCriteria{Status: StatusSuccess}

	once := ApplyFilters(records, criteria)
	twice := ApplyFilters(once, criteria)

	assert.Equal(t, once, twice)
}

func TestApplyFiltersSearchIsCaseInsensitive(t *testing.T) {
	records := sampleRecords(t)

	for _, needle := range []string{"error occurred", "ERROR OCCURRED", "Error Occurred"} {
		got := ApplyFilters(records, FilterCriteria{Search: needle})
		require.Len(t, got, 1, "search %q", needle)
		assert.Equal(t, "deploy", got[0].ToolName)
	}
}

func TestApplyFiltersSearchCoversCommandAndOutput(t *testing.T) {
	records := sampleRecords(t)

	byCommand := ApplyFilters(records, FilterCriteria{Search: "kubectl"})
	require.Len(t, byCommand, 1)
	assert.Equal(t, "deploy", byCommand[0].ToolName)

	byStdout := ApplyFilters(records, FilterCriteria{Search: "0 issues"})
	require.Len(t, byStdout, 1)
	assert.Equal(t, "golangci-lint run ./...", byStdout[0].Command)
}

func TestApplyFiltersSearchSkipsAbsentOutput(t *testing.T) {
	records := []Record{
		{ToolName: "backup", Command: "tar czf backup.tgz data/", Success: true},
	}

	got := ApplyFilters(records, FilterCriteria{Search: "refused"})

	assert.Empty(t, got)
}

func TestApplyFiltersByStatus(t *testing.T) {
	records := sampleRecords(t)

	successes := ApplyFilters(records, FilterCriteria{Status: StatusSuccess})
	require.Len(t, successes, 2)
	for _, r := range successes {
		assert.True(t, r.Success)
	}

	failures := ApplyFilters(records, FilterCriteria{Status: StatusFailure})
	require.Len(t, failures, 1)
	assert.False(t, failures[0].Success)

	assert.Len(t, ApplyFilters(records, FilterCriteria{Status: StatusAny}), len(records))
}

func TestApplyFiltersByToolIsExactAndOrdered(t *testing.T) {
	records := sampleRecords(t)

	got := ApplyFilters(records, FilterCriteria{Tool: "lint"})

	require.Len(t, got, 2)
	assert.Equal(t, "golangci-lint run ./...", got[0].Command)
	assert.Equal(t, "eslint src/", got[1].Command)

	// "lin" is not a tool name; the tool predicate never substring-matches.
	assert.Empty(t, ApplyFilters(records, FilterCriteria{Tool: "lin"}))
}

func TestApplyFiltersCombinesPredicates(t *testing.T) {
	records := sampleRecords(t)

	got := ApplyFilters(records, FilterCriteria{
		Search: "lint",
		Status: StatusSuccess,
		Tool:   "lint",
	})
	require.Len(t, got, 2)

	// A record must pass every predicate, not any one of them.
	none := ApplyFilters(records, FilterCriteria{
		Search: "kubectl",
		Status: StatusSuccess,
	})
	assert.Empty(t, none)
}

func TestApplyFiltersDoesNotModifyInput(t *testing.T) {
	records := sampleRecords(t)
	before := make([]Record, len(records))
	copy(before, records)

	ApplyFilters(records, FilterCriteria{Status: StatusFailure})

	assert.Equal(t, before, records)
}

func TestParseStatusFilter(t *testing.T) {
	cases := []struct {
		in   string
		want StatusFilter
	}{
		{"", StatusAny},
		{"any", StatusAny},
		{"all", StatusAny},
		{"success", StatusSuccess},
		{"OK", StatusSuccess},
		{"failure", StatusFailure},
		{"failed", StatusFailure},
	}
	for _, tc := range cases {
		got, err := ParseStatusFilter(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := ParseStatusFilter("flaky")
	assert.Error(t, err)
}
