package aggregator

import "math"

// Statistics are aggregate values derived on demand from a record set.
// They are computed over the full set, never a filtered view.
type Statistics struct {
	Total              int     `json:"total"`
	SuccessCount       int     `json:"success_count"`
	FailureCount       int     `json:"failure_count"`
	SuccessRatePercent int     `json:"success_rate_percent"`
	FailureRatePercent int     `json:"failure_rate_percent"`
	AvgExecutionTime   float64 `json:"average_execution_time"`
}

// ComputeStatistics derives summary statistics over records. An empty
// input yields zeroed statistics; records without an execution time are
// excluded from the average. Rates are rounded to whole percents and the
// average to two decimals.
func ComputeStatistics(records []Record) Statistics {
	stats := Statistics{Total: len(records)}

	var timed int
	var totalTime float64
	for _, r := range records {
		if r.Success {
			stats.SuccessCount++
		} else {
			stats.FailureCount++
		}
		if r.ExecutionTime != nil {
			timed++
			totalTime += *r.ExecutionTime
		}
	}

	if stats.Total > 0 {
		stats.SuccessRatePercent = int(math.Round(float64(stats.SuccessCount) / float64(stats.Total) * 100))
		stats.FailureRatePercent = int(math.Round(float64(stats.FailureCount) / float64(stats.Total) * 100))
	}
	if timed > 0 {
		stats.AvgExecutionTime = math.Round(totalTime/float64(timed)*100) / 100
	}

	return stats
}
