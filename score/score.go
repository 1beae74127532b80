// Package score derives completion percentages from a projection snapshot.
// Everything here is a pure function; the store's Snapshot is the input.
package score

import (
	"math"

	"cetele-core/domain"
)

// CompletionForDate returns round(100 * completed / total) for the date,
// and exactly 0 when there are no habits. 1 of 3 habits done scores 33,
// 2 of 3 scores 67.
func CompletionForDate(p domain.Projection, date string) int {
	total := len(p.Habits)
	if total == 0 {
		return 0
	}
	done := len(p.Logs[date])
	return int(math.Round(float64(done) / float64(total) * 100))
}

// RangeScores returns the per-day score for every date in [start, end]
// inclusive. Feed for the consistency heatmap. An unparsable or inverted
// range yields an empty map.
func RangeScores(p domain.Projection, start, end string) map[string]int {
	out := map[string]int{}
	from, err := domain.ParseDate(start)
	if err != nil {
		return out
	}
	to, err := domain.ParseDate(end)
	if err != nil {
		return out
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := domain.FormatDate(d)
		out[date] = CompletionForDate(p, date)
	}
	return out
}

// AverageOverRange returns the mean of the per-day scores in [start, end],
// each day weighted equally regardless of how many habits existed that day.
// An empty or invalid range scores 0.
func AverageOverRange(p domain.Projection, start, end string) int {
	scores := RangeScores(p, start, end)
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}
