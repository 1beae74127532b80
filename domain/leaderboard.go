package domain

// TimeRange selects the leaderboard aggregation window.
type TimeRange string

const (
	RangeDaily   TimeRange = "daily"    // today's pre-aggregated summaries, top 10
	RangeWeekly  TimeRange = "weekly"   // Sunday-aligned current week, client aggregated
	RangeMonthly TimeRange = "monthly"  // current calendar month, client aggregated
	RangeAllTime TimeRange = "all_time" // bounded fetch, client aggregated
)

// AnonymousUsername is substituted when a summary record has no username.
const AnonymousUsername = "Anonymous"

// LeaderboardEntry is one ranked row. Entries are ephemeral: recomputed per
// query, never persisted.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"` // 0..100
	Rank     int    `json:"rank"`  // 1-based position after sorting
}
