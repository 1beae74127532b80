// Package remote defines the record-service boundary: the network
// collaborator that stores habit records, per-(habit,date) completion
// records, and precomputed daily summaries.
package remote

import (
	"context"
	"time"

	"cetele-core/domain"
)

// HabitRecord is the remote mirror of a habit.
type HabitRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Title     string    `json:"title"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// CompletionRecord is a remote row keyed by (habit_id, date) indicating
// whether the habit was completed that day.
type CompletionRecord struct {
	HabitID   string `json:"habit_id"`
	UserID    string `json:"user_id,omitempty"`
	Date      string `json:"date"` // 2006-01-02
	Completed bool   `json:"completed"`
}

// DailySummary is a precomputed per-user score for one date, the basis for
// leaderboard ranking. Username may be empty when the user has no profile.
type DailySummary struct {
	Username string `json:"username"`
	Date     string `json:"date"`
	Score    int    `json:"score"`
}

// RecordService is the consumed surface of the remote store. Implementations
// must keep UpsertCompletion idempotent under the (habit_id, date) key.
type RecordService interface {
	// ListHabits returns all habit records owned by the identity, ordered by
	// creation time ascending.
	ListHabits(ctx context.Context, id domain.Identity) ([]HabitRecord, error)
	// ListCompletions returns all completion records owned by the identity.
	ListCompletions(ctx context.Context, id domain.Identity) ([]CompletionRecord, error)

	CreateHabit(ctx context.Context, id domain.Identity, rec HabitRecord) error
	// UpsertHabit inserts or replaces the record under its id. Used by the
	// guest-data migration path, where the push wins over existing rows.
	UpsertHabit(ctx context.Context, id domain.Identity, rec HabitRecord) error
	DeleteHabit(ctx context.Context, habitID string) error

	// UpsertCompletion marks (habitID, date) completed. Repeated upserts for
	// the same key must not create duplicates.
	UpsertCompletion(ctx context.Context, id domain.Identity, habitID, date string) error
	DeleteCompletion(ctx context.Context, habitID, date string) error

	// QueryDailySummaries returns the server pre-aggregated summaries for one
	// date, ordered by score descending, limited to the top 10.
	QueryDailySummaries(ctx context.Context, date string) ([]DailySummary, error)
	// QuerySummariesInRange returns every per-user per-day summary whose date
	// falls within [start, end].
	QuerySummariesInRange(ctx context.Context, start, end string) ([]DailySummary, error)
	// QueryAllSummaries returns up to limit summaries across all dates.
	// Client-side aggregation over this bounded fetch backs the all-time
	// leaderboard; it holds up only while the record count stays small.
	QueryAllSummaries(ctx context.Context, limit int) ([]DailySummary, error)
}
