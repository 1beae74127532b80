package service

import (
	"context"

	"cetele-core/domain"
	"cetele-core/score"
	"cetele-core/store"

	"go.uber.org/zap"
)

// HabitService is the facade the presentation layer calls. Each mutation is
// applied to the projection store first (optimistic update, observable
// immediately) and then pushed to the record service; push outcome never
// affects the returned local result.
type HabitService struct {
	store  *store.ProjectionStore
	sync   *SyncService
	logger *zap.Logger
}

func NewHabitService(s *store.ProjectionStore, sync *SyncService, logger *zap.Logger) *HabitService {
	return &HabitService{store: s, sync: sync, logger: logger}
}

// AddHabit creates a habit locally and mirrors it remotely when signed in.
// The only validation failure is an empty trimmed name.
func (s *HabitService) AddHabit(ctx context.Context, name string, icon domain.IconTag) (domain.Habit, error) {
	habit, err := s.store.AddHabit(name, icon)
	if err != nil {
		return domain.Habit{}, err
	}
	s.sync.PushHabitCreated(ctx, habit)
	return habit, nil
}

// RemoveHabit removes a habit locally (idempotent) and mirrors the removal.
func (s *HabitService) RemoveHabit(ctx context.Context, habitID string) {
	s.store.RemoveHabit(habitID)
	s.sync.PushHabitRemoved(ctx, habitID)
}

// ToggleHabit flips the habit's completion for the date and returns the new
// state. A toggle on an unknown habit id is a local no-op and is not pushed.
func (s *HabitService) ToggleHabit(ctx context.Context, habitID, date string) bool {
	completed, ok := s.store.ToggleCompletion(habitID, date)
	if !ok {
		return false
	}
	s.sync.PushCompletionToggle(ctx, habitID, date, completed)
	return completed
}

// Habits returns the habits in display order.
func (s *HabitService) Habits() []domain.Habit {
	return s.store.Habits()
}

// Snapshot returns a copy of the full projection.
func (s *HabitService) Snapshot() domain.Projection {
	return s.store.Snapshot()
}

// CompletionForDate returns the 0..100 completion score for the date.
func (s *HabitService) CompletionForDate(date string) int {
	return score.CompletionForDate(s.store.Snapshot(), date)
}

// MonthlyAverage returns the mean per-day score over the date's calendar
// month, each day weighted equally.
func (s *HabitService) MonthlyAverage(date string) int {
	day, err := domain.ParseDate(date)
	if err != nil {
		s.logger.Warn("invalid date for monthly average", zap.String("date", date))
		return 0
	}
	start := domain.FormatDate(domain.StartOfMonth(day))
	end := domain.FormatDate(domain.EndOfMonth(day))
	return score.AverageOverRange(s.store.Snapshot(), start, end)
}

// HeatmapScores returns per-day scores for the inclusive date window the
// consistency heatmap renders.
func (s *HabitService) HeatmapScores(start, end string) map[string]int {
	return score.RangeScores(s.store.Snapshot(), start, end)
}

// ClearLocalData wipes the local projection and its persisted copy. Explicit
// action only; sign-out does not trigger it.
func (s *HabitService) ClearLocalData() {
	s.store.Clear()
	s.logger.Info("cleared local projection")
}
