// Package service bridges the projection store, the remote record service
// and the session layer: full reconciliation on identity change, optimistic
// per-mutation push, and leaderboard aggregation.
package service

import (
	"context"
	"errors"
	"fmt"

	"cetele-core/domain"
	"cetele-core/identity"
	"cetele-core/remote"
	"cetele-core/store"

	"go.uber.org/zap"
)

// ErrNotSignedIn is returned by MigrateGuestDataToRemote when there is no
// authenticated identity to migrate to.
var ErrNotSignedIn = errors.New("no authenticated identity")

// SyncService moves data between the projection store and the record
// service. Two regimes: guest (no identity, local data authoritative, zero
// network calls) and authenticated (remote authoritative for reads, writes
// pushed optimistically).
type SyncService struct {
	store    *store.ProjectionStore
	records  remote.RecordService
	provider identity.Provider
	logger   *zap.Logger
}

func NewSyncService(s *store.ProjectionStore, records remote.RecordService, provider identity.Provider, logger *zap.Logger) *SyncService {
	return &SyncService{
		store:    s,
		records:  records,
		provider: provider,
		logger:   logger,
	}
}

// ReconcileOnIdentityChange performs a full pull for the given identity and
// replaces the local projection wholesale. A nil identity (sign-out or
// initial guest state) is a no-op: the local projection stands as-is and is
// never cleared automatically.
//
// The pull overwrites any local-only guest data without merging. Guest edits
// made before authenticating are lost unless pushed first via
// MigrateGuestDataToRemote.
func (s *SyncService) ReconcileOnIdentityChange(ctx context.Context, id *domain.Identity) error {
	if id == nil {
		return nil
	}

	habitRecords, err := s.records.ListHabits(ctx, *id)
	if err != nil {
		return fmt.Errorf("failed to pull habits: %w", err)
	}
	completionRecords, err := s.records.ListCompletions(ctx, *id)
	if err != nil {
		return fmt.Errorf("failed to pull completions: %w", err)
	}

	habits, logs := projectRecords(habitRecords, completionRecords)
	s.store.ReplaceProjection(habits, logs)

	s.logger.Info("reconciled projection from remote",
		zap.String("user_id", id.UserID),
		zap.Int("habits", len(habits)),
		zap.Int("log_dates", len(logs)),
	)
	return nil
}

// projectRecords transforms remote records into a projection: habit records
// map 1:1, completion records with the completed flag are grouped by date,
// records without the flag are excluded.
func projectRecords(habitRecords []remote.HabitRecord, completionRecords []remote.CompletionRecord) ([]domain.Habit, domain.DailyLog) {
	habits := make([]domain.Habit, 0, len(habitRecords))
	for _, rec := range habitRecords {
		habits = append(habits, domain.Habit{
			ID:        rec.ID,
			Name:      rec.Title,
			Icon:      domain.NormalizeIcon(domain.IconTag(rec.Icon)),
			CreatedAt: rec.CreatedAt,
		})
	}

	logs := domain.DailyLog{}
	for _, rec := range completionRecords {
		if !rec.Completed {
			continue
		}
		if logs.Completed(rec.HabitID, rec.Date) {
			continue
		}
		logs[rec.Date] = append(logs[rec.Date], rec.HabitID)
	}
	return habits, logs
}

// Watch subscribes to identity changes and reconciles on each one. Pull
// failures in this background regime are logged, not surfaced. The returned
// func cancels the subscription.
func (s *SyncService) Watch(ctx context.Context) (cancel func()) {
	return s.provider.OnChange(func(id *domain.Identity) {
		if err := s.ReconcileOnIdentityChange(ctx, id); err != nil {
			s.logger.Error("reconciliation failed", zap.Error(err))
		}
	})
}

// PushHabitCreated mirrors a locally created habit to the record service.
// Guest mode is a no-op. Failures are logged and swallowed: the local
// mutation already happened, is not rolled back and is not retried. The
// divergence heals on the next full reconciliation.
func (s *SyncService) PushHabitCreated(ctx context.Context, habit domain.Habit) {
	id := s.provider.Current()
	if id == nil {
		return
	}
	err := s.records.CreateHabit(ctx, *id, remote.HabitRecord{
		ID:        habit.ID,
		Title:     habit.Name,
		Icon:      string(habit.Icon),
		CreatedAt: habit.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("push of created habit failed, local state kept",
			zap.String("habit_id", habit.ID),
			zap.Error(err),
		)
	}
}

// PushHabitRemoved mirrors a local habit removal. Same fire-and-forget
// contract as PushHabitCreated.
func (s *SyncService) PushHabitRemoved(ctx context.Context, habitID string) {
	id := s.provider.Current()
	if id == nil {
		return
	}
	if err := s.records.DeleteHabit(ctx, habitID); err != nil {
		s.logger.Warn("push of habit removal failed, local state kept",
			zap.String("habit_id", habitID),
			zap.Error(err),
		)
	}
}

// PushCompletionToggle mirrors a local toggle: an upsert when the habit is
// now completed, a delete when it is not. Fire-and-forget.
func (s *SyncService) PushCompletionToggle(ctx context.Context, habitID, date string, nowCompleted bool) {
	id := s.provider.Current()
	if id == nil {
		return
	}

	var err error
	if nowCompleted {
		err = s.records.UpsertCompletion(ctx, *id, habitID, date)
	} else {
		err = s.records.DeleteCompletion(ctx, habitID, date)
	}
	if err != nil {
		s.logger.Warn("push of completion toggle failed, local state kept",
			zap.String("habit_id", habitID),
			zap.String("date", date),
			zap.Bool("completed", nowCompleted),
			zap.Error(err),
		)
	}
}

// MigrateGuestDataToRemote bulk-pushes the entire local projection to the
// record service for the now-authenticated identity, then performs a full
// pull to re-derive the canonical projection. Push-then-pull, not merge:
// upserts win over conflicting remote rows for the same ids.
//
// This is the only path that carries guest-accumulated data into
// authenticated state. Push failures surface so the user-triggered action
// can be retried; the local projection is untouched until the final pull.
func (s *SyncService) MigrateGuestDataToRemote(ctx context.Context) error {
	id := s.provider.Current()
	if id == nil {
		return ErrNotSignedIn
	}

	snap := s.store.Snapshot()
	for _, habit := range snap.Habits {
		err := s.records.UpsertHabit(ctx, *id, remote.HabitRecord{
			ID:        habit.ID,
			Title:     habit.Name,
			Icon:      string(habit.Icon),
			CreatedAt: habit.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to migrate habit %s: %w", habit.ID, err)
		}
	}
	for date, habitIDs := range snap.Logs {
		for _, habitID := range habitIDs {
			if err := s.records.UpsertCompletion(ctx, *id, habitID, date); err != nil {
				return fmt.Errorf("failed to migrate completion %s/%s: %w", habitID, date, err)
			}
		}
	}

	s.logger.Info("migrated guest data to remote",
		zap.String("user_id", id.UserID),
		zap.Int("habits", len(snap.Habits)),
	)
	return s.ReconcileOnIdentityChange(ctx, id)
}
