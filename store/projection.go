package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"cetele-core/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectionKey is the namespaced key the serialized projection lives under.
const ProjectionKey = "cetele:projection"

// ErrEmptyName is returned by AddHabit when the trimmed name is empty.
var ErrEmptyName = errors.New("habit name is empty")

// ProjectionStore is the sole owner of the local projection. All reads and
// writes to habits and logs go through it. Every mutation is written through
// to the KV backend; a write failure is logged and does not roll back the
// mutation (durability of the medium is not this component's guarantee).
type ProjectionStore struct {
	mu     sync.RWMutex
	habits []domain.Habit
	logs   domain.DailyLog

	kv     KV
	logger *zap.Logger
	now    func() time.Time
}

// NewProjectionStore creates the store and hydrates it from the KV backend.
// A missing key yields an empty projection; a corrupt value is logged and
// discarded rather than failing startup.
func NewProjectionStore(kv KV, logger *zap.Logger) *ProjectionStore {
	s := &ProjectionStore{
		habits: []domain.Habit{},
		logs:   domain.DailyLog{},
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
	s.hydrate()
	return s
}

func (s *ProjectionStore) hydrate() {
	raw, err := s.kv.Get(context.Background(), ProjectionKey)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			s.logger.Warn("failed to read persisted projection, starting empty", zap.Error(err))
		}
		return
	}

	var p domain.Projection
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("persisted projection is corrupt, starting empty", zap.Error(err))
		return
	}
	if p.Habits == nil {
		p.Habits = []domain.Habit{}
	}
	if p.Logs == nil {
		p.Logs = domain.DailyLog{}
	}
	s.habits = p.Habits
	s.logs = p.Logs
}

// persistLocked serializes the current projection and writes it through.
// Callers must hold the write lock.
func (s *ProjectionStore) persistLocked() {
	raw, err := json.Marshal(domain.Projection{Habits: s.habits, Logs: s.logs})
	if err != nil {
		s.logger.Warn("failed to serialize projection", zap.Error(err))
		return
	}
	if err := s.kv.Set(context.Background(), ProjectionKey, string(raw)); err != nil {
		s.logger.Warn("failed to persist projection", zap.Error(err))
	}
}

// AddHabit validates the name, generates a unique id and appends the habit.
// Insertion order is significant: it is the display and iteration order.
// Duplicate names are allowed.
func (s *ProjectionStore) AddHabit(name string, icon domain.IconTag) (domain.Habit, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		return domain.Habit{}, ErrEmptyName
	}

	habit := domain.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      domain.NormalizeIcon(icon),
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = append(s.habits, habit)
	s.persistLocked()
	return habit, nil
}

// RemoveHabit removes the habit and strips its id from every log entry,
// restoring the dangling-reference invariant for that id. Removing an
// unknown id is a no-op.
func (s *ProjectionStore) RemoveHabit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, h := range s.habits {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.habits = append(s.habits[:idx], s.habits[idx+1:]...)

	for date, ids := range s.logs {
		kept := ids[:0]
		for _, hid := range ids {
			if hid != id {
				kept = append(kept, hid)
			}
		}
		if len(kept) == 0 {
			delete(s.logs, date)
		} else {
			s.logs[date] = kept
		}
	}
	s.persistLocked()
}

// ToggleCompletion flips membership of habitID in the date's log entry and
// returns the new membership state. ok is false when habitID does not
// reference an existing habit; the toggle is then a no-op and state is
// untouched.
func (s *ProjectionStore) ToggleCompletion(habitID, date string) (completed bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists := false
	for _, h := range s.habits {
		if h.ID == habitID {
			exists = true
			break
		}
	}
	if !exists {
		s.logger.Warn("toggle for unknown habit ignored", zap.String("habit_id", habitID), zap.String("date", date))
		return false, false
	}

	ids := s.logs[date]
	for i, id := range ids {
		if id == habitID {
			ids = append(ids[:i], ids[i+1:]...)
			if len(ids) == 0 {
				delete(s.logs, date)
			} else {
				s.logs[date] = ids
			}
			s.persistLocked()
			return false, true
		}
	}
	s.logs[date] = append(ids, habitID)
	s.persistLocked()
	return true, true
}

// ReplaceProjection atomically swaps both habits and logs. Used only by the
// synchronization pull path; readers never observe a half-replaced state.
func (s *ProjectionStore) ReplaceProjection(habits []domain.Habit, logs domain.DailyLog) {
	if habits == nil {
		habits = []domain.Habit{}
	}
	if logs == nil {
		logs = domain.DailyLog{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = habits
	s.logs = logs
	s.persistLocked()
}

// Snapshot returns a deep copy of the current projection.
func (s *ProjectionStore) Snapshot() domain.Projection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Projection{Habits: s.habits, Logs: s.logs}.Clone()
}

// Habits returns the habits in insertion order.
func (s *ProjectionStore) Habits() []domain.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Habit(nil), s.habits...)
}

// Clear wipes the projection and deletes the persisted key. This is the
// explicit "clear local data" action; nothing calls it automatically.
func (s *ProjectionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = []domain.Habit{}
	s.logs = domain.DailyLog{}
	if err := s.kv.Delete(context.Background(), ProjectionKey); err != nil {
		s.logger.Warn("failed to delete persisted projection", zap.Error(err))
	}
}
