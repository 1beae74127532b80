package remote

import (
	"context"
	"sort"
	"sync"

	"cetele-core/domain"
)

// Memory is an in-memory RecordService. It backs unit tests and lets the
// library run without a network backend.
type Memory struct {
	mu          sync.RWMutex
	habits      map[string]HabitRecord      // habit id -> record
	habitOrder  []string                    // insertion order, stands in for created_at ordering
	completions map[string]CompletionRecord // habitID+"|"+date -> record
	summaries   []DailySummary
}

func NewMemory() *Memory {
	return &Memory{
		habits:      map[string]HabitRecord{},
		completions: map[string]CompletionRecord{},
	}
}

func completionKey(habitID, date string) string {
	return habitID + "|" + date
}

// SeedSummaries replaces the daily summary rows the query methods serve.
func (m *Memory) SeedSummaries(rows []DailySummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append([]DailySummary(nil), rows...)
}

func (m *Memory) ListHabits(_ context.Context, id domain.Identity) ([]HabitRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]HabitRecord, 0, len(m.habitOrder))
	for _, hid := range m.habitOrder {
		rec := m.habits[hid]
		if rec.UserID == id.UserID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *Memory) ListCompletions(_ context.Context, id domain.Identity) ([]CompletionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.completions))
	for k := range m.completions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []CompletionRecord
	for _, k := range keys {
		rec := m.completions[k]
		if rec.UserID == id.UserID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *Memory) CreateHabit(_ context.Context, id domain.Identity, rec HabitRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.UserID = id.UserID
	if _, exists := m.habits[rec.ID]; !exists {
		m.habitOrder = append(m.habitOrder, rec.ID)
	}
	m.habits[rec.ID] = rec
	return nil
}

func (m *Memory) UpsertHabit(ctx context.Context, id domain.Identity, rec HabitRecord) error {
	return m.CreateHabit(ctx, id, rec)
}

func (m *Memory) DeleteHabit(_ context.Context, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.habits, habitID)
	for i, hid := range m.habitOrder {
		if hid == habitID {
			m.habitOrder = append(m.habitOrder[:i], m.habitOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) UpsertCompletion(_ context.Context, id domain.Identity, habitID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions[completionKey(habitID, date)] = CompletionRecord{
		HabitID:   habitID,
		UserID:    id.UserID,
		Date:      date,
		Completed: true,
	}
	return nil
}

func (m *Memory) DeleteCompletion(_ context.Context, habitID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.completions, completionKey(habitID, date))
	return nil
}

func (m *Memory) QueryDailySummaries(_ context.Context, date string) ([]DailySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []DailySummary
	for _, row := range m.summaries {
		if row.Date == date {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > dailyTopN {
		out = out[:dailyTopN]
	}
	return out, nil
}

func (m *Memory) QuerySummariesInRange(_ context.Context, start, end string) ([]DailySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []DailySummary
	for _, row := range m.summaries {
		if row.Date >= start && row.Date <= end {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *Memory) QueryAllSummaries(_ context.Context, limit int) ([]DailySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := append([]DailySummary(nil), m.summaries...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CompletionCount reports the number of stored completion rows. Test helper.
func (m *Memory) CompletionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.completions)
}
