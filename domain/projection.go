package domain

// DailyLog maps an ISO calendar date (2006-01-02) to the ids of the habits
// completed that date. Each date's id list is duplicate-free; ids are kept in
// completion order.
type DailyLog map[string][]string

// Completed reports whether habitID is recorded as completed on date.
func (l DailyLog) Completed(habitID, date string) bool {
	for _, id := range l[date] {
		if id == habitID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing internal state.
func (l DailyLog) Clone() DailyLog {
	if l == nil {
		return DailyLog{}
	}
	out := make(DailyLog, len(l))
	for date, ids := range l {
		out[date] = append([]string(nil), ids...)
	}
	return out
}

// Projection is the local, possibly-stale copy of habits and completion logs.
// Habits and Logs are replaced together during reconciliation and mutated
// together locally; they are never updated independently.
type Projection struct {
	Habits []Habit  `json:"habits"`
	Logs   DailyLog `json:"logs"`
}

// EmptyProjection returns a projection with no habits and no logs.
func EmptyProjection() Projection {
	return Projection{Habits: []Habit{}, Logs: DailyLog{}}
}

// Clone returns a deep copy of the projection.
func (p Projection) Clone() Projection {
	return Projection{
		Habits: append([]Habit(nil), p.Habits...),
		Logs:   p.Logs.Clone(),
	}
}

// HasHabit reports whether a habit with the given id exists.
func (p Projection) HasHabit(id string) bool {
	for _, h := range p.Habits {
		if h.ID == id {
			return true
		}
	}
	return false
}
