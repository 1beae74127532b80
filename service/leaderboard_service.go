package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"cetele-core/domain"
	"cetele-core/remote"

	"go.uber.org/zap"
)

// allTimeFetchLimit bounds the all-time aggregation fetch. Client-side
// aggregation only works while the queried record count is small enough to
// fetch wholesale; past this ceiling the all-time tab needs a server view.
const allTimeFetchLimit = 100

// LeaderboardService produces ranked entries for a requested time range.
// Daily rankings come pre-aggregated from the record service; weekly,
// monthly and all-time are aggregated client-side from per-day summaries.
type LeaderboardService struct {
	records remote.RecordService
	logger  *zap.Logger
	now     func() time.Time
}

func NewLeaderboardService(records remote.RecordService, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{records: records, logger: logger, now: time.Now}
}

// Fetch returns the ranked entries for the range. No entries is an empty
// slice, not an error. Query failures surface to the caller and are not
// retried here; a superseded fetch is the caller's to discard
// (last-request-wins at the presentation layer).
func (s *LeaderboardService) Fetch(ctx context.Context, rng domain.TimeRange) ([]domain.LeaderboardEntry, error) {
	now := s.now()

	switch rng {
	case domain.RangeDaily:
		rows, err := s.records.QueryDailySummaries(ctx, domain.FormatDate(now))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch daily leaderboard: %w", err)
		}
		// Server already ordered by score descending and applied the top-10
		// limit; ranks follow that order.
		entries := make([]domain.LeaderboardEntry, 0, len(rows))
		for i, row := range rows {
			entries = append(entries, domain.LeaderboardEntry{
				Username: coalesceUsername(row.Username),
				Score:    row.Score,
				Rank:     i + 1,
			})
		}
		return entries, nil

	case domain.RangeWeekly:
		start := domain.FormatDate(domain.StartOfWeek(now))
		end := domain.FormatDate(domain.EndOfWeek(now))
		rows, err := s.records.QuerySummariesInRange(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch weekly leaderboard: %w", err)
		}
		return aggregate(rows), nil

	case domain.RangeMonthly:
		start := domain.FormatDate(domain.StartOfMonth(now))
		end := domain.FormatDate(domain.EndOfMonth(now))
		rows, err := s.records.QuerySummariesInRange(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch monthly leaderboard: %w", err)
		}
		return aggregate(rows), nil

	case domain.RangeAllTime:
		rows, err := s.records.QueryAllSummaries(ctx, allTimeFetchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch all-time leaderboard: %w", err)
		}
		return aggregate(rows), nil
	}

	return nil, fmt.Errorf("unknown time range %q", rng)
}

// aggregate groups per-day summaries by username and scores each user with
// the rounded mean across their returned days. Users keep first-appearance
// order through the stable sort, so tied scores stay in input order; no
// tie-break rule beyond that is guaranteed.
func aggregate(rows []remote.DailySummary) []domain.LeaderboardEntry {
	type acc struct {
		sum   int
		count int
	}
	accs := map[string]*acc{}
	var order []string
	for _, row := range rows {
		name := coalesceUsername(row.Username)
		a, seen := accs[name]
		if !seen {
			a = &acc{}
			accs[name] = a
			order = append(order, name)
		}
		a.sum += row.Score
		a.count++
	}

	entries := make([]domain.LeaderboardEntry, 0, len(order))
	for _, name := range order {
		a := accs[name]
		entries = append(entries, domain.LeaderboardEntry{
			Username: name,
			Score:    int(math.Round(float64(a.sum) / float64(a.count))),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func coalesceUsername(name string) string {
	if name == "" {
		return domain.AnonymousUsername
	}
	return name
}
