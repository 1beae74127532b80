package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"cetele-core/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	habitsResource    = "/habits"
	logsResource      = "/habit_logs"
	summariesResource = "/daily_summaries"

	dailyTopN = 10
)

// Client talks to a PostgREST-style record service: filters are query
// parameters (user_id=eq.X, date=gte.Y), upserts are POSTs with an
// on_conflict target and a merge-duplicates preference header.
//
// The client performs no transport-level retries: push failures are
// swallowed by the sync layer and query failures surface to the caller, in
// both cases without automatic retry.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a record-service client.
// baseURL points at the REST root (e.g. https://x.supabase.co/rest/v1).
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		httpClient.
			SetHeader("apikey", apiKey).
			SetHeader("Authorization", "Bearer "+apiKey)
	}

	return &Client{http: httpClient, logger: logger}
}

func (c *Client) ListHabits(ctx context.Context, id domain.Identity) ([]HabitRecord, error) {
	var records []HabitRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_id", "eq."+id.UserID).
		SetQueryParam("order", "created_at.asc").
		SetResult(&records).
		Get(habitsResource)
	if err := c.check(resp, err, "list habits"); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) ListCompletions(ctx context.Context, id domain.Identity) ([]CompletionRecord, error) {
	var records []CompletionRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_id", "eq."+id.UserID).
		SetQueryParam("select", "habit_id,date,completed").
		SetResult(&records).
		Get(logsResource)
	if err := c.check(resp, err, "list completions"); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) CreateHabit(ctx context.Context, id domain.Identity, rec HabitRecord) error {
	rec.UserID = id.UserID
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(rec).
		Post(habitsResource)
	return c.check(resp, err, "create habit")
}

func (c *Client) UpsertHabit(ctx context.Context, id domain.Identity, rec HabitRecord) error {
	rec.UserID = id.UserID
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", "id").
		SetHeader("Prefer", "resolution=merge-duplicates").
		SetBody(rec).
		Post(habitsResource)
	return c.check(resp, err, "upsert habit")
}

func (c *Client) DeleteHabit(ctx context.Context, habitID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+habitID).
		Delete(habitsResource)
	return c.check(resp, err, "delete habit")
}

func (c *Client) UpsertCompletion(ctx context.Context, id domain.Identity, habitID, date string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", "habit_id,date").
		SetHeader("Prefer", "resolution=merge-duplicates").
		SetBody(CompletionRecord{
			HabitID:   habitID,
			UserID:    id.UserID,
			Date:      date,
			Completed: true,
		}).
		Post(logsResource)
	return c.check(resp, err, "upsert completion")
}

func (c *Client) DeleteCompletion(ctx context.Context, habitID, date string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("habit_id", "eq."+habitID).
		SetQueryParam("date", "eq."+date).
		Delete(logsResource)
	return c.check(resp, err, "delete completion")
}

func (c *Client) QueryDailySummaries(ctx context.Context, date string) ([]DailySummary, error) {
	var rows []DailySummary
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", "eq."+date).
		SetQueryParam("order", "score.desc").
		SetQueryParam("limit", strconv.Itoa(dailyTopN)).
		SetResult(&rows).
		Get(summariesResource)
	if err := c.check(resp, err, "query daily summaries"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) QuerySummariesInRange(ctx context.Context, start, end string) ([]DailySummary, error) {
	var rows []DailySummary
	// Two filters on the same column, so they go through url.Values.
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(url.Values{
			"date": {"gte." + start, "lte." + end},
		}).
		SetResult(&rows).
		Get(summariesResource)
	if err := c.check(resp, err, "query summaries in range"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) QueryAllSummaries(ctx context.Context, limit int) ([]DailySummary, error) {
	var rows []DailySummary
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&rows).
		Get(summariesResource)
	if err := c.check(resp, err, "query all summaries"); err != nil {
		return nil, err
	}
	return rows, nil
}

// check folds transport errors and non-2xx responses into one error path.
func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		c.logger.Error("record service call failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if resp.IsError() {
		c.logger.Error("record service returned error status",
			zap.String("op", op),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return fmt.Errorf("failed to %s: record service returned %d", op, resp.StatusCode())
	}
	return nil
}
