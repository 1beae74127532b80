package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cetele-core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedRequest struct {
	method string
	path   string
	query  map[string][]string
	prefer string
	body   []byte
}

// newCaptureServer records every request and replies with the given status
// and JSON body.
func newCaptureServer(t *testing.T, status int, respond any) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			prefer: r.Header.Get("Prefer"),
			body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if respond != nil {
			_ = json.NewEncoder(w).Encode(respond)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "test-key", 5*time.Second, zap.NewNop())
}

var alex = domain.Identity{UserID: "user-1", Username: "Alex"}

func TestListHabits(t *testing.T) {
	rows := []HabitRecord{
		{ID: "h1", Title: "Read", Icon: "Book", CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}
	srv, captured := newCaptureServer(t, http.StatusOK, rows)

	got, err := newTestClient(srv.URL).ListHabits(context.Background(), alex)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Read", got[0].Title)

	req := (*captured)[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/habits", req.path)
	assert.Equal(t, []string{"eq.user-1"}, req.query["user_id"])
	assert.Equal(t, []string{"created_at.asc"}, req.query["order"])
}

func TestListCompletions(t *testing.T) {
	rows := []CompletionRecord{
		{HabitID: "h1", Date: "2026-08-15", Completed: true},
	}
	srv, captured := newCaptureServer(t, http.StatusOK, rows)

	got, err := newTestClient(srv.URL).ListCompletions(context.Background(), alex)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Completed)

	req := (*captured)[0]
	assert.Equal(t, "/habit_logs", req.path)
	assert.Equal(t, []string{"eq.user-1"}, req.query["user_id"])
}

func TestUpsertCompletionIsKeyedUpsert(t *testing.T) {
	srv, captured := newCaptureServer(t, http.StatusCreated, nil)
	client := newTestClient(srv.URL)

	require.NoError(t, client.UpsertCompletion(context.Background(), alex, "h1", "2026-08-15"))
	require.NoError(t, client.UpsertCompletion(context.Background(), alex, "h1", "2026-08-15"))

	require.Len(t, *captured, 2)
	for _, req := range *captured {
		assert.Equal(t, http.MethodPost, req.method)
		assert.Equal(t, "/habit_logs", req.path)
		// Upsert keyed by (habit_id, date): repeats must merge, not duplicate.
		assert.Equal(t, []string{"habit_id,date"}, req.query["on_conflict"])
		assert.Equal(t, "resolution=merge-duplicates", req.prefer)

		var rec CompletionRecord
		require.NoError(t, json.Unmarshal(req.body, &rec))
		assert.Equal(t, "h1", rec.HabitID)
		assert.Equal(t, "2026-08-15", rec.Date)
		assert.True(t, rec.Completed)
	}
}

func TestDeleteCompletion(t *testing.T) {
	srv, captured := newCaptureServer(t, http.StatusNoContent, nil)

	require.NoError(t, newTestClient(srv.URL).DeleteCompletion(context.Background(), "h1", "2026-08-15"))

	req := (*captured)[0]
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, []string{"eq.h1"}, req.query["habit_id"])
	assert.Equal(t, []string{"eq.2026-08-15"}, req.query["date"])
}

func TestUpsertHabitSetsConflictTarget(t *testing.T) {
	srv, captured := newCaptureServer(t, http.StatusCreated, nil)

	err := newTestClient(srv.URL).UpsertHabit(context.Background(), alex, HabitRecord{ID: "h1", Title: "Read"})
	require.NoError(t, err)

	req := (*captured)[0]
	assert.Equal(t, []string{"id"}, req.query["on_conflict"])
	assert.Equal(t, "resolution=merge-duplicates", req.prefer)

	var rec HabitRecord
	require.NoError(t, json.Unmarshal(req.body, &rec))
	assert.Equal(t, "user-1", rec.UserID)
}

func TestQueryDailySummaries(t *testing.T) {
	rows := []DailySummary{{Username: "Alex", Date: "2026-08-15", Score: 80}}
	srv, captured := newCaptureServer(t, http.StatusOK, rows)

	got, err := newTestClient(srv.URL).QueryDailySummaries(context.Background(), "2026-08-15")
	require.NoError(t, err)
	require.Len(t, got, 1)

	req := (*captured)[0]
	assert.Equal(t, "/daily_summaries", req.path)
	assert.Equal(t, []string{"eq.2026-08-15"}, req.query["date"])
	assert.Equal(t, []string{"score.desc"}, req.query["order"])
	assert.Equal(t, []string{"10"}, req.query["limit"])
}

func TestQuerySummariesInRangeSendsBothBounds(t *testing.T) {
	srv, captured := newCaptureServer(t, http.StatusOK, []DailySummary{})

	_, err := newTestClient(srv.URL).QuerySummariesInRange(context.Background(), "2026-08-02", "2026-08-08")
	require.NoError(t, err)

	req := (*captured)[0]
	assert.ElementsMatch(t, []string{"gte.2026-08-02", "lte.2026-08-08"}, req.query["date"])
}

func TestErrorStatusSurfaces(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusInternalServerError, map[string]string{"message": "boom"})
	client := newTestClient(srv.URL)

	_, err := client.ListHabits(context.Background(), alex)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	err = client.DeleteHabit(context.Background(), "h1")
	require.Error(t, err)
}

func TestTransportErrorSurfaces(t *testing.T) {
	// Closed server: the transport itself fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).QueryDailySummaries(context.Background(), "2026-08-15")
	require.Error(t, err)
}
