package yahoo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/quantdash/internal/clientdata"
	"github.com/aristath/quantdash/internal/database"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// IST sessions close at 15:30 local; timestamps are the session open in UTC
const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "^NSEI", "gmtoffset": 19800},
      "timestamp": [1704166200, 1704252600, 1704339000, 1704425400],
      "indicators": {
        "quote": [{"close": [21665.8, 21517.35, null, 21710.8]}],
        "adjclose": [{"adjclose": [21665.0, 21517.0, null, 21710.0]}]
      }
    }],
    "error": null
  }
}`

func setupCache(t *testing.T) *clientdata.Repository {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := database.SchemaFor("cache")
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	return clientdata.NewRepository(db)
}

func newTestClient(baseURL string, repo *clientdata.Repository) *Client {
	c := NewClient(baseURL, 1000, repo, zerolog.Nop())
	c.retryWait = time.Millisecond
	return c
}

var (
	rangeStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
)

func TestDailyCloses_ParsesAdjustedCloses(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON)
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	obs, err := client.DailyCloses(context.Background(), "^NSEI", rangeStart, rangeEnd)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/%5ENSEI", gotPath)
	assert.Contains(t, gotQuery, fmt.Sprintf("period1=%d", rangeStart.Unix()))
	assert.Contains(t, gotQuery, fmt.Sprintf("period2=%d", rangeEnd.AddDate(0, 0, 1).Unix()))
	assert.Contains(t, gotQuery, "interval=1d")

	require.Len(t, obs, 3, "null close skipped")
	assert.Equal(t, rangeStart, obs[0].Date)
	assert.Equal(t, 21665.0, obs[0].Value)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), obs[2].Date)
	assert.Equal(t, 21710.0, obs[2].Value)
}

func TestParseChart_FallsBackToClose(t *testing.T) {
	var resp chartResponse
	raw := `{"chart":{"result":[{"meta":{"gmtoffset":0},"timestamp":[1704182400,1704268800],
		"indicators":{"quote":[{"close":[4.1,-1]}]}}]}}`
	require.NoError(t, jsonUnmarshal(raw, &resp))

	obs, err := parseChart(&resp, "^TNX", rangeStart, rangeEnd)
	require.NoError(t, err)
	require.Len(t, obs, 1, "non-positive close skipped")
	assert.Equal(t, 4.1, obs[0].Value)
	assert.Equal(t, rangeStart, obs[0].Date)
}

func TestParseChart_APIError(t *testing.T) {
	var resp chartResponse
	require.NoError(t, jsonUnmarshal(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, &resp))

	_, err := parseChart(&resp, "^XXX", rangeStart, rangeEnd)
	assert.Error(t, err)
}

func TestDailyCloses_CacheFirst(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, chartJSON)
	}))
	defer server.Close()

	client := newTestClient(server.URL, setupCache(t))

	first, err := client.DailyCloses(context.Background(), "^NSEI", rangeStart, rangeEnd)
	require.NoError(t, err)
	second, err := client.DailyCloses(context.Background(), "^NSEI", rangeStart, rangeEnd)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, first, second)
}

func TestDailyCloses_StaleFallback(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, chartJSON)
	}))
	defer server.Close()

	now := time.Now()
	repo := setupCache(t).WithClock(func() time.Time { return now })
	client := newTestClient(server.URL, repo)

	fresh, err := client.DailyCloses(context.Background(), "^NSEI", rangeStart, rangeEnd)
	require.NoError(t, err)

	now = now.Add(2 * clientdata.TTLChart)
	fail.Store(true)

	stale, err := client.DailyCloses(context.Background(), "^NSEI", rangeStart, rangeEnd)
	require.NoError(t, err)
	assert.Equal(t, fresh, stale)
}

func TestDailyCloses_ErrorWithoutCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	_, err := client.DailyCloses(context.Background(), "^NSEI", rangeStart, rangeEnd)
	assert.Error(t, err)
	assert.Equal(t, int32(maxRetries+1), atomic.LoadInt32(&hits))
}

func TestDailyCloses_ClientErrorIsNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	_, err := client.DailyCloses(context.Background(), "^BAD", rangeStart, rangeEnd)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDailyCloses_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL, nil)
	_, err := client.DailyCloses(ctx, "^NSEI", rangeStart, rangeEnd)
	assert.Error(t, err)
}

func jsonUnmarshal(raw string, out *chartResponse) error {
	return json.Unmarshal([]byte(raw), out)
}
