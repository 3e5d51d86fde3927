package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/gamelog"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/teams"
)

const bostonLog = `{
  "resource": "teamgamelog",
  "resultSets": [{
    "name": "TeamGameLog",
    "headers": ["Team_ID","Game_ID","GAME_DATE","MATCHUP","WL","PTS","FGA","FTA","OREB","TOV"],
    "rowSet": [
      [1610612738,"0022300020","NOV 03, 2023","BOS @ NYK","W",114,90,20,10,12],
      [1610612738,"0022300010","NOV 01, 2023","BOS vs. GSW","L",101,85,null,9,14],
      [1610612738,"0022300005","OCT 30, 2023","BOS - ???","W",99,80,10,8,10]
    ]
  }]
}`

func testHTTPConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:               2 * time.Second,
		MaxRetries:            1,
		RetryWaitMin:          time.Millisecond,
		RetryWaitMax:          2 * time.Millisecond,
		RateLimit:             1000,
		CircuitBreakerMax:     2,
		CircuitBreakerTimeout: time.Hour,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, rc *ResponseCache) *StatsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStatsClient(NewRateLimitedHTTPClient(testHTTPConfig(), logger.Discard()), StatsClientOptions{
		BaseURL:   srv.URL,
		APIKey:    "k",
		Directory: teams.NBA(),
		Cache:     rc,
	}, logger.Discard())
}

func TestFetchTeamLogParsesResultSet(t *testing.T) {
	var gotQuery, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teamgamelog", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-api-key")
		fmt.Fprint(w, bostonLog)
	}, nil)

	records, err := client.FetchTeamLog(context.Background(), "bos", "2023-24")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "TeamID=1610612738")
	assert.Contains(t, gotQuery, "Season=2023-24")
	assert.Contains(t, gotQuery, "SeasonType=Regular+Season")
	assert.Equal(t, "k", gotKey)

	require.Len(t, records, 2, "row with unrecognized matchup is dropped")

	first := records[0]
	assert.Equal(t, time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "BOS", first.Team)
	assert.Equal(t, "GS", first.Opponent, "provider alias normalized")
	assert.True(t, first.Home)
	assert.False(t, first.Won)
	assert.Equal(t, 0, first.FreeThrowAttempts, "null reads as zero")

	second := records[1]
	assert.Equal(t, "NY", second.Opponent)
	assert.False(t, second.Home)
	assert.True(t, second.Won)
	assert.Equal(t, 114, second.PointsFor)
	assert.Equal(t, 90, second.FieldGoalAttempts)
	assert.Equal(t, 12, second.Turnovers)
}

func TestFetchTeamLogUsesCache(t *testing.T) {
	var calls atomic.Int32
	rc := NewResponseCache(time.Minute)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, bostonLog)
	}, rc)

	for i := 0; i < 3; i++ {
		records, err := client.FetchTeamLog(context.Background(), "BOS", "2023-24")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	}
	assert.Equal(t, int32(1), calls.Load())

	hits, misses, ratio := rc.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 2.0/3.0, ratio, 1e-9)

	rc.Invalidate("BOS", "2023-24")
	_, err := client.FetchTeamLog(context.Background(), "BOS", "2023-24")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCacheReturnsCopies(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	rc.Set("BOS", "2023-24", []models.GameRecord{{Team: "BOS", Opponent: "NY"}})

	got, ok := rc.Get("BOS", "2023-24")
	require.True(t, ok)
	got[0].Opponent = "XXX"

	again, _ := rc.Get("BOS", "2023-24")
	assert.Equal(t, "NY", again[0].Opponent)
	assert.Equal(t, 1, rc.ItemCount())

	rc.Clear()
	assert.Equal(t, 0, rc.ItemCount())
}

func TestFetchTeamLogErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, "", ErrAuthenticationFailed},
		{"not found", http.StatusNotFound, "", ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, "", ErrRateLimitExceeded},
		{"bad json", http.StatusOK, "{", ErrInvalidData},
		{"missing column", http.StatusOK, `{"resultSets":[{"headers":["PTS"],"rowSet":[]}]}`, ErrInvalidData},
		{"bad date", http.StatusOK, `{"resultSets":[{"headers":["GAME_DATE","MATCHUP","WL"],"rowSet":[["someday","BOS vs. NYK","W"]]}]}`, ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}, nil)
			_, err := client.FetchTeamLog(context.Background(), "BOS", "2023-24")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFetchTeamLogUnknownTeam(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, nil)
	_, err := client.FetchTeamLog(context.Background(), "XYZ", "2023-24")
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), logger.Discard())
	before := testutil.ToFloat64(metrics.CircuitBreakerTripsTotal)

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	}
	assert.True(t, client.IsOpen())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CircuitBreakerTripsTotal))

	served := calls.Load()
	_, err := client.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, served, calls.Load(), "open breaker sends nothing")
}

func TestCircuitBreakerHalfOpensAfterTimeout(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRateLimitedHTTPClient(testHTTPConfig(), logger.Discard())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	require.True(t, client.IsOpen())

	now = now.Add(2 * time.Hour)
	healthy.Store(true)
	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, client.IsOpen())
}

func TestRetryPolicy(t *testing.T) {
	policy := customRetryPolicy()
	ctx := context.Background()

	for status, want := range map[int]bool{
		http.StatusOK:                  false,
		http.StatusBadRequest:          false,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusGatewayTimeout:      true,
	} {
		retry, err := policy(ctx, &http.Response{StatusCode: status}, nil)
		assert.NoError(t, err)
		assert.Equal(t, want, retry, "status %d", status)
	}

	retry, _ := policy(ctx, nil, errors.New("connection reset"))
	assert.True(t, retry)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	retry, err := policy(cancelled, nil, errors.New("x"))
	assert.False(t, retry)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeFetcher map[string][]models.GameRecord

func (f fakeFetcher) FetchTeamLog(_ context.Context, team, _ string) ([]models.GameRecord, error) {
	records, ok := f[team]
	if !ok {
		return nil, NewDataSourceError(sourceName, ErrCodeNotFound, team, nil)
	}
	return records, nil
}

func TestLoadStoreSkipsFailedTeams(t *testing.T) {
	day := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	fetcher := fakeFetcher{
		"BOS": {{Date: day, Team: "BOS", Opponent: "NY", Home: true, PointsFor: 110, Won: true}},
		"NY":  {{Date: day, Team: "NY", Opponent: "BOS", PointsFor: 100}},
		"BAD": {{Date: day, Team: "BAD", Opponent: "BAD"}},
	}

	store, err := LoadStore(context.Background(), fetcher, []string{"BOS", "NY", "MIA", "BAD"}, "2023-24", logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, []string{"BOS", "NY"}, store.Teams())
	_, err = store.Log("MIA")
	assert.ErrorIs(t, err, gamelog.ErrMissingTeam)
}

func TestLoadStoreStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadStore(ctx, fakeFetcher{}, []string{"BOS"}, "2023-24", logger.Discard())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitMatchup(t *testing.T) {
	home, opp, ok := splitMatchup("LAL vs. BOS")
	assert.True(t, ok)
	assert.True(t, home)
	assert.Equal(t, "BOS", opp)

	home, opp, ok = splitMatchup("LAL @ GSW")
	assert.True(t, ok)
	assert.False(t, home)
	assert.Equal(t, "GSW", opp)

	_, _, ok = splitMatchup("LAL v BOS")
	assert.False(t, ok)
}
