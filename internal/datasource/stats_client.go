package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/calendar"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/teams"
)

const (
	sourceName        = "stats"
	homeSeparator     = " vs. "
	awaySeparator     = " @ "
	defaultSeasonType = "Regular Season"
)

// StatsClient fetches team game logs from the stats provider's teamgamelog endpoint
type StatsClient struct {
	http       *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	seasonType string
	directory  teams.Directory
	cache      *ResponseCache
	log        *logger.IngestLogger
}

// StatsClientOptions configures a StatsClient
type StatsClientOptions struct {
	BaseURL    string
	APIKey     string
	SeasonType string
	Directory  teams.Directory
	Cache      *ResponseCache
}

// NewStatsClient creates a client. A nil cache disables response caching.
func NewStatsClient(httpClient *RateLimitedHTTPClient, opts StatsClientOptions, log *logrus.Logger) *StatsClient {
	if opts.SeasonType == "" {
		opts.SeasonType = defaultSeasonType
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StatsClient{
		http:       httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		seasonType: opts.SeasonType,
		directory:  opts.Directory,
		cache:      opts.Cache,
		log:        logger.NewIngestLogger(log),
	}
}

// Close releases idle provider connections
func (c *StatsClient) Close() error {
	if c.http == nil {
		return nil
	}
	return c.http.Close()
}

type resultSet struct {
	Name    string              `json:"name"`
	Headers []string            `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

type gameLogResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

// FetchTeamLog returns the team's completed games for season, oldest first
func (c *StatsClient) FetchTeamLog(ctx context.Context, team, season string) ([]models.GameRecord, error) {
	team = c.directory.Normalize(team)
	if c.cache != nil {
		if records, ok := c.cache.Get(team, season); ok {
			c.log.LogTeamFetched(team, season, len(records), true)
			return records, nil
		}
	}

	teamID, ok := c.directory.ID(team)
	if !ok {
		return nil, NewDataSourceError(sourceName, ErrCodeUnknownTeam, fmt.Sprintf("no provider id for %q", team), nil)
	}

	q := url.Values{}
	q.Set("TeamID", strconv.Itoa(teamID))
	q.Set("Season", season)
	q.Set("SeasonType", c.seasonType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/teamgamelog?"+q.Encode(), nil)
	if err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://stats.nba.com/")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeNetworkError, "failed to fetch team log", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(sourceName, ErrCodeAuthenticationFailed, "request rejected", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(sourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(sourceName, ErrCodeNotFound, "team log not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(sourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body), nil)
	}

	var payload gameLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	records, err := c.convert(team, payload)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Set(team, season, records)
	}
	c.log.LogTeamFetched(team, season, len(records), false)
	return records, nil
}

// convert turns the first result set into game records. Rows with an
// unrecognized MATCHUP are dropped; malformed dates fail the whole log.
func (c *StatsClient) convert(team string, payload gameLogResponse) ([]models.GameRecord, error) {
	if len(payload.ResultSets) == 0 {
		return nil, nil
	}
	set := payload.ResultSets[0]
	col := make(map[string]int, len(set.Headers))
	for i, h := range set.Headers {
		col[h] = i
	}
	for _, required := range []string{"GAME_DATE", "MATCHUP", "WL"} {
		if _, ok := col[required]; !ok {
			return nil, NewDataSourceError(sourceName, ErrCodeInvalidData, "missing column "+required, nil)
		}
	}

	records := make([]models.GameRecord, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		r := rowReader{row: row, col: col}
		home, opponent, ok := splitMatchup(r.str("MATCHUP"))
		if !ok {
			continue
		}
		date, err := calendar.Parse(r.str("GAME_DATE"))
		if err != nil {
			return nil, NewDataSourceError(sourceName, ErrCodeInvalidData, "bad GAME_DATE", err)
		}
		records = append(records, models.GameRecord{
			Date:              date,
			Team:              team,
			Opponent:          c.directory.Normalize(opponent),
			Home:              home,
			PointsFor:         r.num("PTS"),
			FieldGoalAttempts: r.num("FGA"),
			FreeThrowAttempts: r.num("FTA"),
			OffensiveRebounds: r.num("OREB"),
			Turnovers:         r.num("TOV"),
			Won:               r.str("WL") == "W",
		})
	}

	// The provider lists newest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// splitMatchup parses "AAA vs. BBB" (home) and "AAA @ BBB" (away).
func splitMatchup(matchup string) (home bool, opponent string, ok bool) {
	if _, opp, found := strings.Cut(matchup, homeSeparator); found {
		return true, strings.TrimSpace(opp), opp != ""
	}
	if _, opp, found := strings.Cut(matchup, awaySeparator); found {
		return false, strings.TrimSpace(opp), opp != ""
	}
	return false, "", false
}

type rowReader struct {
	row []json.RawMessage
	col map[string]int
}

func (r rowReader) raw(name string) json.RawMessage {
	i, ok := r.col[name]
	if !ok || i >= len(r.row) {
		return nil
	}
	return r.row[i]
}

func (r rowReader) str(name string) string {
	var s string
	if err := json.Unmarshal(r.raw(name), &s); err != nil {
		return ""
	}
	return s
}

// num reads a numeric cell; null and missing cells read as zero.
func (r rowReader) num(name string) int {
	var f float64
	if err := json.Unmarshal(r.raw(name), &f); err != nil {
		return 0
	}
	return int(f)
}
