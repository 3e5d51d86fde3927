package backtest

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/gamelog"
	"github.com/yourusername/courtside/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var rank = map[string]int{"AAA": 0, "BBB": 1, "CCC": 2}

// cycle is six games in which every team hosts every other team once
var cycle = [][2]string{
	{"AAA", "BBB"}, {"BBB", "CCC"}, {"CCC", "AAA"},
	{"BBB", "AAA"}, {"CCC", "BBB"}, {"AAA", "CCC"},
}

// syntheticSeason plays the cycle `repeats` times, one game a day from
// 2023-11-01. AAA beats everyone and BBB beats CCC; winners score 110, losers 100.
func syntheticSeason(t *testing.T, repeats int) (*gamelog.Store, []models.Matchup) {
	t.Helper()
	store := gamelog.NewStore()
	day := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

	for r := 0; r < repeats; r++ {
		for _, g := range cycle {
			home, away := g[0], g[1]
			homeWon := rank[home] < rank[away]
			require.NoError(t, store.Insert(
				syntheticRecord(home, away, day, true, homeWon),
				syntheticRecord(away, home, day, false, !homeWon),
			))
			day = day.AddDate(0, 0, 1)
		}
	}
	return store, store.DeriveMatchups()
}

func syntheticRecord(team, opp string, date time.Time, home, won bool) models.GameRecord {
	points := 100
	if won {
		points = 110
	}
	return models.GameRecord{
		Date:              date,
		Team:              team,
		Opponent:          opp,
		Home:              home,
		PointsFor:         points,
		FieldGoalAttempts: 85,
		FreeThrowAttempts: 20,
		OffensiveRebounds: 10,
		Turnovers:         14,
		Won:               won,
	}
}

var leagueRank = map[string]int{"AAA": 0, "BBB": 1, "CCC": 2, "DDD": 3, "EEE": 4, "FFF": 5}

// rounds pair six teams so each plays once a day and every pair meets once per five days
var rounds = [][3][2]string{
	{{"AAA", "BBB"}, {"CCC", "DDD"}, {"EEE", "FFF"}},
	{{"AAA", "CCC"}, {"BBB", "EEE"}, {"DDD", "FFF"}},
	{{"AAA", "DDD"}, {"BBB", "FFF"}, {"CCC", "EEE"}},
	{{"AAA", "EEE"}, {"BBB", "DDD"}, {"CCC", "FFF"}},
	{{"AAA", "FFF"}, {"BBB", "CCC"}, {"DDD", "EEE"}},
}

// crowdedSeason plays three games a day for `days` days from 2023-11-01,
// swapping home court every five days. The better ranked side always wins.
func crowdedSeason(t *testing.T, days int) (*gamelog.Store, []models.Matchup) {
	t.Helper()
	store := gamelog.NewStore()
	start := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for _, g := range rounds[d%len(rounds)] {
			home, away := g[0], g[1]
			if (d/len(rounds))%2 == 1 {
				home, away = away, home
			}
			homeWon := leagueRank[home] < leagueRank[away]
			require.NoError(t, store.Insert(
				syntheticRecord(home, away, day, true, homeWon),
				syntheticRecord(away, home, day, false, !homeWon),
			))
		}
	}
	return store, store.DeriveMatchups()
}

// goldenConfig trains on tiny partitions without row or column sampling
func goldenConfig() BacktestConfig {
	cfg := DefaultConfig()
	cfg.Season = "2023-24"
	cfg.Model.MinSamples = 4
	cfg.Model.Subsample = 1
	cfg.Model.ColSampleByTree = 1
	cfg.Bootstrap.Iterations = 200
	return cfg
}

// sampledConfig is goldenConfig with the stock row and column sampling
func sampledConfig() BacktestConfig {
	cfg := goldenConfig()
	cfg.Model.Subsample = 0.8
	cfg.Model.ColSampleByTree = 0.8
	return cfg
}
