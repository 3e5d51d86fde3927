package gamelog

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/models"
)

func game(team, opp string, d int, home, won bool) models.GameRecord {
	return models.GameRecord{
		Date:              time.Date(2023, time.November, d, 19, 30, 0, 0, time.UTC),
		Team:              team,
		Opponent:          opp,
		Home:              home,
		PointsFor:         110,
		FieldGoalAttempts: 88,
		FreeThrowAttempts: 22,
		OffensiveRebounds: 10,
		Turnovers:         13,
		Won:               won,
	}
}

func TestInsertSortsNewestFirstInput(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(
		game("BOS", "NY", 9, true, true),
		game("BOS", "MIA", 5, false, false),
		game("BOS", "PHI", 1, true, true),
	))

	log, err := s.Log("BOS")
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Equal(t, "PHI", log[0].Opponent)
	assert.Equal(t, "NY", log[2].Opponent)
	assert.Equal(t, 0, log[0].Date.Hour(), "dates are normalized to calendar days")
}

func TestInsertDropsDuplicates(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(game("BOS", "NY", 1, true, true)))
	require.NoError(t, s.Insert(game("BOS", "NY", 1, true, true), game("BOS", "NY", 2, false, true)))

	log, err := s.Log("BOS")
	require.NoError(t, err)
	assert.Len(t, log, 2)
	assert.Equal(t, 2, s.Len())
}

func TestInsertRejectsInvalidRecords(t *testing.T) {
	s := NewStore()

	bad := game("BOS", "BOS", 1, true, true)
	assert.Error(t, s.Insert(bad))

	negative := game("BOS", "NY", 1, true, true)
	negative.Turnovers = -1
	assert.Error(t, s.Insert(negative))

	assert.Empty(t, s.Teams())
}

func TestLogMissingTeam(t *testing.T) {
	s := NewStore()
	_, err := s.Log("SEA")
	require.Error(t, err)

	var missing *MissingTeamError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "SEA", missing.Team)
	assert.True(t, errors.Is(err, ErrMissingTeam))
}

func TestLogReturnsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(game("BOS", "NY", 1, true, true)))

	log, _ := s.Log("BOS")
	log[0].PointsFor = 0

	again, _ := s.Log("BOS")
	assert.Equal(t, 110, again[0].PointsFor)
}

func TestConcurrentReads(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(game("BOS", "NY", 1, true, true), game("NY", "BOS", 1, false, false)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Log("NY")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestDeriveMatchups(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(
		game("BOS", "NY", 3, true, true),
		game("NY", "BOS", 3, false, false),
		game("NY", "MIA", 1, true, false),
		game("MIA", "NY", 1, false, true),
	))

	matchups := s.DeriveMatchups()
	require.Len(t, matchups, 2)

	assert.Equal(t, "NY", matchups[0].HomeTeam)
	assert.Equal(t, "MIA", matchups[0].AwayTeam)
	assert.Equal(t, "2023-11-01", matchups[0].Date)
	label, ok := matchups[0].Label()
	require.True(t, ok)
	assert.Equal(t, 0, label)

	assert.Equal(t, "BOS", matchups[1].HomeTeam)
	label, _ = matchups[1].Label()
	assert.Equal(t, 1, label)
}
