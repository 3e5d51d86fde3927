// Package gamelog holds per-team chronological logs of completed games.
package gamelog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/courtside/internal/calendar"
	"github.com/yourusername/courtside/internal/models"
)

// ErrMissingTeam matches any MissingTeamError via errors.Is
var ErrMissingTeam = errors.New("team has no game log")

// MissingTeamError reports a lookup for a team that was never loaded
type MissingTeamError struct {
	Team string
}

func (e *MissingTeamError) Error() string {
	return fmt.Sprintf("no game log for team %q", e.Team)
}

// Is lets errors.Is match ErrMissingTeam
func (e *MissingTeamError) Is(target error) bool {
	return target == ErrMissingTeam
}

// Store maps a team to its game log. It is filled once by an ingestion
// adapter and read concurrently by extraction workers afterwards.
type Store struct {
	mu       sync.RWMutex
	logs     map[string]models.TeamGameLog
	seen     map[string]struct{}
	validate *validator.Validate
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		logs:     make(map[string]models.TeamGameLog),
		seen:     make(map[string]struct{}),
		validate: validator.New(),
	}
}

// Insert adds records, normalizing dates to calendar days, dropping exact
// duplicates of (team, date, opponent) and keeping each log ascending.
// Records that fail validation are rejected as a whole batch.
func (s *Store) Insert(records ...models.GameRecord) error {
	for i := range records {
		if err := s.validate.Struct(records[i]); err != nil {
			return fmt.Errorf("invalid game record %d (%s): %w", i, records[i].Key(), err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[string]struct{})
	for _, r := range records {
		r.Date = calendar.Day(r.Date)
		key := r.Key()
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		s.logs[r.Team] = append(s.logs[r.Team], r)
		touched[r.Team] = struct{}{}
	}

	for team := range touched {
		log := s.logs[team]
		sort.SliceStable(log, func(i, j int) bool {
			return log[i].Date.Before(log[j].Date)
		})
	}
	return nil
}

// Log returns a copy of the team's log
func (s *Store) Log(team string) (models.TeamGameLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[team]
	if !ok {
		return nil, &MissingTeamError{Team: team}
	}
	out := make(models.TeamGameLog, len(log))
	copy(out, log)
	return out, nil
}

// Teams lists the loaded teams in sorted order
func (s *Store) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := make([]string, 0, len(s.logs))
	for team := range s.logs {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// Records returns every record in team then date order
func (s *Store) Records() []models.GameRecord {
	var out []models.GameRecord
	for _, team := range s.Teams() {
		log, _ := s.Log(team)
		out = append(out, log...)
	}
	return out
}

// Len returns the total number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
