package models

import "fmt"

// Matchup is a scheduled or historical game between two teams
type Matchup struct {
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required"`
	// Date is kept as supplied by the provider and parsed during extraction
	Date    string `json:"date" validate:"required"`
	HomeWon *bool  `json:"home_won,omitempty"`
}

// Validate checks the matchup invariants
func (m Matchup) Validate() error {
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return fmt.Errorf("matchup %q: %w", m.Key(), ErrTeamRequired)
	}
	if m.HomeTeam == m.AwayTeam {
		return fmt.Errorf("matchup %q: %w", m.Key(), ErrSameTeam)
	}
	return nil
}

// Label returns 1 when the home team won, 0 when it lost
func (m Matchup) Label() (int, bool) {
	if m.HomeWon == nil {
		return 0, false
	}
	if *m.HomeWon {
		return 1, true
	}
	return 0, true
}

// Key identifies the matchup
func (m Matchup) Key() string {
	return m.HomeTeam + "|" + m.AwayTeam + "|" + m.Date
}

// Outcome returns a pointer suitable for Matchup.HomeWon
func Outcome(homeWon bool) *bool {
	return &homeWon
}
