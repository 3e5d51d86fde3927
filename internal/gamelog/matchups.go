package gamelog

import (
	"sort"

	"github.com/yourusername/courtside/internal/calendar"
	"github.com/yourusername/courtside/internal/models"
)

// DeriveMatchups rebuilds the labelled matchups of the loaded season from the
// home side of every game. Each game appears once, ordered by date then home team.
func (s *Store) DeriveMatchups() []models.Matchup {
	seen := make(map[string]struct{})
	var out []models.Matchup

	for _, r := range s.Records() {
		if !r.Home {
			continue
		}
		m := models.Matchup{
			HomeTeam: r.Team,
			AwayTeam: r.Opponent,
			Date:     calendar.Format(r.Date),
			HomeWon:  models.Outcome(r.Won),
		}
		if _, ok := seen[m.Key()]; ok {
			continue
		}
		seen[m.Key()] = struct{}{}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].HomeTeam < out[j].HomeTeam
	})
	return out
}
