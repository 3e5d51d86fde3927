package models

import (
	"fmt"
	"sort"
	"time"
)

// GameRecord is one team's participation in one completed game
type GameRecord struct {
	Date              time.Time `db:"game_date" json:"date" validate:"required"`
	Team              string    `db:"team" json:"team" validate:"required,nefield=Opponent"`
	Opponent          string    `db:"opponent" json:"opponent" validate:"required"`
	Home              bool      `db:"home" json:"home"`
	PointsFor         int       `db:"points_for" json:"points_for" validate:"gte=0"`
	FieldGoalAttempts int       `db:"fga" json:"fga" validate:"gte=0"`
	FreeThrowAttempts int       `db:"fta" json:"fta" validate:"gte=0"`
	OffensiveRebounds int       `db:"oreb" json:"oreb" validate:"gte=0"`
	Turnovers         int       `db:"tov" json:"tov" validate:"gte=0"`
	Won               bool      `db:"won" json:"won"`
}

// Key identifies a record within a team log
func (g GameRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s", g.Team, g.Date.Format("2006-01-02"), g.Opponent)
}

// TeamGameLog is one team's games in ascending date order
type TeamGameLog []GameRecord

// Before returns the entries dated strictly earlier than date.
// The receiver is scanned in full so an out-of-order entry can never leak through.
func (l TeamGameLog) Before(date time.Time) TeamGameLog {
	out := make(TeamGameLog, 0, len(l))
	for _, g := range l {
		if g.Date.Before(date) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// LastN returns the n most recent entries of an ascending log
func (l TeamGameLog) LastN(n int) TeamGameLog {
	if n <= 0 || len(l) == 0 {
		return TeamGameLog{}
	}
	if n > len(l) {
		n = len(l)
	}
	out := make(TeamGameLog, n)
	copy(out, l[len(l)-n:])
	return out
}

// Latest returns the most recent entry of an ascending log
func (l TeamGameLog) Latest() (GameRecord, bool) {
	if len(l) == 0 {
		return GameRecord{}, false
	}
	return l[len(l)-1], true
}
