package stats

import (
	"time"

	"github.com/yourusername/courtside/internal/calendar"
	"github.com/yourusername/courtside/internal/models"
)

// DaysRest returns days since the team's last game strictly before date
func DaysRest(log models.TeamGameLog, date time.Time) (int, bool) {
	last, ok := log.Before(date).Latest()
	if !ok {
		return 0, false
	}
	return calendar.DaysBetween(last.Date, date), true
}

// RestDifferential returns home rest minus away rest in days; positive favours
// the home side. ok is false when either side has no prior game.
func RestDifferential(home, away models.TeamGameLog, date time.Time) (float64, bool) {
	homeRest, ok := DaysRest(home, date)
	if !ok {
		return 0, false
	}
	awayRest, ok := DaysRest(away, date)
	if !ok {
		return 0, false
	}
	return float64(homeRest - awayRest), true
}
