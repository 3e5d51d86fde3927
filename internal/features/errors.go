package features

import (
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/courtside/internal/calendar"
	"github.com/yourusername/courtside/internal/gamelog"
	"github.com/yourusername/courtside/internal/models"
)

// ErrInsufficientHistory matches any InsufficientHistoryError via errors.Is
var ErrInsufficientHistory = errors.New("insufficient prior games")

// InsufficientHistoryError reports a side with no games before the matchup
type InsufficientHistoryError struct {
	Team string
	Date time.Time
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("team %s has no games before %s", e.Team, calendar.Format(e.Date))
}

// Is lets errors.Is match ErrInsufficientHistory
func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}

// Skip reasons
const (
	ReasonMissingTeam         = "missing_team"
	ReasonDateParse           = "date_parse"
	ReasonInsufficientHistory = "insufficient_history"
	ReasonInvalidMatchup      = "invalid_matchup"
	ReasonUnlabelled          = "unlabelled"
	ReasonOther               = "other"
)

// SkipReason classifies a per-matchup extraction error
func SkipReason(err error) string {
	switch {
	case errors.Is(err, gamelog.ErrMissingTeam):
		return ReasonMissingTeam
	case errors.Is(err, calendar.ErrDateParse):
		return ReasonDateParse
	case errors.Is(err, ErrInsufficientHistory):
		return ReasonInsufficientHistory
	case errors.Is(err, models.ErrSameTeam), errors.Is(err, models.ErrTeamRequired):
		return ReasonInvalidMatchup
	default:
		return ReasonOther
	}
}
