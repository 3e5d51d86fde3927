// Package stats holds the pure derived-metric calculators used to build features.
package stats

import "github.com/yourusername/courtside/internal/models"

// FreeThrowPossessionWeight is the share of free throw attempts that end a possession
const FreeThrowPossessionWeight = 0.44

// Possessions estimates possessions as FGA + 0.44*FTA - OREB + TOV
func Possessions(fga, fta, oreb, tov int) float64 {
	return float64(fga) + FreeThrowPossessionWeight*float64(fta) - float64(oreb) + float64(tov)
}

// OffensiveRating returns points per 100 possessions, or 0 when possessions <= 0
func OffensiveRating(points int, possessions float64) float64 {
	if possessions <= 0 {
		return 0
	}
	return float64(points) / possessions * 100
}

// RatingConfig holds the constants of the net rating approximation
type RatingConfig struct {
	LeagueAverageOffRating float64 `mapstructure:"league_avg_off_rating" yaml:"league_avg_off_rating"`
	WinRateScale           float64 `mapstructure:"win_rate_scale" yaml:"win_rate_scale"`
}

// DefaultRatingConfig returns the stock league constants
func DefaultRatingConfig() RatingConfig {
	return RatingConfig{
		LeagueAverageOffRating: 112,
		WinRateScale:           10,
	}
}

// NetRating approximates net rating from offense and record, since defensive
// box scores are not collected: (avgOff - league) + (winRate - 0.5) * scale.
func (c RatingConfig) NetRating(avgOffRating, winRate float64) float64 {
	return (avgOffRating - c.LeagueAverageOffRating) + (winRate-0.5)*c.WinRateScale
}

// TeamSummary aggregates a window of games
type TeamSummary struct {
	Games        int
	AvgPoints    float64
	AvgOffRating float64
	WinRate      float64
	NetRating    float64
}

// Summarize aggregates records; the offensive rating is the mean of per-game ratings
func Summarize(records []models.GameRecord, cfg RatingConfig) TeamSummary {
	if len(records) == 0 {
		return TeamSummary{}
	}

	var points, ratings, wins float64
	for _, g := range records {
		points += float64(g.PointsFor)
		poss := Possessions(g.FieldGoalAttempts, g.FreeThrowAttempts, g.OffensiveRebounds, g.Turnovers)
		ratings += OffensiveRating(g.PointsFor, poss)
		if g.Won {
			wins++
		}
	}

	n := float64(len(records))
	s := TeamSummary{
		Games:        len(records),
		AvgPoints:    points / n,
		AvgOffRating: ratings / n,
		WinRate:      wins / n,
	}
	s.NetRating = cfg.NetRating(s.AvgOffRating, s.WinRate)
	return s
}
