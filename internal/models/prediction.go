package models

import "time"

// Prediction is one scored matchup from a backtest test partition
type Prediction struct {
	HomeTeam       string    `json:"home_team"`
	AwayTeam       string    `json:"away_team"`
	Date           time.Time `json:"date"`
	Probability    float64   `json:"probability" validate:"gte=0,lte=1"`
	Predicted      int       `json:"predicted"`
	Actual         int       `json:"actual"`
	HighConfidence bool      `json:"high_confidence"`
}

// Correct reports whether the predicted label matched the outcome
func (p Prediction) Correct() bool {
	return p.Predicted == p.Actual
}

// MeetsThreshold checks whether the probability is further than threshold from a coin flip
func (p Prediction) MeetsThreshold(threshold float64) bool {
	d := p.Probability - 0.5
	if d < 0 {
		d = -d
	}
	return d > threshold
}
