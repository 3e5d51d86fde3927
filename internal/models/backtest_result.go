package models

import (
	"time"

	"github.com/google/uuid"
)

// BacktestResult summarizes one backtest run. It is built once and never mutated.
type BacktestResult struct {
	ID                     uuid.UUID    `db:"id" json:"id"`
	Season                 string       `db:"season" json:"season"`
	Method                 string       `db:"method" json:"method"`
	Total                  int          `db:"total" json:"total"`
	Correct                int          `db:"correct" json:"correct"`
	Accuracy               float64      `db:"accuracy" json:"accuracy"`
	HighConfidenceTotal    int          `db:"high_confidence_total" json:"high_confidence_total"`
	HighConfidenceCorrect  int          `db:"high_confidence_correct" json:"high_confidence_correct"`
	HighConfidenceAccuracy float64      `db:"high_confidence_accuracy" json:"high_confidence_accuracy"`
	Skipped                int          `db:"skipped" json:"skipped"`
	TrainCount             int          `db:"train_count" json:"train_count"`
	TestCount              int          `db:"test_count" json:"test_count"`
	StartDate              time.Time    `db:"start_date" json:"start_date"`
	EndDate                time.Time    `db:"end_date" json:"end_date"`
	TrainThrough           time.Time    `db:"train_through" json:"train_through"`
	TestFrom               time.Time    `db:"test_from" json:"test_from"`
	Sample                 []Prediction `db:"sample" json:"sample"`
	CreatedAt              time.Time    `db:"created_at" json:"created_at"`
}

// SkipRate returns the share of matchups dropped before training
func (r *BacktestResult) SkipRate() float64 {
	considered := r.TrainCount + r.TestCount + r.Skipped
	if considered == 0 {
		return 0
	}
	return float64(r.Skipped) / float64(considered)
}
