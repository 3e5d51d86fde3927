package backtest

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/ml"
	"github.com/yourusername/courtside/internal/models"
)

// Forecast is a scored matchup that may not have been played yet
type Forecast struct {
	HomeTeam       string                 `json:"home_team"`
	AwayTeam       string                 `json:"away_team"`
	Date           time.Time              `json:"date"`
	Probability    float64                `json:"probability"`
	Predicted      int                    `json:"predicted"`
	Winner         string                 `json:"winner"`
	HighConfidence bool                   `json:"high_confidence"`
	Features       features.FeatureVector `json:"features"`
}

// CheckModelFeatures fails unless the model was trained on the columns the
// extractor produces, in the same order.
func CheckModelFeatures(model *ml.Model) error {
	if model == nil {
		return fmt.Errorf("model is required")
	}
	if want := features.FeatureNames(); !slices.Equal(model.FeatureNames, want) {
		return fmt.Errorf("%w: model columns %v, extractor columns %v", ml.ErrFeatureMismatch, model.FeatureNames, want)
	}
	return nil
}

// Predict scores matchups with a trained model using the same point-in-time
// extraction as training. Results are ignored, so scheduled games are scored
// from the history before their date; matchups that cannot be extracted are skipped.
func (e *Engine) Predict(ctx context.Context, model *ml.Model, matchups []models.Matchup) ([]Forecast, []features.Skip, error) {
	if err := CheckModelFeatures(model); err != nil {
		return nil, nil, err
	}

	batch, err := e.extractor.ExtractAll(ctx, matchups, e.logs)
	if err != nil {
		return nil, nil, err
	}
	for _, s := range batch.Skips {
		metrics.RecordMatchupSkipped(s.Reason)
		e.blog.LogMatchupSkipped(s.Matchup.HomeTeam, s.Matchup.AwayTeam, s.Matchup.Date, s.Reason)
	}
	if len(batch.Rows) == 0 {
		return nil, batch.Skips, nil
	}

	X, _ := features.Matrix(batch.Rows)
	probs, err := model.Predict(X)
	if err != nil {
		return nil, nil, err
	}

	forecasts := make([]Forecast, len(batch.Rows))
	for i, row := range batch.Rows {
		f := Forecast{
			HomeTeam:    row.Matchup.HomeTeam,
			AwayTeam:    row.Matchup.AwayTeam,
			Date:        row.Date,
			Probability: probs[i],
			Winner:      row.Matchup.AwayTeam,
			Features:    row.Vector,
		}
		if probs[i] > 0.5 {
			f.Predicted = 1
			f.Winner = row.Matchup.HomeTeam
		}
		f.HighConfidence = models.Prediction{Probability: probs[i]}.MeetsThreshold(e.config.ConfidenceThreshold)
		forecasts[i] = f
	}

	e.logger.WithFields(logrus.Fields{
		"scored":  len(forecasts),
		"skipped": len(batch.Skips),
		"trees":   len(model.Trees),
	}).Info("Matchups scored")
	return forecasts, batch.Skips, nil
}
