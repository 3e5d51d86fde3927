package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/ml"
	"github.com/yourusername/courtside/internal/models"
)

// MethodWalkForward labels results from RunWalkForward
const MethodWalkForward = "walk_forward"

// WalkForwardConfig sizes the rolling windows in matchup rows
type WalkForwardConfig struct {
	TrainSize   int
	TestSize    int
	StepSize    int
	MinTestSize int
}

// Validate checks window sizes
func (c WalkForwardConfig) Validate() error {
	if c.TrainSize <= 0 || c.TestSize <= 0 {
		return fmt.Errorf("walk-forward train and test sizes must be positive")
	}
	if c.StepSize < 0 || c.MinTestSize < 0 {
		return fmt.Errorf("walk-forward step and minimum test sizes cannot be negative")
	}
	if c.MinTestSize > c.TestSize {
		return fmt.Errorf("walk-forward minimum test size exceeds test size")
	}
	return nil
}

// WalkForwardFold is one train/test window
type WalkForwardFold struct {
	Fold                   int       `json:"fold"`
	TrainFrom              time.Time `json:"train_from"`
	TrainThrough           time.Time `json:"train_through"`
	TestFrom               time.Time `json:"test_from"`
	TestThrough            time.Time `json:"test_through"`
	TrainCount             int       `json:"train_count"`
	TestCount              int       `json:"test_count"`
	Correct                int       `json:"correct"`
	Accuracy               float64   `json:"accuracy"`
	HighConfidenceAccuracy float64   `json:"high_confidence_accuracy"`
	LogLoss                float64   `json:"log_loss"`
	Skipped                bool      `json:"skipped"`
	SkipReason             string    `json:"skip_reason,omitempty"`
}

// WalkForwardResult represents walk-forward validation result
type WalkForwardResult struct {
	Season           string              `json:"season"`
	Folds            []WalkForwardFold   `json:"folds"`
	Total            int                 `json:"total"`
	Correct          int                 `json:"correct"`
	PooledAccuracy   float64             `json:"pooled_accuracy"`
	ConsistencyScore float64             `json:"consistency_score"`
	SkippedFolds     int                 `json:"skipped_folds"`
	SkippedMatchups  int                 `json:"skipped_matchups"`
	Predictions      []models.Prediction `json:"predictions"`
}

// RunWalkForward slides a training window and a strictly later test window
// over the date-sorted rows, training a fresh model per fold. Folds that fail
// with a run-level training error are recorded as skipped.
func RunWalkForward(ctx context.Context, engine *Engine, season string, matchups []models.Matchup, cfg WalkForwardConfig) (WalkForwardResult, error) {
	if engine == nil {
		return WalkForwardResult{}, fmt.Errorf("engine is required")
	}
	if err := cfg.Validate(); err != nil {
		return WalkForwardResult{}, err
	}
	if cfg.StepSize <= 0 {
		cfg.StepSize = cfg.TestSize
	}
	if cfg.MinTestSize <= 0 {
		cfg.MinTestSize = 1
	}
	if season == "" {
		season = engine.config.Season
	}
	engine.blog.LogRunStarted(season, MethodWalkForward, len(matchups))

	rows, skips, err := engine.Extract(ctx, matchups)
	if err != nil {
		return WalkForwardResult{}, err
	}
	rows = SortByDate(rows)

	result := WalkForwardResult{Season: season, SkippedMatchups: len(skips)}
	scored := 0
	for start := 0; start+cfg.TrainSize < len(rows); start += cfg.StepSize {
		if err := ctx.Err(); err != nil {
			return WalkForwardResult{}, err
		}

		// test windows never reach back into rows an earlier fold already scored
		trainEnd := start + cfg.TrainSize
		testStart := max(firstAfter(rows, trainEnd), scored)
		testEnd := testStart + cfg.TestSize
		if testEnd > len(rows) {
			testEnd = len(rows)
		}
		if testEnd-testStart < cfg.MinTestSize {
			break
		}

		train, test := rows[start:trainEnd], rows[testStart:testEnd]
		scored = testEnd
		fold := WalkForwardFold{
			Fold:         len(result.Folds) + 1,
			TrainFrom:    train[0].Date,
			TrainThrough: train[len(train)-1].Date,
			TestFrom:     test[0].Date,
			TestThrough:  test[len(test)-1].Date,
			TrainCount:   len(train),
			TestCount:    len(test),
		}

		fit, err := engine.fit(ctx, train, test)
		switch {
		case err == nil:
			fold.Correct = fit.evaluation.Correct
			fold.Accuracy = fit.evaluation.Accuracy
			fold.HighConfidenceAccuracy = fit.evaluation.HighConfidenceAccuracy
			fold.LogLoss = fit.evaluation.LogLoss
			result.Total += fit.evaluation.Total
			result.Correct += fit.evaluation.Correct
			result.Predictions = append(result.Predictions, fit.predictions...)
			engine.blog.LogFoldCompleted(fold.Fold, fold.TrainCount, fold.TestCount, fold.Accuracy)
		case errors.Is(err, ml.ErrInsufficientData), errors.Is(err, ml.ErrDegenerateLabel):
			fold.Skipped = true
			fold.SkipReason = err.Error()
			result.SkippedFolds++
			engine.blog.LogFoldSkipped(fold.Fold, fold.SkipReason)
		default:
			return WalkForwardResult{}, fmt.Errorf("fold %d: %w", fold.Fold, err)
		}
		result.Folds = append(result.Folds, fold)
	}

	if result.Total > 0 {
		result.PooledAccuracy = float64(result.Correct) / float64(result.Total)
	}
	result.ConsistencyScore = CalculateConsistency(result.Folds)
	return result, nil
}

// firstAfter returns the first index at or after from whose date is later
// than the row just before from, so a test window never shares a day with training.
func firstAfter(rows []features.Row, from int) int {
	if from == 0 || from >= len(rows) {
		return from
	}
	last := rows[from-1].Date
	i := from
	for i < len(rows) && !rows[i].Date.After(last) {
		i++
	}
	return i
}

// CalculateConsistency calculates the share of trained folds with accuracy above 0.5
func CalculateConsistency(folds []WalkForwardFold) float64 {
	trained, above := 0, 0
	for _, f := range folds {
		if f.Skipped {
			continue
		}
		trained++
		if f.Accuracy > 0.5 {
			above++
		}
	}
	if trained == 0 {
		return 0
	}
	return float64(above) / float64(trained)
}

// Summary returns the pooled figures as a BacktestResult for persistence
func (w WalkForwardResult) Summary(meta RunMeta) models.BacktestResult {
	meta.Method = MethodWalkForward
	meta.Season = w.Season
	meta.Skipped = w.SkippedMatchups
	if len(w.Folds) > 0 {
		meta.StartDate = w.Folds[0].TrainFrom
		meta.EndDate = w.Folds[len(w.Folds)-1].TestThrough
		meta.TrainThrough = w.Folds[0].TrainThrough
		meta.TestFrom = w.Folds[0].TestFrom
		meta.TrainCount = w.Folds[0].TrainCount
	}
	return BuildResult(w.Predictions, meta)
}
