package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/ml"
	"github.com/yourusername/courtside/internal/models"
)

// MethodChronologicalSplit labels results from Run
const MethodChronologicalSplit = "chronological_split"

// Outcome is everything a single backtest run produced
type Outcome struct {
	Result      models.BacktestResult
	Model       *ml.Model
	Report      *ml.TrainReport
	Evaluation  ml.Evaluation
	Predictions []models.Prediction
	Rows        []features.Row
	Skips       []features.Skip
	Bootstrap   *BootstrapResult
}

// Engine orchestrates backtesting runs
type Engine struct {
	config    BacktestConfig
	logs      features.LogSource
	extractor *features.Extractor
	logger    *logrus.Logger
	blog      *logger.BacktestLogger
	now       func() time.Time
}

// NewEngine creates a new backtesting engine reading game logs from logs
func NewEngine(cfg BacktestConfig, logs features.LogSource, log *logrus.Logger) (*Engine, error) {
	if logs == nil {
		return nil, fmt.Errorf("game log source is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backtest config: %w", err)
	}
	if log == nil {
		log = logrus.New()
	}

	return &Engine{
		config:    cfg,
		logs:      logs,
		extractor: features.NewExtractor(cfg.Features, log),
		logger:    log,
		blog:      logger.NewBacktestLogger(log),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Config returns the backtest configuration
func (e *Engine) Config() BacktestConfig {
	return e.config
}

// Logger returns the engine logger
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// Extract builds the labelled feature rows for matchups. Unlabelled matchups
// and matchups failing extraction are returned as skips.
func (e *Engine) Extract(ctx context.Context, matchups []models.Matchup) ([]features.Row, []features.Skip, error) {
	start := time.Now()
	batch, err := e.extractor.ExtractAll(ctx, matchups, e.logs)
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordFeatureExtraction(time.Since(start).Seconds())

	rows := make([]features.Row, 0, len(batch.Rows))
	skips := append([]features.Skip{}, batch.Skips...)
	for _, row := range batch.Rows {
		if !row.Labelled {
			skips = append(skips, features.Skip{Matchup: row.Matchup, Reason: features.ReasonUnlabelled})
			continue
		}
		rows = append(rows, row)
	}

	for _, s := range skips {
		metrics.RecordMatchupSkipped(s.Reason)
		e.blog.LogMatchupSkipped(s.Matchup.HomeTeam, s.Matchup.AwayTeam, s.Matchup.Date, s.Reason)
	}
	return rows, skips, nil
}

// Run extracts features for every matchup, splits them chronologically,
// trains on the earlier partition and scores the later one. Per-matchup
// problems are counted as skips; run-level training errors are returned as is.
func (e *Engine) Run(ctx context.Context, season string, matchups []models.Matchup) (*Outcome, error) {
	if season == "" {
		season = e.config.Season
	}
	start := time.Now()
	e.blog.LogRunStarted(season, MethodChronologicalSplit, len(matchups))

	outcome, err := e.run(ctx, season, matchups)
	if err != nil {
		metrics.RecordBacktestRun("failed", time.Since(start).Seconds())
		e.blog.LogRunFailed(season, err)
		return nil, err
	}

	metrics.RecordBacktestRun("success", time.Since(start).Seconds())
	metrics.RecordBacktestAccuracy(season, outcome.Result.Accuracy, outcome.Result.HighConfidenceAccuracy)
	r := outcome.Result
	e.blog.LogRunCompleted(season, r.Total, r.Correct, r.Skipped, r.Accuracy, r.HighConfidenceAccuracy)
	return outcome, nil
}

func (e *Engine) run(ctx context.Context, season string, matchups []models.Matchup) (*Outcome, error) {
	rows, skips, err := e.Extract(ctx, matchups)
	if err != nil {
		return nil, err
	}

	train, test, err := Split(rows, e.config.TrainFraction)
	if err != nil {
		return nil, err
	}

	fit, err := e.fit(ctx, train, test)
	if err != nil {
		return nil, err
	}

	meta := RunMeta{
		ID:         uuid.New(),
		Season:     season,
		Method:     MethodChronologicalSplit,
		Skipped:    len(skips),
		TrainCount: len(train),
		SampleSize: e.config.SampleSize,
		CreatedAt:  e.now(),
	}
	meta.StartDate, meta.TrainThrough = train[0].Date, train[len(train)-1].Date
	meta.TestFrom, meta.EndDate = test[0].Date, test[len(test)-1].Date

	outcome := &Outcome{
		Result:      BuildResult(fit.predictions, meta),
		Model:       fit.model,
		Report:      fit.report,
		Evaluation:  fit.evaluation,
		Predictions: fit.predictions,
		Rows:        append(append([]features.Row{}, train...), test...),
		Skips:       skips,
	}

	if e.config.Bootstrap.Iterations > 0 {
		bs, err := BootstrapAccuracy(ctx, fit.predictions, e.config.Bootstrap)
		if err != nil {
			return nil, fmt.Errorf("bootstrap failed: %w", err)
		}
		outcome.Bootstrap = &bs
	}
	return outcome, nil
}

type fitResult struct {
	model       *ml.Model
	report      *ml.TrainReport
	evaluation  ml.Evaluation
	predictions []models.Prediction
}

// fit trains a fresh model on train and scores test
func (e *Engine) fit(ctx context.Context, train, test []features.Row) (*fitResult, error) {
	trainer, err := ml.NewTrainer(e.config.Model, features.FeatureNames(), e.logger)
	if err != nil {
		return nil, err
	}

	Xtr, ytr := features.Matrix(train)
	Xte, yte := features.Matrix(test)
	model, report, err := trainer.Train(ctx, Xtr, ytr, Xte, yte)
	if err != nil {
		return nil, err
	}

	ev, err := ml.Evaluate(model, Xte, yte, e.config.ConfidenceThreshold)
	if err != nil {
		return nil, err
	}

	predictions := make([]models.Prediction, len(test))
	for i, row := range test {
		predictions[i] = models.Prediction{
			HomeTeam:       row.Matchup.HomeTeam,
			AwayTeam:       row.Matchup.AwayTeam,
			Date:           row.Date,
			Probability:    ev.Probabilities[i],
			Predicted:      ev.Predicted[i],
			Actual:         row.Label,
			HighConfidence: ev.HighConfidence[i],
		}
	}
	return &fitResult{model: model, report: report, evaluation: ev, predictions: predictions}, nil
}
