package logger

import (
	"github.com/sirupsen/logrus"
)

// BacktestLogger provides dedicated logging for backtest runs.
type BacktestLogger struct {
	*logrus.Entry
}

// NewBacktestLogger creates a new backtest logger.
func NewBacktestLogger(baseLogger *logrus.Logger) *BacktestLogger {
	return &BacktestLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogRunStarted logs the start of a run.
func (bl *BacktestLogger) LogRunStarted(season, method string, matchups int) {
	bl.WithFields(logrus.Fields{
		"season":   season,
		"method":   method,
		"matchups": matchups,
	}).Info("Backtest run started")
}

// LogMatchupSkipped logs a matchup dropped before training.
func (bl *BacktestLogger) LogMatchupSkipped(home, away, date, reason string) {
	bl.WithFields(logrus.Fields{
		"home":   home,
		"away":   away,
		"date":   date,
		"reason": reason,
	}).Debug("Matchup skipped")
}

// LogRunCompleted logs the headline numbers of a run.
func (bl *BacktestLogger) LogRunCompleted(season string, total, correct, skipped int, accuracy, highConfidenceAccuracy float64) {
	bl.WithFields(logrus.Fields{
		"season":                   season,
		"total":                    total,
		"correct":                  correct,
		"skipped":                  skipped,
		"accuracy":                 accuracy,
		"high_confidence_accuracy": highConfidenceAccuracy,
	}).Info("Backtest run completed")
}

// LogRunFailed logs a run that ended with an error.
func (bl *BacktestLogger) LogRunFailed(season string, err error) {
	bl.WithFields(logrus.Fields{
		"season": season,
		"error":  err.Error(),
	}).Error("Backtest run failed")
}

// LogFoldCompleted logs one walk-forward fold.
func (bl *BacktestLogger) LogFoldCompleted(fold, trainRows, testRows int, accuracy float64) {
	bl.WithFields(logrus.Fields{
		"fold":       fold,
		"train_rows": trainRows,
		"test_rows":  testRows,
		"accuracy":   accuracy,
	}).Info("Walk-forward fold completed")
}

// LogFoldSkipped logs a walk-forward fold that could not be trained.
func (bl *BacktestLogger) LogFoldSkipped(fold int, reason string) {
	bl.WithFields(logrus.Fields{
		"fold":   fold,
		"reason": reason,
	}).Warn("Walk-forward fold skipped")
}
