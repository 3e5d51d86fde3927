// Package logger provides ML-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for classifier training.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogTrainingStarted logs the shape of a training call.
func (ml *MLLogger) LogTrainingStarted(trainRows, testRows, features int, hyperparameters map[string]interface{}) {
	ml.WithFields(logrus.Fields{
		"train_rows":      trainRows,
		"test_rows":       testRows,
		"features":        features,
		"hyperparameters": hyperparameters,
	}).Debug("Model training started")
}

// LogEarlyStop logs an early stop on the monitored partition.
func (ml *MLLogger) LogEarlyStop(round, bestRound int, bestLogLoss float64) {
	ml.WithFields(logrus.Fields{
		"round":         round,
		"best_round":    bestRound,
		"best_log_loss": bestLogLoss,
	}).Debug("Early stopping triggered")
}

// LogModelTraining logs model training events.
func (ml *MLLogger) LogModelTraining(rounds int, trainingDuration float64, metrics map[string]float64, stopReason string) {
	ml.WithFields(logrus.Fields{
		"rounds":            rounds,
		"training_duration": trainingDuration,
		"metrics":           metrics,
		"stop_reason":       stopReason,
	}).Info("Model training completed")
}

// LogModelSaved logs a persisted model artifact.
func (ml *MLLogger) LogModelSaved(path string, trees int) {
	ml.WithFields(logrus.Fields{
		"path":  path,
		"trees": trees,
	}).Info("Model saved")
}
