package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/backtest"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

const modelName = "courtside-gbm"

// withRepositories runs fn against PostgreSQL when the database is enabled
func withRepositories(ctx context.Context, fn func(*repository.Repositories) error) error {
	if !cfg.Database.Enabled {
		return nil
	}
	db, err := database.Initialize(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}
	return fn(repos)
}

func persistSummary(ctx context.Context, result models.BacktestResult) error {
	return withRepositories(ctx, func(repos *repository.Repositories) error {
		if err := repos.BacktestResult.SaveResult(ctx, &result); err != nil {
			return err
		}
		log.WithField("id", result.ID).Info("Backtest result stored")
		return nil
	})
}

// persistOutcome stores the result and, when the model was written to disk,
// registers it as the active version for the season.
func persistOutcome(ctx context.Context, outcome *backtest.Outcome, modelPath string) error {
	return withRepositories(ctx, func(repos *repository.Repositories) error {
		result := outcome.Result
		if err := repos.BacktestResult.SaveResult(ctx, &result); err != nil {
			return err
		}
		if modelPath == "" || outcome.Model == nil {
			return nil
		}

		entry, err := registryEntry(outcome, modelPath)
		if err != nil {
			return err
		}
		if err := repos.Model.Create(ctx, entry); err != nil {
			return err
		}
		if err := repos.Model.SetActive(ctx, entry.ID); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"result_id": result.ID,
			"model_id":  entry.ID,
			"version":   entry.Version,
		}).Info("Backtest result and model stored")
		return nil
	})
}

func registryEntry(outcome *backtest.Outcome, modelPath string) (*models.Model, error) {
	metrics, err := json.Marshal(map[string]any{
		"accuracy":                 outcome.Evaluation.Accuracy,
		"high_confidence_accuracy": outcome.Evaluation.HighConfidenceAccuracy,
		"log_loss":                 outcome.Evaluation.LogLoss,
		"test_count":               outcome.Evaluation.Total,
	})
	if err != nil {
		return nil, err
	}
	hyper, err := json.Marshal(outcome.Model.Params)
	if err != nil {
		return nil, err
	}

	r := outcome.Result
	return &models.Model{
		ID:              uuid.New(),
		Name:            modelName,
		Version:         r.Season + "-" + r.CreatedAt.Format("20060102T150405"),
		Season:          r.Season,
		ModelType:       "gradient_boosting",
		Path:            modelPath,
		Metrics:         metrics,
		Hyperparameters: hyper,
		TrainedAt:       r.CreatedAt,
	}, nil
}
