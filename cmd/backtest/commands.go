package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/backtest"
	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/ml"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train on the earlier part of the season and score the rest",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		engine, store, err := newEngine(ctx)
		if err != nil {
			return err
		}

		outcome, err := engine.Run(ctx, cfg.Backtest.Season, store.DeriveMatchups())
		if err != nil {
			return fmt.Errorf("backtest failed: %w", err)
		}

		fmt.Println(backtest.GenerateConsoleReport(outcome.Result))
		if outcome.Bootstrap != nil {
			bs := outcome.Bootstrap
			fmt.Printf("Bootstrap accuracy: %.2f%% [%.2f%%, %.2f%%] at %.0f%% over %d resamples\n",
				bs.MeanAccuracy*100, bs.Lower*100, bs.Upper*100, bs.ConfidenceLevel*100, bs.Iterations)
		}

		if cfg.Backtest.ExportEnabled {
			if err := exportOutcome(outcome); err != nil {
				return err
			}
		}

		modelPath := cfg.Model.ModelPath
		if modelPath != "" && outcome.Model != nil {
			if err := ml.SaveModel(modelPath, outcome.Model); err != nil {
				return err
			}
			logger.NewMLLogger(log).LogModelSaved(modelPath, len(outcome.Model.Trees))
		}

		return persistOutcome(ctx, outcome, modelPath)
	},
}

var walkForwardCmd = &cobra.Command{
	Use:   "walk-forward",
	Short: "Score rolling train and test windows across the season",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		engine, store, err := newEngine(ctx)
		if err != nil {
			return err
		}

		wf := engine.Config().WalkForward
		result, err := backtest.RunWalkForward(ctx, engine, cfg.Backtest.Season, store.DeriveMatchups(), wf)
		if err != nil {
			return fmt.Errorf("walk-forward failed: %w", err)
		}

		summary := result.Summary(backtest.RunMeta{
			ID:         uuid.New(),
			SampleSize: cfg.Backtest.SampleSize,
			CreatedAt:  time.Now().UTC(),
		})
		fmt.Println(backtest.GenerateConsoleReport(summary))
		fmt.Println(walkForwardTable(result))

		log.WithFields(logrus.Fields{
			"folds":       len(result.Folds),
			"consistency": result.ConsistencyScore,
			"pooled":      result.PooledAccuracy,
		}).Info("Walk-forward completed")

		if cfg.Backtest.ExportEnabled {
			exp := backtest.Export{
				Result:       summary,
				FeatureNames: features.FeatureNames(),
				WalkForward:  &result,
				Predictions:  result.Predictions,
			}
			if err := writeExports(exp, summary.Method); err != nil {
				return err
			}
		}

		return persistSummary(ctx, summary)
	},
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Dump the point-in-time feature rows of the season as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		engine, store, err := newEngine(ctx)
		if err != nil {
			return err
		}

		rows, skips, err := engine.Extract(ctx, store.DeriveMatchups())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			FeatureNames []string        `json:"feature_names"`
			Rows         []features.Row  `json:"rows"`
			Skips        []features.Skip `json:"skips"`
		}{features.FeatureNames(), rows, skips})
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a scheduled matchup with a saved model",
	Long: `Loads a model saved by "run" and scores the given matchup from the game
history before its date. The model comes from --model, then model.model_path,
or with --registry from the latest version registered in PostgreSQL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, err := resolveModelPath(ctx)
		if err != nil {
			return err
		}
		model, err := ml.LoadModel(path)
		if err != nil {
			return err
		}

		engine, _, err := newEngine(ctx)
		if err != nil {
			return err
		}

		matchup := models.Matchup{HomeTeam: predictHome, AwayTeam: predictAway, Date: predictDate}
		forecasts, skips, err := engine.Predict(ctx, model, []models.Matchup{matchup})
		if err != nil {
			return fmt.Errorf("prediction failed: %w", err)
		}
		if len(skips) > 0 {
			return fmt.Errorf("cannot score %s vs %s on %s: %s", predictHome, predictAway, predictDate, skips[0].Reason)
		}
		for _, f := range forecasts {
			fmt.Println(forecastLine(f))
		}
		return nil
	},
}

// resolveModelPath picks the model file from the flag, the config, or the registry
func resolveModelPath(ctx context.Context) (string, error) {
	if predictModel != "" {
		return predictModel, nil
	}
	if !predictRegistry {
		if cfg.Model.ModelPath == "" {
			return "", fmt.Errorf("no model: pass --model, set model.model_path or use --registry")
		}
		return cfg.Model.ModelPath, nil
	}
	if !cfg.Database.Enabled {
		return "", fmt.Errorf("--registry needs database.enabled")
	}

	var path string
	err := withRepositories(ctx, func(repos *repository.Repositories) error {
		entry, err := repos.Model.GetLatest(ctx, modelName)
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", modelName, err)
		}
		log.WithFields(logrus.Fields{"version": entry.Version, "path": entry.Path}).Info("Using registered model")
		path = entry.Path
		return nil
	})
	return path, err
}

func forecastLine(f backtest.Forecast) string {
	confidence := ""
	if f.HighConfidence {
		confidence = " (high confidence)"
	}
	return fmt.Sprintf("%s vs %s on %s: p(home)=%.3f winner=%s%s",
		f.HomeTeam, f.AwayTeam, f.Date.Format("2006-01-02"), f.Probability, f.Winner, confidence)
}

func exportOutcome(outcome *backtest.Outcome) error {
	return writeExports(backtest.NewExport(outcome), outcome.Result.Method)
}

// writeExports writes the JSON artifact at output_path and a metrics CSV beside it
func writeExports(exp backtest.Export, method string) error {
	jsonPath := exportPath(cfg.Backtest.OutputPath, method, ".json")
	if err := backtest.ExportToJSON(exp, jsonPath); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	csvPath := exportPath(cfg.Backtest.OutputPath, method, ".csv")
	if err := backtest.GenerateCSVExport(exp.Result, csvPath); err != nil {
		return fmt.Errorf("failed to export metrics: %w", err)
	}
	log.WithFields(logrus.Fields{"json": jsonPath, "csv": csvPath}).Info("Results exported")
	return nil
}

// exportPath derives <base>_<method><ext> from the configured output path
func exportPath(base, method, ext string) string {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_" + method + ext
}

func walkForwardTable(result backtest.WalkForwardResult) string {
	var b strings.Builder
	b.WriteString("Fold  Train  Test  Accuracy  Test window\n")
	for _, f := range result.Folds {
		if f.Skipped {
			b.WriteString(fmt.Sprintf("%4d  %5d  %4d  skipped   %s\n", f.Fold, f.TrainCount, f.TestCount, f.SkipReason))
			continue
		}
		b.WriteString(fmt.Sprintf("%4d  %5d  %4d  %7.2f%%  %s to %s\n",
			f.Fold, f.TrainCount, f.TestCount, f.Accuracy*100,
			f.TestFrom.Format("2006-01-02"), f.TestThrough.Format("2006-01-02")))
	}
	b.WriteString(fmt.Sprintf("Consistency: %.2f", result.ConsistencyScore))
	return b.String()
}
