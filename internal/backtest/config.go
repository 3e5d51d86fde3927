package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/features"
	"github.com/yourusername/courtside/internal/ml"
	"github.com/yourusername/courtside/internal/stats"
)

// BacktestConfig extends core config with backtest-specific settings
type BacktestConfig struct {
	Season              string
	TrainFraction       float64
	ConfidenceThreshold float64
	SampleSize          int
	OutputPath          string
	ExportEnabled       bool
	Features            features.Config
	Model               ml.Params
	WalkForward         WalkForwardConfig
	Bootstrap           BootstrapConfig
}

// DefaultConfig returns the stock settings for a single chronological split
func DefaultConfig() BacktestConfig {
	return BacktestConfig{
		TrainFraction:       0.75,
		ConfidenceThreshold: ml.DefaultConfidenceThreshold,
		SampleSize:          10,
		Features:            features.DefaultConfig(),
		Model:               ml.DefaultParams(),
		WalkForward: WalkForwardConfig{
			TrainSize:   400,
			TestSize:    100,
			StepSize:    100,
			MinTestSize: 30,
		},
		Bootstrap: BootstrapConfig{
			Iterations:      1000,
			ConfidenceLevel: 0.95,
			Seed:            42,
		},
	}
}

// FromConfig converts app config to backtest config
func FromConfig(cfg *config.Config) (BacktestConfig, error) {
	if cfg == nil {
		return BacktestConfig{}, fmt.Errorf("config is required")
	}

	locations := stats.DefaultLocations()
	if cfg.Features.LocationsFile != "" {
		loaded, err := stats.LoadLocations(cfg.Features.LocationsFile)
		if err != nil {
			return BacktestConfig{}, err
		}
		locations = loaded
	}

	bt := BacktestConfig{
		Season:              cfg.Backtest.Season,
		TrainFraction:       cfg.Backtest.TrainFraction,
		ConfidenceThreshold: cfg.Backtest.ConfidenceThreshold,
		SampleSize:          cfg.Backtest.SampleSize,
		OutputPath:          cfg.Backtest.OutputPath,
		ExportEnabled:       cfg.Backtest.ExportEnabled,
		Features: features.Config{
			LookbackGames: cfg.Features.LookbackGames,
			Rating: stats.RatingConfig{
				LeagueAverageOffRating: cfg.Features.LeagueAvgOffRating,
				WinRateScale:           cfg.Features.WinRateScale,
			},
			Locations: locations,
			Workers:   cfg.Features.Workers,
		},
		Model: ml.Params{
			MaxDepth:            cfg.Model.MaxDepth,
			LearningRate:        cfg.Model.LearningRate,
			Subsample:           cfg.Model.Subsample,
			ColSampleByTree:     cfg.Model.ColSampleByTree,
			MaxRounds:           cfg.Model.MaxRounds,
			EarlyStoppingRounds: cfg.Model.EarlyStoppingRounds,
			MinChildWeight:      cfg.Model.MinChildWeight,
			Lambda:              cfg.Model.Lambda,
			Seed:                cfg.Model.Seed,
			MinSamples:          cfg.Backtest.MinSamples,
			MaxDuration:         time.Duration(cfg.Model.MaxDurationSeconds) * time.Second,
		},
		WalkForward: WalkForwardConfig{
			TrainSize:   cfg.Backtest.WalkForward.TrainSize,
			TestSize:    cfg.Backtest.WalkForward.TestSize,
			StepSize:    cfg.Backtest.WalkForward.StepSize,
			MinTestSize: cfg.Backtest.WalkForward.MinTestSize,
		},
		Bootstrap: BootstrapConfig{
			Iterations:      cfg.Backtest.BootstrapIterations,
			ConfidenceLevel: cfg.Backtest.BootstrapConfidence,
			Seed:            cfg.Model.Seed,
		},
	}

	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (b BacktestConfig) Validate() error {
	if b.Season != "" && !config.ValidSeason(b.Season) {
		return fmt.Errorf("season must look like 2023-24, got %q", b.Season)
	}
	if b.TrainFraction <= 0 || b.TrainFraction >= 1 {
		return fmt.Errorf("train fraction must be between 0 and 1 exclusive")
	}
	if b.ConfidenceThreshold < 0 || b.ConfidenceThreshold >= 0.5 {
		return fmt.Errorf("confidence threshold must be in [0, 0.5)")
	}
	if b.SampleSize < 0 {
		return fmt.Errorf("sample size cannot be negative")
	}
	if b.Features.LookbackGames <= 0 {
		return fmt.Errorf("lookback games must be positive")
	}
	if b.Bootstrap.Iterations < 0 {
		return fmt.Errorf("bootstrap iterations cannot be negative")
	}
	if b.Bootstrap.Iterations > 0 && (b.Bootstrap.ConfidenceLevel <= 0 || b.Bootstrap.ConfidenceLevel >= 1) {
		return fmt.Errorf("bootstrap confidence level must be between 0 and 1 exclusive")
	}
	return b.Model.Validate()
}
