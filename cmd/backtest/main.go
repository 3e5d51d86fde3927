// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/backtest"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/gamelog"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/snapshot"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	season     string
	outputPath string
	live       bool

	predictHome     string
	predictAway     string
	predictDate     string
	predictModel    string
	predictRegistry bool

	log *logrus.Logger
	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&season, "season", "s", "", "Season to backtest, e.g. 2023-24 (overrides backtest.season)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Export path (overrides backtest.output_path)")
	rootCmd.PersistentFlags().BoolVar(&live, "live", false, "Fetch game logs from the stats provider instead of the snapshot")

	predictCmd.Flags().StringVar(&predictHome, "home", "", "Home team abbreviation")
	predictCmd.Flags().StringVar(&predictAway, "away", "", "Away team abbreviation")
	predictCmd.Flags().StringVar(&predictDate, "date", "", "Game date, e.g. 2024-04-16 or Apr 16, 2024")
	predictCmd.Flags().StringVar(&predictModel, "model", "", "Model file (overrides model.model_path)")
	predictCmd.Flags().BoolVar(&predictRegistry, "registry", false, "Use the latest model registered in PostgreSQL")
	_ = predictCmd.MarkFlagRequired("home")
	_ = predictCmd.MarkFlagRequired("away")
	_ = predictCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(runCmd, walkForwardCmd, featuresCmd, predictCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest head-to-head winner prediction",
	Long: `Trains a gradient boosted classifier on point-in-time matchup features and
scores it on later games of the same season, either with one chronological
split or with rolling walk-forward windows.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		loaded, err := loadConfigWithSecrets(cmd.Context(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		if season != "" {
			if !config.ValidSeason(season) {
				return fmt.Errorf("season must look like 2023-24, got %q", season)
			}
			cfg.Backtest.Season = season
		}
		if outputPath != "" {
			cfg.Backtest.OutputPath = outputPath
		}
		log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("backtest %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfigWithSecrets reads the file with defaults, overlays AWS secrets
// when enabled and validates the result.
func loadConfigWithSecrets(ctx context.Context, path string) (*config.Config, error) {
	loaded, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := config.LoadSecretsFromAWS(ctx, loaded); err != nil {
		return nil, err
	}
	if err := config.Validate(loaded); err != nil {
		return nil, err
	}
	if err := config.ValidateEnvironment(loaded); err != nil {
		return nil, err
	}
	return loaded, nil
}

// loadStore fills the game log store for the configured season, either from
// the frozen snapshot or straight from the provider with --live.
func loadStore(ctx context.Context) (*gamelog.Store, error) {
	if live {
		client, err := datasource.NewFromConfig(cfg.DataSource, log)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		return datasource.LoadStore(ctx, client, datasource.TeamsFor(cfg.DataSource), cfg.Backtest.Season, log)
	}

	snap, err := snapshot.Open(cfg.Snapshot.Path)
	if err != nil {
		return nil, err
	}
	defer snap.Close()
	return snap.LoadStore(ctx, cfg.Backtest.Season)
}

// newEngine loads the season and builds an engine over it
func newEngine(ctx context.Context) (*backtest.Engine, *gamelog.Store, error) {
	btConfig, err := backtest.FromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid backtest config: %w", err)
	}

	store, err := loadStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load game logs: %w", err)
	}
	log.WithFields(logrus.Fields{
		"season": btConfig.Season,
		"teams":  len(store.Teams()),
		"games":  store.Len(),
	}).Info("Game logs loaded")

	engine, err := backtest.NewEngine(btConfig, store, log)
	if err != nil {
		return nil, nil, err
	}
	return engine, store, nil
}
