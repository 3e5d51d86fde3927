// Package main provides the entry point for the game log ingestion service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/health"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/scheduler"
	"github.com/yourusername/courtside/internal/service"
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
	runNow     bool

	log *logrus.Logger
	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&season, "season", "s", "", "Season to ingest, e.g. 2023-24 (overrides backtest.season)")
	serveCmd.Flags().BoolVar(&runNow, "run-now", false, "Refresh once at startup before waiting for the schedule")

	rootCmd.AddCommand(fetchCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:          "ingest",
	Short:        "Refresh the game log snapshot from the stats provider",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.LoadSecretsFromAWS(cmd.Context(), loaded); err != nil {
			return err
		}
		if err := config.Validate(loaded); err != nil {
			return err
		}
		if err := config.ValidateEnvironment(loaded); err != nil {
			return err
		}
		if season != "" {
			if !config.ValidSeason(season) {
				return fmt.Errorf("season must look like 2023-24, got %q", season)
			}
			loaded.Backtest.Season = season
		}
		cfg = loaded
		log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
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

// pipeline is everything a refresh needs
type pipeline struct {
	client  *datasource.StatsClient
	snap    *snapshot.Snapshot
	service *service.IngestionService
}

func newPipeline() (*pipeline, error) {
	client, err := datasource.NewFromConfig(cfg.DataSource, log)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Open(cfg.Snapshot.Path)
	if err != nil {
		client.Close()
		return nil, err
	}
	svc := service.NewIngestionService(client, snap, datasource.TeamsFor(cfg.DataSource), log)
	return &pipeline{client: client, snap: snap, service: svc}, nil
}

func (p *pipeline) Close() {
	if err := p.snap.Close(); err != nil {
		log.WithError(err).Warn("Failed to close snapshot")
	}
	p.client.Close()
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch every team's game log once and replace the season in the snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		report, err := p.service.RefreshSeason(cmd.Context(), cfg.Backtest.Season)
		fmt.Println(report)
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Refresh the snapshot on schedule.refresh_cron and serve health and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.Schedule.RefreshCron == "" {
			return fmt.Errorf("schedule.refresh_cron is required to serve")
		}

		p, err := newPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		checks := map[string]health.Checker{
			"snapshot": health.CheckerFunc(func(ctx context.Context) error {
				seasons, err := p.snap.Seasons(ctx)
				if err != nil {
					return err
				}
				if !slices.Contains(seasons, cfg.Backtest.Season) {
					return fmt.Errorf("season %s not ingested yet", cfg.Backtest.Season)
				}
				return nil
			}),
		}
		if cfg.Database.Enabled {
			db, err := database.NewDB(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()
			checks["database"] = db
		}

		srvCfg := health.Config{
			ServiceName: cfg.App.Name + "-ingest",
			Version:     Version,
			Commit:      GitCommit,
			Port:        cfg.Metrics.Port,
			Logger:      log,
			Checks:      checks,
		}
		if cfg.Metrics.Enabled {
			srvCfg.MetricsPath = cfg.Metrics.Path
			srvCfg.MetricsHandler = metrics.Handler()
		}
		srv := health.NewServer(srvCfg)
		if err := srv.Start(ctx); err != nil {
			return err
		}

		sched := scheduler.NewScheduler(p.service, log)
		if _, err := sched.ScheduleRefresh(cfg.Schedule.RefreshCron, cfg.Backtest.Season); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		if runNow {
			sched.RunNow(cfg.Backtest.Season)
		}
		srv.SetReady(true)

		log.WithFields(logrus.Fields{
			"season":   cfg.Backtest.Season,
			"cron":     cfg.Schedule.RefreshCron,
			"next_run": sched.GetNextRun(),
			"addr":     srv.Addr(),
		}).Info("Ingestion service started")

		<-ctx.Done()
		srv.SetReady(false)
		log.Info("Shutting down ingestion service")
		if err := sched.Stop(); err != nil {
			log.WithError(err).Warn("Scheduler did not stop cleanly")
		}
		return srv.Shutdown()
	},
}
