// Package config provides configuration management for the Courtside backtester.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Features   FeaturesConfig   `mapstructure:"features" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// FeaturesConfig controls point-in-time feature extraction
type FeaturesConfig struct {
	LookbackGames      int     `mapstructure:"lookback_games" validate:"required,gt=0"`
	LeagueAvgOffRating float64 `mapstructure:"league_avg_off_rating" validate:"required,gt=0"`
	WinRateScale       float64 `mapstructure:"win_rate_scale" validate:"gte=0"`
	Workers            int     `mapstructure:"workers" validate:"required,gt=0,lte=64"`
	LocationsFile      string  `mapstructure:"locations_file"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	Season              string            `mapstructure:"season" validate:"required,season"`
	TrainFraction       float64           `mapstructure:"train_fraction" validate:"required,gt=0,lt=1"`
	ConfidenceThreshold float64           `mapstructure:"confidence_threshold" validate:"gte=0,lt=0.5"`
	MinSamples          int               `mapstructure:"min_samples" validate:"required,gt=0"`
	SampleSize          int               `mapstructure:"sample_size" validate:"gte=0"`
	OutputPath          string            `mapstructure:"output_path" validate:"required"`
	ExportEnabled       bool              `mapstructure:"export_enabled"`
	BootstrapIterations int               `mapstructure:"bootstrap_iterations" validate:"gte=0"`
	BootstrapConfidence float64           `mapstructure:"bootstrap_confidence" validate:"gte=0,lt=1"`
	WalkForward         WalkForwardConfig `mapstructure:"walk_forward"`
}

// WalkForwardConfig sizes rolling windows in matchup rows
type WalkForwardConfig struct {
	TrainSize   int `mapstructure:"train_size" validate:"required,gt=0"`
	TestSize    int `mapstructure:"test_size" validate:"required,gt=0"`
	StepSize    int `mapstructure:"step_size" validate:"gte=0"`
	MinTestSize int `mapstructure:"min_test_size" validate:"gte=0"`
}

// ModelConfig holds classifier hyperparameters
type ModelConfig struct {
	MaxDepth            int     `mapstructure:"max_depth" validate:"required,gt=0"`
	LearningRate        float64 `mapstructure:"learning_rate" validate:"required,gt=0,lte=1"`
	Subsample           float64 `mapstructure:"subsample" validate:"required,gt=0,lte=1"`
	ColSampleByTree     float64 `mapstructure:"colsample_bytree" validate:"required,gt=0,lte=1"`
	MaxRounds           int     `mapstructure:"max_rounds" validate:"required,gt=0"`
	EarlyStoppingRounds int     `mapstructure:"early_stopping_rounds" validate:"gte=0"`
	MinChildWeight      float64 `mapstructure:"min_child_weight" validate:"gte=0"`
	Lambda              float64 `mapstructure:"lambda" validate:"gte=0"`
	Seed                int64   `mapstructure:"seed"`
	MaxDurationSeconds  int     `mapstructure:"max_duration_seconds" validate:"gte=0"`
	ModelPath           string  `mapstructure:"model_path"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// DataSourceConfig represents the stats provider configuration
type DataSourceConfig struct {
	BaseURL         string   `mapstructure:"base_url" validate:"required,url"`
	APIKey          string   `mapstructure:"api_key"`
	TimeoutSeconds  int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries      int      `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit       float64  `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLSeconds int      `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	SeasonType      string   `mapstructure:"season_type" validate:"required"`
	Teams           []string `mapstructure:"teams"`
}

// SnapshotConfig locates the frozen game log snapshot
type SnapshotConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents snapshot refresh scheduling
type ScheduleConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SecretsConfig locates the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
