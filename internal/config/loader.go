package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix namespaces every environment override, e.g. COURTSIDE_BACKTEST_SEASON.
	EnvPrefix         = "COURTSIDE"
	defaultConfigPath = "config/config.yaml"
	configPathEnv     = EnvPrefix + "_CONFIG_PATH"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded reads the file and expands ${VAR} placeholders before viper parses it.
func readExpanded(v *viper.Viper, data []byte) error {
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := readExpanded(v, data); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables still apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := readExpanded(v, data); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "courtside")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("features.lookback_games", 10)
	v.SetDefault("features.league_avg_off_rating", 112.0)
	v.SetDefault("features.win_rate_scale", 10.0)
	v.SetDefault("features.workers", 4)

	v.SetDefault("backtest.season", "2023-24")
	v.SetDefault("backtest.train_fraction", 0.75)
	v.SetDefault("backtest.confidence_threshold", 0.15)
	v.SetDefault("backtest.min_samples", 30)
	v.SetDefault("backtest.sample_size", 10)
	v.SetDefault("backtest.output_path", "./output/backtest.json")
	v.SetDefault("backtest.export_enabled", false)
	v.SetDefault("backtest.bootstrap_iterations", 0)
	v.SetDefault("backtest.bootstrap_confidence", 0.95)
	v.SetDefault("backtest.walk_forward.train_size", 400)
	v.SetDefault("backtest.walk_forward.test_size", 100)
	v.SetDefault("backtest.walk_forward.step_size", 100)
	v.SetDefault("backtest.walk_forward.min_test_size", 30)

	v.SetDefault("model.max_depth", 4)
	v.SetDefault("model.learning_rate", 0.05)
	v.SetDefault("model.subsample", 0.8)
	v.SetDefault("model.colsample_bytree", 0.8)
	v.SetDefault("model.max_rounds", 1000)
	v.SetDefault("model.early_stopping_rounds", 50)
	v.SetDefault("model.min_child_weight", 1.0)
	v.SetDefault("model.lambda", 1.0)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.max_duration_seconds", 0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("data_source.base_url", "https://stats.nba.com/stats")
	v.SetDefault("data_source.timeout_seconds", 30)
	v.SetDefault("data_source.max_retries", 3)
	v.SetDefault("data_source.rate_limit", 1.0)
	v.SetDefault("data_source.cache_ttl_seconds", 3600)
	v.SetDefault("data_source.season_type", "Regular Season")

	v.SetDefault("snapshot.path", "./data/games.db")
	v.SetDefault("schedule.refresh_cron", "0 6 * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}

// ReloadFromEnv reloads the configuration when COURTSIDE_CONFIG_PATH points at a file.
func ReloadFromEnv(cfg *Config) error {
	envPath := os.Getenv(configPathEnv)
	if envPath == "" {
		return nil
	}
	newCfg, err := Load(envPath)
	if err != nil {
		return err
	}
	*cfg = *newCfg
	return nil
}
