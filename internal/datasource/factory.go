package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/teams"
)

// NewFromConfig builds a cached, rate-limited stats client from configuration
func NewFromConfig(cfg config.DataSourceConfig, log *logrus.Logger) (*StatsClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("data source base_url is required")
	}

	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	httpCfg.MaxRetries = cfg.MaxRetries
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}

	var rc *ResponseCache
	if cfg.CacheTTLSeconds > 0 {
		rc = NewResponseCache(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	}

	return NewStatsClient(NewRateLimitedHTTPClient(httpCfg, log), StatsClientOptions{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		SeasonType: cfg.SeasonType,
		Directory:  teams.NBA(),
		Cache:      rc,
	}, log), nil
}

// TeamsFor returns the configured team list, or every known team when empty
func TeamsFor(cfg config.DataSourceConfig) []string {
	if len(cfg.Teams) > 0 {
		return cfg.Teams
	}
	return teams.NBA().Teams()
}
