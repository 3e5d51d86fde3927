// Package datasource pulls team game logs from the stats provider.
package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/courtside/internal/models"
)

// TeamLogFetcher retrieves one team's completed games for a season
type TeamLogFetcher interface {
	FetchTeamLog(ctx context.Context, team, season string) ([]models.GameRecord, error)
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string
	Err     error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error code
func (e DataSourceError) Is(target error) bool {
	return codeSentinels[e.Code] == target
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknownTeam          = "unknown_team"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrUnknownTeam          = errors.New("unknown team")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

var codeSentinels = map[string]error{
	ErrCodeRateLimitExceeded:    ErrRateLimitExceeded,
	ErrCodeAuthenticationFailed: ErrAuthenticationFailed,
	ErrCodeNotFound:             ErrNotFound,
	ErrCodeInvalidData:          ErrInvalidData,
	ErrCodeNetworkError:         ErrNetworkError,
	ErrCodeServerError:          ErrServerError,
	ErrCodeUnknownTeam:          ErrUnknownTeam,
}

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
