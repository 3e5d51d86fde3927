// Package repository persists backtest results and the model registry in PostgreSQL.
package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	BacktestResult BacktestResultRepository
	Model          ModelRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		BacktestResult: NewPostgresBacktestResultRepository(db),
		Model:          NewPostgresModelRepository(db),
	}, nil
}

const uniqueViolation = "23505"

// mapWriteError turns a unique constraint violation into models.ErrDuplicateKey
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, models.ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}
