package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

const backtestResultColumns = `
	id, season, method, total, correct, accuracy,
	high_confidence_total, high_confidence_correct, high_confidence_accuracy,
	skipped, train_count, test_count, start_date, end_date, train_through, test_from,
	sample, created_at`

// PostgresBacktestResultRepository implements BacktestResultRepository for PostgreSQL
type PostgresBacktestResultRepository struct {
	db *database.DB
}

// NewPostgresBacktestResultRepository creates a new backtest result repository
func NewPostgresBacktestResultRepository(db *database.DB) BacktestResultRepository {
	return &PostgresBacktestResultRepository{db: db}
}

// SaveResult inserts a backtest result, assigning an id and timestamp when unset
func (r *PostgresBacktestResultRepository) SaveResult(ctx context.Context, result *models.BacktestResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	sample := result.Sample
	if sample == nil {
		sample = []models.Prediction{}
	}

	query := `INSERT INTO backtest_results (` + backtestResultColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	_, err := r.db.Exec(ctx, query,
		result.ID, result.Season, result.Method, result.Total, result.Correct, result.Accuracy,
		result.HighConfidenceTotal, result.HighConfidenceCorrect, result.HighConfidenceAccuracy,
		result.Skipped, result.TrainCount, result.TestCount,
		result.StartDate, result.EndDate, result.TrainThrough, result.TestFrom,
		sample, result.CreatedAt,
	)
	if err != nil {
		return mapWriteError("failed to save backtest result", err)
	}
	return nil
}

// GetByID retrieves one result
func (r *PostgresBacktestResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results WHERE id = $1`
	result, err := scanBacktestResult(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backtest result: %w", err)
	}
	return result, nil
}

// GetLatest retrieves the most recent results across seasons
func (r *PostgresBacktestResultRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results ORDER BY created_at DESC LIMIT $1`
	return r.queryResults(ctx, "failed to query latest backtest results", query, limit)
}

// GetBySeason retrieves a season's results, newest first
func (r *PostgresBacktestResultRepository) GetBySeason(ctx context.Context, season string) ([]*models.BacktestResult, error) {
	query := `SELECT ` + backtestResultColumns + ` FROM backtest_results WHERE season = $1 ORDER BY created_at DESC`
	return r.queryResults(ctx, "failed to query backtest results by season", query, season)
}

func (r *PostgresBacktestResultRepository) queryResults(ctx context.Context, errMsg, query string, args ...any) ([]*models.BacktestResult, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	defer rows.Close()

	var results []*models.BacktestResult
	for rows.Next() {
		result, err := scanBacktestResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backtest result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func scanBacktestResult(row pgx.Row) (*models.BacktestResult, error) {
	result := &models.BacktestResult{}
	err := row.Scan(
		&result.ID, &result.Season, &result.Method, &result.Total, &result.Correct, &result.Accuracy,
		&result.HighConfidenceTotal, &result.HighConfidenceCorrect, &result.HighConfidenceAccuracy,
		&result.Skipped, &result.TrainCount, &result.TestCount,
		&result.StartDate, &result.EndDate, &result.TrainThrough, &result.TestFrom,
		&result.Sample, &result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
