package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/courtside/internal/models"
)

// BacktestResultRepository defines the interface for backtest result persistence
type BacktestResultRepository interface {
	SaveResult(ctx context.Context, result *models.BacktestResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestResult, error)
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error)
	GetBySeason(ctx context.Context, season string) ([]*models.BacktestResult, error)
}

// ModelRepository defines the interface for the trained model registry
type ModelRepository interface {
	Create(ctx context.Context, model *models.Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error)
	GetLatest(ctx context.Context, name string) (*models.Model, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}
