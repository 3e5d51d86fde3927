package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

const modelColumns = `id, name, version, season, model_type, path, metrics, hyperparameters, trained_at, active, created_at`

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

func orEmptyObject(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}

// Create inserts a new model registry entry
func (m *PostgresModelRepository) Create(ctx context.Context, model *models.Model) error {
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO models (` + modelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := m.db.Exec(ctx, query,
		model.ID, model.Name, model.Version, model.Season, model.ModelType, model.Path,
		orEmptyObject(model.Metrics), orEmptyObject(model.Hyperparameters),
		model.TrainedAt, model.Active, model.CreatedAt,
	)
	if err != nil {
		return mapWriteError("failed to create model", err)
	}
	return nil
}

// GetByID retrieves a model by ID
func (m *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE id = $1`
	model, err := scanModel(m.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return model, nil
}

// GetLatest retrieves the most recently trained model with the given name
func (m *PostgresModelRepository) GetLatest(ctx context.Context, name string) (*models.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE name = $1 ORDER BY trained_at DESC, created_at DESC LIMIT 1`
	model, err := scanModel(m.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest model: %w", err)
	}
	return model, nil
}

// SetActive sets a model as active and deactivates other versions
func (m *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	model, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return m.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE models SET active = false WHERE name = $1 AND id != $2`, model.Name, id); err != nil {
			return fmt.Errorf("failed to deactivate other versions: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE models SET active = true WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}
		return nil
	})
}

func scanModel(row pgx.Row) (*models.Model, error) {
	model := &models.Model{}
	err := row.Scan(
		&model.ID, &model.Name, &model.Version, &model.Season, &model.ModelType, &model.Path,
		&model.Metrics, &model.Hyperparameters, &model.TrainedAt, &model.Active, &model.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return model, nil
}
