package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// WeightRepository provides persistence for optimization weights.
type WeightRepository struct {
	db *sqlx.DB
}

// NewWeightRepository creates a new weight repository.
func NewWeightRepository(db *sqlx.DB) *WeightRepository {
	return &WeightRepository{db: db}
}

// List returns all weights ordered by type then name.
func (r *WeightRepository) List(ctx context.Context) ([]models.OptimizationWeight, error) {
	const query = `SELECT id, constraint_name, constraint_type, weight_value FROM optimization_weights ORDER BY constraint_type ASC, constraint_name ASC`
	var weights []models.OptimizationWeight
	if err := r.db.SelectContext(ctx, &weights, query); err != nil {
		return nil, fmt.Errorf("list optimization weights: %w", err)
	}
	return weights, nil
}

// Upsert stores a weight keyed by constraint name.
func (r *WeightRepository) Upsert(ctx context.Context, weight *models.OptimizationWeight) error {
	if weight.ID == "" {
		weight.ID = uuid.NewString()
	}
	const query = `INSERT INTO optimization_weights (id, constraint_name, constraint_type, weight_value)
VALUES (:id, :constraint_name, :constraint_type, :weight_value)
ON CONFLICT (constraint_name) DO UPDATE SET constraint_type = EXCLUDED.constraint_type, weight_value = EXCLUDED.weight_value`
	if _, err := r.db.NamedExecContext(ctx, query, weight); err != nil {
		return fmt.Errorf("upsert optimization weight: %w", err)
	}
	return nil
}
