package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// TimeSlotRepository persists canonical time slots. The database enforces
// uniqueness on (day_of_week, start_time, end_time).
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository creates a new time slot repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

func (r *TimeSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByTriple performs an exact-match lookup on the normalized identity
// triple. Returns sql.ErrNoRows when absent.
func (r *TimeSlotRepository) FindByTriple(ctx context.Context, exec sqlx.ExtContext, day string, start, end models.TimeOfDay) (*models.TimeSlot, error) {
	const query = `SELECT id, day_of_week, start_time, end_time, created_at FROM time_slots WHERE day_of_week = $1 AND start_time = $2 AND end_time = $3`
	var slot models.TimeSlot
	if err := sqlx.GetContext(ctx, r.queryer(exec), &slot, query, day, start, end); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a slot unless an identical triple already exists. The
// insert must stay conflict-free: a raised unique violation would abort an
// enclosing transaction and poison every statement after it. The returned
// flag reports whether this call created the row; on false the caller
// re-reads the winner via FindByTriple.
func (r *TimeSlotRepository) Create(ctx context.Context, exec sqlx.ExtContext, slot *models.TimeSlot) (bool, error) {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO time_slots (id, day_of_week, start_time, end_time, created_at) VALUES (:id, :day_of_week, :start_time, :end_time, :created_at) ON CONFLICT (day_of_week, start_time, end_time) DO NOTHING`
	result, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, slot)
	if err != nil {
		return false, fmt.Errorf("create time slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create time slot: %w", err)
	}
	return affected > 0, nil
}

// List returns every slot ordered by day then start time.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, day_of_week, start_time, end_time, created_at FROM time_slots ORDER BY day_of_week ASC, start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// FindByID loads a slot by surrogate key.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	const query = `SELECT id, day_of_week, start_time, end_time, created_at FROM time_slots WHERE id = $1`
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *TimeSlotRepository) queryer(exec sqlx.ExtContext) sqlx.QueryerContext {
	if exec != nil {
		return exec
	}
	return r.db
}
