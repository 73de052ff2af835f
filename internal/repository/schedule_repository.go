package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// ScheduleRepository persists reconciled schedule rows.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a schedule row, optionally inside an existing transaction.
func (r *ScheduleRepository) Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schedules (id, course_id, professor_id, classroom_id, time_slot_id, student_count, semester, year, created_at)
VALUES (:id, :course_id, :professor_id, :classroom_id, :time_slot_id, :student_count, :semester, :year, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// ListBySemester returns schedules for a term ordered by time slot identity.
func (r *ScheduleRepository) ListBySemester(ctx context.Context, semester models.Semester) ([]models.Schedule, error) {
	const query = `SELECT s.id, s.course_id, s.professor_id, s.classroom_id, s.time_slot_id, s.student_count, s.semester, s.year, s.created_at
FROM schedules s
JOIN time_slots ts ON ts.id = s.time_slot_id
WHERE s.semester = $1
ORDER BY ts.day_of_week ASC, ts.start_time ASC, s.course_id ASC`
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, semester); err != nil {
		return nil, fmt.Errorf("list schedules by semester: %w", err)
	}
	return schedules, nil
}

// DeleteBySemester clears a term's schedules before a fresh reconciliation.
// Callers relying on idempotent re-runs invoke this first.
func (r *ScheduleRepository) DeleteBySemester(ctx context.Context, semester models.Semester) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE semester = $1`, semester)
	if err != nil {
		return 0, fmt.Errorf("delete schedules by semester: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}
