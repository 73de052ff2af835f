package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// ProfessorRepository provides persistence for professors, their declared
// availabilities, and the courses they may teach.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository creates a new professor repository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

const professorColumns = `id, name, email, preferred_shift, created_at, updated_at`

// List returns professors ordered by id for deterministic snapshots.
func (r *ProfessorRepository) List(ctx context.Context) ([]models.Professor, error) {
	query := fmt.Sprintf(`SELECT %s FROM professors ORDER BY id ASC`, professorColumns)
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query); err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	return professors, nil
}

// FindByID loads a professor by surrogate key.
func (r *ProfessorRepository) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	query := fmt.Sprintf(`SELECT %s FROM professors WHERE id = $1`, professorColumns)
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, id); err != nil {
		return nil, err
	}
	return &professor, nil
}

// FindByEmail loads a professor by email natural key.
func (r *ProfessorRepository) FindByEmail(ctx context.Context, email string) (*models.Professor, error) {
	query := fmt.Sprintf(`SELECT %s FROM professors WHERE email = $1`, professorColumns)
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, email); err != nil {
		return nil, err
	}
	return &professor, nil
}

// Create stores a new professor.
func (r *ProfessorRepository) Create(ctx context.Context, professor *models.Professor) error {
	if professor.ID == "" {
		professor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if professor.CreatedAt.IsZero() {
		professor.CreatedAt = now
	}
	professor.UpdatedAt = now

	const query = `INSERT INTO professors (id, name, email, preferred_shift, created_at, updated_at) VALUES (:id, :name, :email, :preferred_shift, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, professor); err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}

// Update modifies a professor record.
func (r *ProfessorRepository) Update(ctx context.Context, professor *models.Professor) error {
	professor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE professors SET name = :name, email = :email, preferred_shift = :preferred_shift, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, professor); err != nil {
		return fmt.Errorf("update professor: %w", err)
	}
	return nil
}

// Delete removes a professor by id.
func (r *ProfessorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM professors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete professor: %w", err)
	}
	return nil
}

// AddAvailability declares a professor available in a time slot. The
// (professor_id, time_slot_id) pair is unique; re-adding is a no-op.
func (r *ProfessorRepository) AddAvailability(ctx context.Context, professorID, timeSlotID string) error {
	const query = `INSERT INTO professor_availability (id, professor_id, time_slot_id) VALUES ($1, $2, $3) ON CONFLICT (professor_id, time_slot_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), professorID, timeSlotID); err != nil {
		return fmt.Errorf("add professor availability: %w", err)
	}
	return nil
}

// RemoveAvailability withdraws a declared availability.
func (r *ProfessorRepository) RemoveAvailability(ctx context.Context, professorID, timeSlotID string) error {
	const query = `DELETE FROM professor_availability WHERE professor_id = $1 AND time_slot_id = $2`
	if _, err := r.db.ExecContext(ctx, query, professorID, timeSlotID); err != nil {
		return fmt.Errorf("remove professor availability: %w", err)
	}
	return nil
}

// ListAvailabilitySlots returns the time slots a professor declared,
// ordered by day then start time.
func (r *ProfessorRepository) ListAvailabilitySlots(ctx context.Context, professorID string) ([]models.TimeSlot, error) {
	const query = `SELECT ts.id, ts.day_of_week, ts.start_time, ts.end_time, ts.created_at
FROM professor_availability pa
JOIN time_slots ts ON ts.id = pa.time_slot_id
WHERE pa.professor_id = $1
ORDER BY ts.day_of_week ASC, ts.start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, professorID); err != nil {
		return nil, fmt.Errorf("list professor availability: %w", err)
	}
	return slots, nil
}

// ListTaughtCourseNames returns the names of courses a professor may
// teach, ordered for deterministic snapshots.
func (r *ProfessorRepository) ListTaughtCourseNames(ctx context.Context, professorID string) ([]string, error) {
	const query = `SELECT c.name
FROM professor_courses pc
JOIN courses c ON c.id = pc.course_id
WHERE pc.professor_id = $1
ORDER BY c.name ASC`
	var names []string
	if err := r.db.SelectContext(ctx, &names, query, professorID); err != nil {
		return nil, fmt.Errorf("list taught courses: %w", err)
	}
	return names, nil
}
