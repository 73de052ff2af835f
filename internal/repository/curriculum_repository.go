package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// CurriculumRepository persists course-to-year curriculum mappings.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository creates a new curriculum repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// ListBySemester returns curriculum entries for a term ordered by year then
// course id.
func (r *CurriculumRepository) ListBySemester(ctx context.Context, semester models.Semester) ([]models.CurriculumEntry, error) {
	const query = `SELECT id, course_id, year, semester FROM curricula WHERE semester = $1 ORDER BY year ASC, course_id ASC`
	var entries []models.CurriculumEntry
	if err := r.db.SelectContext(ctx, &entries, query, semester); err != nil {
		return nil, fmt.Errorf("list curricula by semester: %w", err)
	}
	return entries, nil
}

// Upsert stores a curriculum entry keyed by (course_id, semester).
func (r *CurriculumRepository) Upsert(ctx context.Context, entry *models.CurriculumEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	const query = `INSERT INTO curricula (id, course_id, year, semester)
VALUES (:id, :course_id, :year, :semester)
ON CONFLICT (course_id, semester) DO UPDATE SET year = EXCLUDED.year`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("upsert curriculum entry: %w", err)
	}
	return nil
}
