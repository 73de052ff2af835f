package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// MetadataRepository persists the single university metadata record.
type MetadataRepository struct {
	db *sqlx.DB
}

// NewMetadataRepository creates a new metadata repository.
func NewMetadataRepository(db *sqlx.DB) *MetadataRepository {
	return &MetadataRepository{db: db}
}

// Get returns the metadata record. sql.ErrNoRows when unseeded.
func (r *MetadataRepository) Get(ctx context.Context) (*models.UniversityMetadata, error) {
	const query = `SELECT id, university_name, school_name, semester_code, curriculum_name, block_duration_min, day_start_time, day_end_time FROM university_metadata LIMIT 1`
	var meta models.UniversityMetadata
	if err := r.db.GetContext(ctx, &meta, query); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Save upserts the metadata record.
func (r *MetadataRepository) Save(ctx context.Context, meta *models.UniversityMetadata) error {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	const query = `INSERT INTO university_metadata (id, university_name, school_name, semester_code, curriculum_name, block_duration_min, day_start_time, day_end_time)
VALUES (:id, :university_name, :school_name, :semester_code, :curriculum_name, :block_duration_min, :day_start_time, :day_end_time)
ON CONFLICT (id) DO UPDATE SET
    university_name = EXCLUDED.university_name,
    school_name = EXCLUDED.school_name,
    semester_code = EXCLUDED.semester_code,
    curriculum_name = EXCLUDED.curriculum_name,
    block_duration_min = EXCLUDED.block_duration_min,
    day_start_time = EXCLUDED.day_start_time,
    day_end_time = EXCLUDED.day_end_time`
	if _, err := r.db.NamedExecContext(ctx, query, meta); err != nil {
		return fmt.Errorf("save university metadata: %w", err)
	}
	return nil
}
