package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// CourseRepository provides persistence for courses, their prerequisite
// edges, and the professor many-to-many join.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, code, name, credits, theory_hours, practice_hours, lab_hours, student_count, classroom_type, year, semester, created_at, updated_at`

// FindByCode loads a course by its natural key, with prerequisites and
// professor ids attached.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE code = $1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListBySemester returns courses for a term ordered by code, each with
// prerequisites and professor ids attached.
func (r *CourseRepository) ListBySemester(ctx context.Context, semester models.Semester) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE semester = $1 ORDER BY code ASC`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, semester); err != nil {
		return nil, fmt.Errorf("list courses by semester: %w", err)
	}
	for i := range courses {
		if err := r.attachRelations(ctx, &courses[i]); err != nil {
			return nil, err
		}
	}
	return courses, nil
}

// Create stores a course along with its prerequisite edges.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, code, name, credits, theory_hours, practice_hours, lab_hours, student_count, classroom_type, year, semester, created_at, updated_at)
VALUES (:id, :code, :name, :credits, :theory_hours, :practice_hours, :lab_hours, :student_count, :classroom_type, :year, :semester, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	for _, code := range course.Prerequisites {
		prereq := models.CoursePrerequisite{ID: uuid.NewString(), CourseID: course.ID, PrerequisiteCode: code}
		if _, err := r.db.NamedExecContext(ctx, `INSERT INTO course_prerequisites (id, course_id, prerequisite_code) VALUES (:id, :course_id, :prerequisite_code)`, &prereq); err != nil {
			return fmt.Errorf("create course prerequisite: %w", err)
		}
	}
	return nil
}

// AssignProfessor links a professor to a course (idempotent).
func (r *CourseRepository) AssignProfessor(ctx context.Context, courseID, professorID string) error {
	const query = `INSERT INTO professor_courses (professor_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, professorID, courseID); err != nil {
		return fmt.Errorf("assign professor to course: %w", err)
	}
	return nil
}

func (r *CourseRepository) attachRelations(ctx context.Context, course *models.Course) error {
	const prereqQuery = `SELECT prerequisite_code FROM course_prerequisites WHERE course_id = $1 ORDER BY prerequisite_code ASC`
	if err := r.db.SelectContext(ctx, &course.Prerequisites, prereqQuery, course.ID); err != nil {
		return fmt.Errorf("list course prerequisites: %w", err)
	}
	const profQuery = `SELECT professor_id FROM professor_courses WHERE course_id = $1 ORDER BY professor_id ASC`
	if err := r.db.SelectContext(ctx, &course.ProfessorIDs, profQuery, course.ID); err != nil {
		return fmt.Errorf("list course professors: %w", err)
	}
	return nil
}
