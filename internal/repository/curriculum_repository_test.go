package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

func TestCurriculumRepositoryListBySemester(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCurriculumRepository(db)

	mock.ExpectQuery(`SELECT id, course_id, year, semester FROM curricula WHERE semester`).
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "year", "semester"}).
			AddRow("cur-1", "course-1", 1, "A").
			AddRow("cur-2", "course-2", 2, "A"))

	entries, err := repo.ListBySemester(context.Background(), models.SemesterA)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Year)
	assert.Equal(t, models.SemesterA, entries[1].Semester)
}

func TestCurriculumRepositoryUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCurriculumRepository(db)

	mock.ExpectExec(`INSERT INTO curricula .+ ON CONFLICT \(course_id, semester\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.CurriculumEntry{CourseID: "course-1", Year: 1, Semester: models.SemesterA}
	require.NoError(t, repo.Upsert(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
