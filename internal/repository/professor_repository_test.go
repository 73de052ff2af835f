package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

func TestProfessorRepositoryCreateAndFind(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfessorRepository(db)

	mock.ExpectExec(`INSERT INTO professors`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	shift := models.ShiftMorning
	professor := &models.Professor{Name: "Ada Lovelace", Email: "ada@uni.edu", PreferredShift: &shift}
	require.NoError(t, repo.Create(context.Background(), professor))
	assert.NotEmpty(t, professor.ID)

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM professors WHERE id`).
		WithArgs(professor.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "preferred_shift", "created_at", "updated_at"}).
			AddRow(professor.ID, "Ada Lovelace", "ada@uni.edu", "morning", created, created))

	found, err := repo.FindByID(context.Background(), professor.ID)
	require.NoError(t, err)
	require.NotNil(t, found.PreferredShift)
	assert.Equal(t, models.ShiftMorning, *found.PreferredShift)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorRepositoryAvailabilityRoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfessorRepository(db)

	mock.ExpectExec(`INSERT INTO professor_availability .+ ON CONFLICT \(professor_id, time_slot_id\) DO NOTHING`).
		WithArgs(sqlmock.AnyArg(), "prof-1", "ts-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.AddAvailability(context.Background(), "prof-1", "ts-1"))

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT ts\.id, ts\.day_of_week, ts\.start_time, ts\.end_time, ts\.created_at\s+FROM professor_availability pa`).
		WithArgs("prof-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "created_at"}).
			AddRow("ts-1", "MON", "07:00:00", "07:50:00", created))

	slots, err := repo.ListAvailabilitySlots(context.Background(), "prof-1")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "07:00", slots[0].StartTime.String())

	mock.ExpectExec(`DELETE FROM professor_availability`).
		WithArgs("prof-1", "ts-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RemoveAvailability(context.Background(), "prof-1", "ts-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorRepositoryListTaughtCourseNames(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfessorRepository(db)

	mock.ExpectQuery(`SELECT c\.name\s+FROM professor_courses pc`).
		WithArgs("prof-1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Algorithms").AddRow("Compilers"))

	names, err := repo.ListTaughtCourseNames(context.Background(), "prof-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Algorithms", "Compilers"}, names)
}

func TestProfessorRepositoryFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfessorRepository(db)

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM professors WHERE email`).
		WithArgs("ada@uni.edu").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "preferred_shift", "created_at", "updated_at"}).
			AddRow("prof-1", "Ada Lovelace", "ada@uni.edu", nil, created, created))

	professor, err := repo.FindByEmail(context.Background(), "ada@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, "prof-1", professor.ID)
	assert.Nil(t, professor.PreferredShift)
}

func TestProfessorRepositoryUpdateAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfessorRepository(db)

	mock.ExpectExec(`UPDATE professors SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), &models.Professor{ID: "prof-1", Name: "Ada", Email: "ada@uni.edu"}))

	mock.ExpectExec(`DELETE FROM professors WHERE id`).
		WithArgs("prof-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "prof-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
