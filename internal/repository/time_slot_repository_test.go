package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestTimeSlotRepositoryFindByTriple(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository(db)

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, day_of_week, start_time, end_time, created_at FROM time_slots WHERE`).
		WithArgs("MON", "07:00:00", "07:50:00").
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "created_at"}).
			AddRow("ts-1", "MON", "07:00:00", "07:50:00", created))

	slot, err := repo.FindByTriple(context.Background(), nil, "MON", models.TimeOfDay{Hour: 7}, models.TimeOfDay{Hour: 7, Minute: 50})
	require.NoError(t, err)
	assert.Equal(t, "ts-1", slot.ID)
	assert.Equal(t, "07:00", slot.StartTime.String())
	assert.Equal(t, "07:50", slot.EndTime.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryFindByTripleMiss(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository(db)

	mock.ExpectQuery(`SELECT id, day_of_week, start_time, end_time, created_at FROM time_slots WHERE`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByTriple(context.Background(), nil, "MON", models.TimeOfDay{Hour: 7}, models.TimeOfDay{Hour: 7, Minute: 50})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestTimeSlotRepositoryCreateAssignsIdentity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository(db)

	mock.ExpectExec(`INSERT INTO time_slots .+ ON CONFLICT \(day_of_week, start_time, end_time\) DO NOTHING`).
		WithArgs(sqlmock.AnyArg(), "MON", "07:00:00", "07:50:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	slot := &models.TimeSlot{DayOfWeek: "MON", StartTime: models.TimeOfDay{Hour: 7}, EndTime: models.TimeOfDay{Hour: 7, Minute: 50}}
	inserted, err := repo.Create(context.Background(), nil, slot)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, slot.ID)
	assert.False(t, slot.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryCreateReportsExistingTriple(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository(db)

	mock.ExpectExec(`INSERT INTO time_slots .+ ON CONFLICT \(day_of_week, start_time, end_time\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	slot := &models.TimeSlot{DayOfWeek: "MON", StartTime: models.TimeOfDay{Hour: 7}, EndTime: models.TimeOfDay{Hour: 7, Minute: 50}}
	inserted, err := repo.Create(context.Background(), nil, slot)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimeSlotRepository(db)

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, day_of_week, start_time, end_time, created_at FROM time_slots WHERE id`).
		WithArgs("ts-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "created_at"}).
			AddRow("ts-1", "FRI", "10:40:00", "11:30:00", created))

	slot, err := repo.FindByID(context.Background(), "ts-1")
	require.NoError(t, err)
	assert.Equal(t, "FRI", slot.DayOfWeek)
	assert.Equal(t, "10:40", slot.StartTime.String())
}

