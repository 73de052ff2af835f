package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acad-scheduler/timetable-api/internal/models"
	"github.com/acad-scheduler/timetable-api/internal/repository"
)

type slotStoreStub struct {
	findResults    []*models.TimeSlot
	findCalls      int
	createErr      error
	createConflict bool
	created        []models.TimeSlot
}

func (s *slotStoreStub) FindByTriple(ctx context.Context, exec sqlx.ExtContext, day string, start, end models.TimeOfDay) (*models.TimeSlot, error) {
	defer func() { s.findCalls++ }()
	if s.findCalls < len(s.findResults) {
		if slot := s.findResults[s.findCalls]; slot != nil {
			return slot, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *slotStoreStub) Create(ctx context.Context, exec sqlx.ExtContext, slot *models.TimeSlot) (bool, error) {
	if s.createErr != nil {
		return false, s.createErr
	}
	if s.createConflict {
		return false, nil
	}
	slot.ID = "slot-created"
	s.created = append(s.created, *slot)
	return true, nil
}

func TestNormalizeTripleCollapsesEquivalentForms(t *testing.T) {
	day, start, end, err := NormalizeTriple("lun", "1970-01-01T07:00:00.000Z", "07:50:00")
	require.NoError(t, err)
	assert.Equal(t, models.DayMonday, day)
	assert.Equal(t, "07:00", start.String())
	assert.Equal(t, "07:50", end.String())
}

func TestNormalizeTripleRejectsInvertedRange(t *testing.T) {
	_, _, _, err := NormalizeTriple("MON", "08:00", "07:00")
	assert.Error(t, err)

	_, _, _, err = NormalizeTriple("MON", "08:00", "08:00")
	assert.Error(t, err)
}

func TestTimeSlotServiceResolveMissReturnsNil(t *testing.T) {
	svc := NewTimeSlotService(&slotStoreStub{}, zap.NewNop())

	slot, err := svc.Resolve(context.Background(), nil, "MON", "07:00", "07:50")
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestTimeSlotServiceCanonicalizeCreatesOnFirstReference(t *testing.T) {
	store := &slotStoreStub{}
	svc := NewTimeSlotService(store, zap.NewNop())

	slot, err := svc.Canonicalize(context.Background(), nil, "monday", "07:00:00", "07:50:00")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "slot-created", slot.ID)
	require.Len(t, store.created, 1)
	assert.Equal(t, models.DayMonday, store.created[0].DayOfWeek)
	assert.Equal(t, "07:00", store.created[0].StartTime.String())
}

func TestTimeSlotServiceCanonicalizeIsIdempotent(t *testing.T) {
	existing := &models.TimeSlot{ID: "slot-1", DayOfWeek: models.DayMonday, StartTime: models.TimeOfDay{Hour: 7}, EndTime: models.TimeOfDay{Hour: 7, Minute: 50}}
	store := &slotStoreStub{findResults: []*models.TimeSlot{existing, existing}}
	svc := NewTimeSlotService(store, zap.NewNop())

	first, err := svc.Canonicalize(context.Background(), nil, "MON", "07:00", "07:50")
	require.NoError(t, err)
	second, err := svc.Canonicalize(context.Background(), nil, "LUN", "1970-01-01T07:00:00.000Z", "1970-01-01T07:50:00.000Z")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, store.created)
}

func TestTimeSlotServiceCanonicalizeRecoversFromInsertRace(t *testing.T) {
	winner := &models.TimeSlot{ID: "slot-winner", DayOfWeek: models.DayMonday, StartTime: models.TimeOfDay{Hour: 7}, EndTime: models.TimeOfDay{Hour: 7, Minute: 50}}
	store := &slotStoreStub{
		findResults:    []*models.TimeSlot{nil, winner},
		createConflict: true,
	}
	svc := NewTimeSlotService(store, zap.NewNop())

	slot, err := svc.Canonicalize(context.Background(), nil, "MON", "07:00", "07:50")
	require.NoError(t, err)
	assert.Equal(t, "slot-winner", slot.ID)
	assert.Empty(t, store.created)
}

func TestTimeSlotServiceCanonicalizeLostRaceKeepsTransactionUsable(t *testing.T) {
	provider, mock := newTxProviderMock(t)
	repo := repository.NewTimeSlotRepository(provider.db)
	svc := NewTimeSlotService(repo, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, day_of_week, start_time, end_time, created_at FROM time_slots WHERE`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO time_slots .+ ON CONFLICT \(day_of_week, start_time, end_time\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, day_of_week, start_time, end_time, created_at FROM time_slots WHERE`).
		WithArgs("MON", "07:00:00", "07:50:00").
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time", "end_time", "created_at"}).
			AddRow("slot-winner", "MON", "07:00:00", "07:50:00", time.Now()))
	mock.ExpectExec(`UPDATE schedules SET student_count`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := provider.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	slot, err := svc.Canonicalize(context.Background(), tx, "MON", "07:00", "07:50")
	require.NoError(t, err)
	assert.Equal(t, "slot-winner", slot.ID)

	_, err = tx.ExecContext(context.Background(), `UPDATE schedules SET student_count = $1 WHERE id = $2`, 30, "sched-1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotServiceCanonicalizeRejectsUnknownDay(t *testing.T) {
	svc := NewTimeSlotService(&slotStoreStub{}, zap.NewNop())

	_, err := svc.Canonicalize(context.Background(), nil, "FUNDAY", "07:00", "07:50")
	assert.Error(t, err)
}
