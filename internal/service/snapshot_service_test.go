package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acad-scheduler/timetable-api/internal/models"
	appErrors "github.com/acad-scheduler/timetable-api/pkg/errors"
)

type metadataReaderStub struct {
	meta *models.UniversityMetadata
	err  error
}

func (s metadataReaderStub) Get(ctx context.Context) (*models.UniversityMetadata, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.meta, nil
}

type timeSlotListerStub struct {
	slots []models.TimeSlot
	err   error
	calls int
}

func (s *timeSlotListerStub) List(ctx context.Context) ([]models.TimeSlot, error) {
	s.calls++
	return s.slots, s.err
}

type classroomListerStub struct {
	rooms []models.Classroom
}

func (s classroomListerStub) List(ctx context.Context) ([]models.Classroom, error) {
	return s.rooms, nil
}

type professorReaderStub struct {
	professors   []models.Professor
	availability map[string][]models.TimeSlot
	courseNames  map[string][]string
}

func (s professorReaderStub) List(ctx context.Context) ([]models.Professor, error) {
	return s.professors, nil
}

func (s professorReaderStub) ListAvailabilitySlots(ctx context.Context, professorID string) ([]models.TimeSlot, error) {
	return s.availability[professorID], nil
}

func (s professorReaderStub) ListTaughtCourseNames(ctx context.Context, professorID string) ([]string, error) {
	return s.courseNames[professorID], nil
}

type courseListerStub struct {
	courses []models.Course
	err     error
}

func (s courseListerStub) ListBySemester(ctx context.Context, semester models.Semester) ([]models.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.courses, nil
}

type curriculumListerStub struct {
	entries []models.CurriculumEntry
}

func (s curriculumListerStub) ListBySemester(ctx context.Context, semester models.Semester) ([]models.CurriculumEntry, error) {
	return s.entries, nil
}

type weightListerStub struct {
	weights []models.OptimizationWeight
}

func (s weightListerStub) List(ctx context.Context) ([]models.OptimizationWeight, error) {
	return s.weights, nil
}

type cacheStub struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func newCacheStub() *cacheStub {
	return &cacheStub{entries: make(map[string][]byte)}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets++
	return nil
}

func (c *cacheStub) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	c.deletes++
	return nil
}

type snapshotFixture struct {
	slots *timeSlotListerStub
	cache *cacheStub
}

func newSnapshotFixture(t *testing.T, cache *cacheStub) (*SnapshotService, *snapshotFixture) {
	t.Helper()
	shift := models.ShiftMorning
	slots := &timeSlotListerStub{slots: []models.TimeSlot{
		{ID: "ts-2", DayOfWeek: models.DayTuesday, StartTime: models.TimeOfDay{Hour: 7}, EndTime: models.TimeOfDay{Hour: 7, Minute: 50}},
		{ID: "ts-1", DayOfWeek: models.DayMonday, StartTime: models.TimeOfDay{Hour: 7, Minute: 50}, EndTime: models.TimeOfDay{Hour: 8, Minute: 40}},
		{ID: "ts-0", DayOfWeek: models.DayMonday, StartTime: models.TimeOfDay{Hour: 7}, EndTime: models.TimeOfDay{Hour: 7, Minute: 50}},
	}}
	fixture := &snapshotFixture{slots: slots, cache: cache}

	svc := NewSnapshotService(
		metadataReaderStub{meta: &models.UniversityMetadata{
			UniversityName:   "Universidad Nacional",
			SchoolName:       "Systems Engineering",
			SemesterCode:     "2024-A",
			CurriculumName:   "Plan 2018",
			BlockDurationMin: 50,
			DayStartTime:     models.TimeOfDay{Hour: 7},
			DayEndTime:       models.TimeOfDay{Hour: 20},
		}},
		slots,
		classroomListerStub{rooms: []models.Classroom{
			{ID: "c-1", RoomCode: "A-101", RoomName: "Aula 101", RoomType: models.RoomTypeTheory, Capacity: 40},
		}},
		professorReaderStub{
			professors: []models.Professor{
				{ID: "prof-1", Name: "Ada", PreferredShift: &shift},
			},
			availability: map[string][]models.TimeSlot{
				"prof-1": {
					{DayOfWeek: models.DayMonday, StartTime: models.TimeOfDay{Hour: 7}, EndTime: models.TimeOfDay{Hour: 7, Minute: 50}},
				},
			},
			courseNames: map[string][]string{"prof-1": {"Algorithms"}},
		},
		courseListerStub{courses: []models.Course{
			{ID: "course-1", Code: "CS101", Name: "Algorithms", Credits: 4, TheoryHours: 2, LabHours: 2, StudentCount: 35, ClassroomType: models.RoomTypeTheory, Year: 1},
			{ID: "course-2", Code: "CS201", Name: "Databases", Credits: 3, TheoryHours: 3, StudentCount: 30, ClassroomType: models.RoomTypeLab, Year: 2},
		}},
		curriculumListerStub{entries: []models.CurriculumEntry{
			{CourseID: "course-2", Year: 2, Semester: models.SemesterA},
			{CourseID: "course-1", Year: 1, Semester: models.SemesterA},
			{CourseID: "ghost", Year: 1, Semester: models.SemesterA},
			{CourseID: "course-1", Year: 9, Semester: models.SemesterA},
		}},
		weightListerStub{weights: []models.OptimizationWeight{
			{ConstraintName: "professor_conflict", ConstraintType: models.ConstraintHard, WeightValue: 100},
			{ConstraintName: "preferred_shift", ConstraintType: models.ConstraintSoft, WeightValue: 5},
		}},
		cache,
		time.Minute,
		zap.NewNop(),
	)
	return svc, fixture
}

func TestSnapshotServiceBuild(t *testing.T) {
	svc, _ := newSnapshotFixture(t, nil)

	instance, err := svc.Build(context.Background(), models.SemesterA)
	require.NoError(t, err)

	assert.Equal(t, "Universidad Nacional", instance.Metadata.UniversityName)

	require.Len(t, instance.Periods, 3)
	assert.Equal(t, models.DayMonday, instance.Periods[0].DayOfWeek)
	assert.Equal(t, "07:00", instance.Periods[0].StartTime.String())
	assert.Equal(t, "07:50", instance.Periods[1].StartTime.String())
	assert.Equal(t, models.DayTuesday, instance.Periods[2].DayOfWeek)

	require.Len(t, instance.Professors, 1)
	assert.Equal(t, "prof-1", instance.Professors[0].ProfessorID)
	assert.Equal(t, string(models.ShiftMorning), instance.Professors[0].PreferredShift)
	assert.Equal(t, []string{"Algorithms"}, instance.Professors[0].Courses)

	require.Len(t, instance.Courses, 2)
	assert.Equal(t, "CS101", instance.Courses[0].CourseCode)
	assert.Equal(t, 2, instance.Courses[0].Hours.Theory)
	assert.Equal(t, 2, instance.Courses[0].Hours.Lab)

	assert.Equal(t, map[string][]string{
		"FirstYear":  {"CS101"},
		"SecondYear": {"CS201"},
	}, instance.Curricula)

	require.Len(t, instance.Weights.HardConstraints, 1)
	require.Len(t, instance.Weights.SoftConstraints, 1)
	assert.Equal(t, "professor_conflict", instance.Weights.HardConstraints[0].ConstraintName)
}

func TestSnapshotServiceBuildIsDeterministic(t *testing.T) {
	svc, _ := newSnapshotFixture(t, nil)

	first, err := svc.Build(context.Background(), models.SemesterA)
	require.NoError(t, err)
	second, err := svc.Build(context.Background(), models.SemesterA)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestSnapshotServiceBuildRejectsUnknownSemester(t *testing.T) {
	svc, _ := newSnapshotFixture(t, nil)

	_, err := svc.Build(context.Background(), models.Semester("X"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSnapshotServiceBuildRequiresSeededMetadata(t *testing.T) {
	svc := NewSnapshotService(
		metadataReaderStub{err: sql.ErrNoRows},
		&timeSlotListerStub{},
		classroomListerStub{},
		professorReaderStub{},
		courseListerStub{},
		curriculumListerStub{},
		weightListerStub{},
		nil,
		time.Minute,
		zap.NewNop(),
	)

	_, err := svc.Build(context.Background(), models.SemesterA)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestSnapshotServiceBuildAbortsOnReadFailure(t *testing.T) {
	svc := NewSnapshotService(
		metadataReaderStub{meta: &models.UniversityMetadata{}},
		&timeSlotListerStub{},
		classroomListerStub{},
		professorReaderStub{},
		courseListerStub{err: errors.New("connection reset")},
		curriculumListerStub{},
		weightListerStub{},
		nil,
		time.Minute,
		zap.NewNop(),
	)

	instance, err := svc.Build(context.Background(), models.SemesterA)
	require.Error(t, err)
	assert.Nil(t, instance)
	assert.Equal(t, appErrors.ErrSnapshot.Code, appErrors.FromError(err).Code)
}

func TestSnapshotServiceBuildSerializedUsesCache(t *testing.T) {
	cache := newCacheStub()
	svc, fixture := newSnapshotFixture(t, cache)

	first, err := svc.BuildSerialized(context.Background(), models.SemesterA)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, fixture.slots.calls)

	second, err := svc.BuildSerialized(context.Background(), models.SemesterA)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, fixture.slots.calls, "cache hit must not re-read the repository")

	svc.Invalidate(context.Background(), models.SemesterA)
	assert.Equal(t, 1, cache.deletes)

	_, err = svc.BuildSerialized(context.Background(), models.SemesterA)
	require.NoError(t, err)
	assert.Equal(t, 2, fixture.slots.calls)
}
