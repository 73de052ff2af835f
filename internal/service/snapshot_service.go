package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/acad-scheduler/timetable-api/internal/dto"
	"github.com/acad-scheduler/timetable-api/internal/models"
	appErrors "github.com/acad-scheduler/timetable-api/pkg/errors"
)

type metadataReader interface {
	Get(ctx context.Context) (*models.UniversityMetadata, error)
}

type timeSlotLister interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
}

type classroomLister interface {
	List(ctx context.Context) ([]models.Classroom, error)
}

type professorSnapshotReader interface {
	List(ctx context.Context) ([]models.Professor, error)
	ListAvailabilitySlots(ctx context.Context, professorID string) ([]models.TimeSlot, error)
	ListTaughtCourseNames(ctx context.Context, professorID string) ([]string, error)
}

type courseLister interface {
	ListBySemester(ctx context.Context, semester models.Semester) ([]models.Course, error)
}

type curriculumLister interface {
	ListBySemester(ctx context.Context, semester models.Semester) ([]models.CurriculumEntry, error)
}

type weightLister interface {
	List(ctx context.Context) ([]models.OptimizationWeight, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SnapshotService assembles the immutable, solver-ready problem instance
// for one academic term. All reads settle before serialization; a single
// failed read aborts the build with no partial result.
type SnapshotService struct {
	metadata   metadataReader
	slots      timeSlotLister
	classrooms classroomLister
	professors professorSnapshotReader
	courses    courseLister
	curricula  curriculumLister
	weights    weightLister
	cache      snapshotCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewSnapshotService wires the assembler. cache may be nil.
func NewSnapshotService(
	metadata metadataReader,
	slots timeSlotLister,
	classrooms classroomLister,
	professors professorSnapshotReader,
	courses courseLister,
	curricula curriculumLister,
	weights weightLister,
	cache snapshotCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &SnapshotService{
		metadata:   metadata,
		slots:      slots,
		classrooms: classrooms,
		professors: professors,
		courses:    courses,
		curricula:  curricula,
		weights:    weights,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Build reads the repository and produces the problem instance. Read-only.
func (s *SnapshotService) Build(ctx context.Context, semester models.Semester) (*dto.ProblemInstance, error) {
	if !semester.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown semester %q", semester))
	}

	meta, err := s.metadata.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "university metadata not seeded")
		}
		return nil, s.snapshotErr(err, "read university metadata")
	}

	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, s.snapshotErr(err, "read time slots")
	}
	periods := make([]dto.SnapshotPeriod, 0, len(slots))
	for _, slot := range slots {
		periods = append(periods, dto.SnapshotPeriod{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}
	sortPeriods(periods)

	rooms, err := s.classrooms.List(ctx)
	if err != nil {
		return nil, s.snapshotErr(err, "read classrooms")
	}
	classrooms := make([]dto.SnapshotClassroom, 0, len(rooms))
	for _, room := range rooms {
		classrooms = append(classrooms, dto.SnapshotClassroom{
			RoomCode: room.RoomCode,
			RoomName: room.RoomName,
			RoomType: string(room.RoomType),
			Capacity: room.Capacity,
		})
	}

	professors, err := s.buildProfessors(ctx)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.ListBySemester(ctx, semester)
	if err != nil {
		return nil, s.snapshotErr(err, "read courses")
	}
	snapshotCourses := make([]dto.SnapshotCourse, 0, len(courses))
	courseCodeByID := make(map[string]string, len(courses))
	for _, course := range courses {
		courseCodeByID[course.ID] = course.Code
		snapshotCourses = append(snapshotCourses, dto.SnapshotCourse{
			CourseCode: course.Code,
			CourseName: course.Name,
			Credits:    course.Credits,
			Hours: dto.SnapshotCourseHours{
				Theory:   course.TheoryHours,
				Practice: course.PracticeHours,
				Lab:      course.LabHours,
			},
			Prerequisites: course.Prerequisites,
			Professors:    course.ProfessorIDs,
			ClassroomType: string(course.ClassroomType),
			StudentCount:  course.StudentCount,
			Year:          course.Year,
		})
	}

	curricula, err := s.buildCurricula(ctx, semester, courseCodeByID)
	if err != nil {
		return nil, err
	}

	weights, err := s.weights.List(ctx)
	if err != nil {
		return nil, s.snapshotErr(err, "read optimization weights")
	}

	instance := &dto.ProblemInstance{
		Metadata: dto.SnapshotMetadata{
			UniversityName:   meta.UniversityName,
			SchoolName:       meta.SchoolName,
			SemesterCode:     meta.SemesterCode,
			CurriculumName:   meta.CurriculumName,
			BlockDurationMin: meta.BlockDurationMin,
			DayStartTime:     meta.DayStartTime,
			DayEndTime:       meta.DayEndTime,
		},
		Periods:     periods,
		Classrooms:  classrooms,
		Professors:  professors,
		Courses:     snapshotCourses,
		Curricula:   curricula,
		Preferences: defaultPreferences(),
		Weights:     partitionWeights(weights),
	}
	return instance, nil
}

// BuildSerialized returns the canonical JSON encoding of the instance,
// consulting the cache first. Deterministic ordering makes the cached
// bytes equivalent to a fresh build.
func (s *SnapshotService) BuildSerialized(ctx context.Context, semester models.Semester) ([]byte, error) {
	key := snapshotCacheKey(semester)
	if s.cache != nil {
		var cached json.RawMessage
		if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			s.logger.Debug("snapshot cache hit", zap.String("semester", string(semester)))
			return cached, nil
		}
	}

	instance, err := s.Build(ctx, semester)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(instance)
	if err != nil {
		return nil, s.snapshotErr(err, "serialize problem instance")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, json.RawMessage(payload), s.cacheTTL); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return payload, nil
}

// Invalidate drops the cached snapshot for a term.
func (s *SnapshotService) Invalidate(ctx context.Context, semester models.Semester) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, snapshotCacheKey(semester)); err != nil {
		s.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
	}
}

func (s *SnapshotService) buildProfessors(ctx context.Context) ([]dto.SnapshotProfessor, error) {
	professors, err := s.professors.List(ctx)
	if err != nil {
		return nil, s.snapshotErr(err, "read professors")
	}

	result := make([]dto.SnapshotProfessor, 0, len(professors))
	for _, professor := range professors {
		slots, err := s.professors.ListAvailabilitySlots(ctx, professor.ID)
		if err != nil {
			return nil, s.snapshotErr(err, "read professor availability")
		}
		availabilities := make([]dto.SnapshotPeriod, 0, len(slots))
		for _, slot := range slots {
			availabilities = append(availabilities, dto.SnapshotPeriod{
				DayOfWeek: slot.DayOfWeek,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			})
		}
		sortPeriods(availabilities)

		courseNames, err := s.professors.ListTaughtCourseNames(ctx, professor.ID)
		if err != nil {
			return nil, s.snapshotErr(err, "read professor courses")
		}

		entry := dto.SnapshotProfessor{
			ProfessorID:    professor.ID,
			Name:           professor.Name,
			Courses:        courseNames,
			Availabilities: availabilities,
		}
		if professor.PreferredShift != nil {
			entry.PreferredShift = string(*professor.PreferredShift)
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *SnapshotService) buildCurricula(ctx context.Context, semester models.Semester, courseCodeByID map[string]string) (map[string][]string, error) {
	entries, err := s.curricula.ListBySemester(ctx, semester)
	if err != nil {
		return nil, s.snapshotErr(err, "read curricula")
	}
	curricula := make(map[string][]string)
	for _, entry := range entries {
		if entry.Year < 1 || entry.Year > len(dto.YearNames) {
			continue
		}
		code, ok := courseCodeByID[entry.CourseID]
		if !ok {
			continue
		}
		label := dto.YearNames[entry.Year-1]
		curricula[label] = append(curricula[label], code)
	}
	for label := range curricula {
		sort.Strings(curricula[label])
	}
	return curricula, nil
}

func (s *SnapshotService) snapshotErr(err error, op string) error {
	return appErrors.Wrap(err, appErrors.ErrSnapshot.Code, appErrors.ErrSnapshot.Status, "failed to "+op)
}

func sortPeriods(periods []dto.SnapshotPeriod) {
	sort.SliceStable(periods, func(i, j int) bool {
		di, dj := models.DayOrder(periods[i].DayOfWeek), models.DayOrder(periods[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		if periods[i].StartTime != periods[j].StartTime {
			return periods[i].StartTime.Before(periods[j].StartTime)
		}
		return periods[i].EndTime.Before(periods[j].EndTime)
	})
}

func partitionWeights(weights []models.OptimizationWeight) dto.SnapshotWeights {
	partitioned := dto.SnapshotWeights{
		HardConstraints: make([]dto.SnapshotWeight, 0),
		SoftConstraints: make([]dto.SnapshotWeight, 0),
	}
	for _, weight := range weights {
		entry := dto.SnapshotWeight{ConstraintName: weight.ConstraintName, WeightValue: weight.WeightValue}
		if weight.ConstraintType == models.ConstraintHard {
			partitioned.HardConstraints = append(partitioned.HardConstraints, entry)
		} else {
			partitioned.SoftConstraints = append(partitioned.SoftConstraints, entry)
		}
	}
	return partitioned
}

func defaultPreferences() dto.SnapshotPreferences {
	return dto.SnapshotPreferences{
		PreferredShift: string(models.ShiftMorning),
		PreferredDays:  []string{models.DayMonday, models.DayTuesday, models.DayWednesday},
		PreferredSlots: []string{
			"07:00_07:50", "07:50_08:40", "08:50_09:40",
			"09:40_10:30", "10:40_11:30", "11:30_12:20",
		},
	}
}

func snapshotCacheKey(semester models.Semester) string {
	return "snapshot:semester:" + string(semester)
}
