package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/acad-scheduler/timetable-api/internal/dto"
	"github.com/acad-scheduler/timetable-api/internal/models"
	appErrors "github.com/acad-scheduler/timetable-api/pkg/errors"
)

type courseResolver interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

type professorResolver interface {
	FindByID(ctx context.Context, id string) (*models.Professor, error)
}

type classroomResolver interface {
	FindByCode(ctx context.Context, roomCode string) (*models.Classroom, error)
}

type scheduleWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error
}

type slotCanonicalizer interface {
	Canonicalize(ctx context.Context, exec sqlx.ExtContext, day, start, end string) (*models.TimeSlot, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// ReconcileOutcome aggregates the persisted rows and the sessions that
// could not be mapped back onto canonical entities.
type ReconcileOutcome struct {
	Persisted []models.Schedule
	Sessions  []dto.ScheduleSession
	Skipped   []dto.SkippedSession
}

// ReconcileService maps solver output back onto persisted identities and
// writes schedule rows. One unresolvable session is recorded and skipped;
// it never aborts the batch.
type ReconcileService struct {
	courses    courseResolver
	professors professorResolver
	classrooms classroomResolver
	schedules  scheduleWriter
	slots      slotCanonicalizer
	tx         txProvider
	logger     *zap.Logger
}

// NewReconcileService wires the reconciler.
func NewReconcileService(
	courses courseResolver,
	professors professorResolver,
	classrooms classroomResolver,
	schedules scheduleWriter,
	slots slotCanonicalizer,
	tx txProvider,
	logger *zap.Logger,
) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{
		courses:    courses,
		professors: professors,
		classrooms: classrooms,
		schedules:  schedules,
		slots:      slots,
		tx:         tx,
		logger:     logger,
	}
}

// Reconcile processes sessions in solver order so skip logging stays
// deterministic. Each write is scoped to its own transaction covering the
// time-slot find-or-create and the schedule insert; a failed session never
// rolls back previously committed ones.
func (s *ReconcileService) Reconcile(ctx context.Context, semester models.Semester, sessions []dto.ScheduleSession) (*ReconcileOutcome, error) {
	outcome := &ReconcileOutcome{
		Persisted: make([]models.Schedule, 0, len(sessions)),
		Sessions:  make([]dto.ScheduleSession, 0, len(sessions)),
		Skipped:   make([]dto.SkippedSession, 0),
	}

	for _, session := range sessions {
		schedule, skipReason, err := s.reconcileOne(ctx, semester, session)
		if err != nil {
			return nil, err
		}
		if skipReason != "" {
			s.logger.Warn("skipping unresolvable session",
				zap.String("course_code", session.CourseCode),
				zap.String("reason", skipReason))
			outcome.Skipped = append(outcome.Skipped, dto.SkippedSession{Session: session, Reason: skipReason})
			continue
		}
		outcome.Persisted = append(outcome.Persisted, *schedule)
		outcome.Sessions = append(outcome.Sessions, session)
	}

	s.logger.Info("reconciliation finished",
		zap.Int("persisted", len(outcome.Persisted)),
		zap.Int("skipped", len(outcome.Skipped)))
	return outcome, nil
}

func (s *ReconcileService) reconcileOne(ctx context.Context, semester models.Semester, session dto.ScheduleSession) (*models.Schedule, string, error) {
	course, err := s.courses.FindByCode(ctx, session.CourseCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Sprintf("unknown course code %q", session.CourseCode), nil
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve course")
	}

	professor, err := s.professors.FindByID(ctx, session.ProfessorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Sprintf("unknown professor %q", session.ProfessorID), nil
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve professor")
	}

	classroom, err := s.classrooms.FindByCode(ctx, session.ClassroomCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Sprintf("unknown classroom code %q", session.ClassroomCode), nil
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve classroom")
	}

	if _, err := models.NormalizeDay(session.DayOfWeek); err != nil {
		return nil, err.Error(), nil
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin reconcile transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	slot, err := s.slots.Canonicalize(ctx, tx, session.DayOfWeek, session.StartTime.String(), session.EndTime.String())
	if err != nil {
		return nil, "", err
	}

	schedule := &models.Schedule{
		CourseID:     course.ID,
		ProfessorID:  professor.ID,
		ClassroomID:  classroom.ID,
		TimeSlotID:   slot.ID,
		StudentCount: session.StudentCount,
		Semester:     semester,
		Year:         session.Year,
	}
	if err = s.schedules.Create(ctx, tx, schedule); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
		return nil, "", err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit reconcile transaction")
		return nil, "", err
	}
	return schedule, "", nil
}
