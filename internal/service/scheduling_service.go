package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acad-scheduler/timetable-api/internal/dto"
	"github.com/acad-scheduler/timetable-api/internal/models"
	appErrors "github.com/acad-scheduler/timetable-api/pkg/errors"
	"github.com/acad-scheduler/timetable-api/pkg/jobs"
)

type snapshotAssembler interface {
	Build(ctx context.Context, semester models.Semester) (*dto.ProblemInstance, error)
	Invalidate(ctx context.Context, semester models.Semester)
}

type solverInvoker interface {
	Run(ctx context.Context, payload []byte, params dto.SolverParams) (*dto.SolverResult, error)
}

type sessionReconciler interface {
	Reconcile(ctx context.Context, semester models.Semester, sessions []dto.ScheduleSession) (*ReconcileOutcome, error)
}

type scheduleCleaner interface {
	DeleteBySemester(ctx context.Context, semester models.Semester) (int64, error)
}

type cycleMetrics interface {
	ObserveSolverRun(status string, elapsed time.Duration)
	ObserveReconciliation(persisted, skipped int)
}

// SchedulingService orchestrates one full cycle: snapshot assembly, solver
// invocation, reconciliation, and report formatting. Prior schedules for the
// term are cleared only after the solver has succeeded, so a failed run
// leaves the previous timetable untouched.
type SchedulingService struct {
	snapshots  snapshotAssembler
	runner     solverInvoker
	reconciler sessionReconciler
	schedules  scheduleCleaner
	metrics    cycleMetrics
	validator  *validator.Validate
	logger     *zap.Logger

	solverTimeout time.Duration

	queue *jobs.Queue
	mu    sync.RWMutex
	runs  map[string]*dto.CycleRun
}

// NewSchedulingService wires the orchestrator. metrics may be nil.
func NewSchedulingService(
	snapshots snapshotAssembler,
	runner solverInvoker,
	reconciler sessionReconciler,
	schedules scheduleCleaner,
	metrics cycleMetrics,
	solverTimeout time.Duration,
	asyncWorkers int,
	validate *validator.Validate,
	logger *zap.Logger,
) *SchedulingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if solverTimeout <= 0 {
		solverTimeout = 5 * time.Minute
	}

	s := &SchedulingService{
		snapshots:     snapshots,
		runner:        runner,
		reconciler:    reconciler,
		schedules:     schedules,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
		solverTimeout: solverTimeout,
		runs:          make(map[string]*dto.CycleRun),
	}
	s.queue = jobs.NewQueue("scheduling-cycles", s.handleCycleJob, jobs.QueueConfig{
		Workers: asyncWorkers,
		Logger:  logger,
	})
	return s
}

// Start launches the async worker pool.
func (s *SchedulingService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the async worker pool.
func (s *SchedulingService) Stop() {
	s.queue.Stop()
}

// RunCycle executes one synchronous scheduling cycle and returns the
// year-partitioned report with any skipped sessions attached.
func (s *SchedulingService) RunCycle(ctx context.Context, req dto.RunCycleRequest) (*dto.YearlyReport, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run cycle request")
	}

	instance, err := s.snapshots.Build(ctx, req.Semester)
	if err != nil {
		return nil, err
	}
	if len(req.Overrides) > 0 {
		instance.AdvancedConfig = req.Overrides
	}
	payload, err := json.Marshal(instance)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshot.Code, appErrors.ErrSnapshot.Status, "failed to serialize problem instance")
	}

	runCtx, cancel := context.WithTimeout(ctx, s.solverTimeout)
	defer cancel()

	started := time.Now()
	result, err := s.runner.Run(runCtx, payload, req.Params)
	elapsed := time.Since(started)
	if err != nil {
		s.observeSolver("failure", elapsed)
		return nil, err
	}
	s.observeSolver("success", elapsed)

	deleted, err := s.schedules.DeleteBySemester(ctx, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear prior schedules")
	}
	if deleted > 0 {
		s.logger.Info("cleared prior schedules",
			zap.String("semester", string(req.Semester)),
			zap.Int64("deleted", deleted))
	}

	outcome, err := s.reconciler.Reconcile(ctx, req.Semester, result.Schedule)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveReconciliation(len(outcome.Persisted), len(outcome.Skipped))
	}

	// Reconciliation may have minted new canonical time slots.
	s.snapshots.Invalidate(ctx, req.Semester)

	report := FormatByYear(outcome.Sessions, instance.Metadata, req.Semester)
	report.Skipped = outcome.Skipped
	return &report, nil
}

// RunCycleAsync enqueues a cycle and returns its status record immediately.
func (s *SchedulingService) RunCycleAsync(ctx context.Context, req dto.RunCycleRequest) (*dto.CycleRun, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid run cycle request")
	}

	run := &dto.CycleRun{
		ID:         uuid.NewString(),
		Semester:   req.Semester,
		State:      dto.RunPending,
		EnqueuedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: "run_cycle", Payload: req}); err != nil {
		s.mu.Lock()
		delete(s.runs, run.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue scheduling cycle")
	}

	snapshot := *run
	return &snapshot, nil
}

// GetRun returns the status record for an async cycle.
func (s *SchedulingService) GetRun(id string) (*dto.CycleRun, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	if !ok {
		s.mu.RUnlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "scheduling run not found")
	}
	snapshot := *run
	s.mu.RUnlock()
	return &snapshot, nil
}

func (s *SchedulingService) handleCycleJob(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.RunCycleRequest)
	if !ok {
		s.updateRun(job.ID, func(run *dto.CycleRun) {
			run.State = dto.RunFailed
			run.Error = "malformed job payload"
		})
		return nil
	}

	startedAt := time.Now().UTC()
	s.updateRun(job.ID, func(run *dto.CycleRun) {
		run.State = dto.RunRunning
		run.StartedAt = &startedAt
	})

	report, err := s.RunCycle(ctx, req)

	finishedAt := time.Now().UTC()
	s.updateRun(job.ID, func(run *dto.CycleRun) {
		run.FinishedAt = &finishedAt
		if err != nil {
			run.State = dto.RunFailed
			run.Error = err.Error()
			return
		}
		run.State = dto.RunSucceeded
		run.Report = report
	})
	return err
}

func (s *SchedulingService) updateRun(id string, apply func(*dto.CycleRun)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		apply(run)
	}
}

func (s *SchedulingService) observeSolver(status string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveSolverRun(status, elapsed)
	}
}
