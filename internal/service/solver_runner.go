package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acad-scheduler/timetable-api/internal/dto"
	"github.com/acad-scheduler/timetable-api/pkg/config"
	appErrors "github.com/acad-scheduler/timetable-api/pkg/errors"
)

// SolverRunner spawns the external optimizer process and enforces its I/O
// contract: one JSON document in on stdin, one JSON document out on stdout,
// diagnostics on stderr, success signalled solely by exit code zero plus a
// parseable `schedule` field.
type SolverRunner struct {
	cfg       config.SolverConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSolverRunner wires the process adapter.
func NewSolverRunner(cfg config.SolverConfig, validate *validator.Validate, logger *zap.Logger) *SolverRunner {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolverRunner{cfg: cfg, validator: validate, logger: logger}
}

// Run executes one solver invocation. Tunable parameters travel as CLI
// arguments, never inside the JSON payload. The adapter never retries;
// retry policy belongs to the caller.
func (r *SolverRunner) Run(ctx context.Context, payload []byte, params dto.SolverParams) (*dto.SolverResult, error) {
	effective := r.withDefaults(params)
	args := append([]string{r.cfg.Script}, effective.Args()...)

	cmd := exec.CommandContext(ctx, r.cfg.Command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, "failed to open solver stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, "failed to open solver stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, "failed to open solver stderr")
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, "failed to start solver process")
	}

	// Both streams must drain concurrently while the process runs. The
	// optimizer interleaves large stdout writes with stderr diagnostics;
	// a sequential read deadlocks once a pipe buffer fills.
	var stdoutBuf, stderrBuf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&stdoutBuf, stdout)
	}()
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&stderrBuf, stderr)
	}()

	// Closing stdin signals "no more input" to the optimizer.
	_, writeErr := stdin.Write(payload)
	closeErr := stdin.Close()

	wg.Wait()
	waitErr := cmd.Wait()
	elapsed := time.Since(started)

	diagnostics := stderrBuf.String()

	if ctx.Err() != nil {
		r.logger.Warn("solver run cancelled",
			zap.Duration("elapsed", elapsed),
			zap.Error(ctx.Err()))
		return nil, appErrors.WithDetail(
			appErrors.Wrap(ctx.Err(), appErrors.ErrSolverTimeout.Code, appErrors.ErrSolverTimeout.Status, appErrors.ErrSolverTimeout.Message),
			diagnostics)
	}
	if writeErr != nil {
		return nil, appErrors.WithDetail(
			appErrors.Wrap(writeErr, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, "failed to stream instance to solver"),
			diagnostics)
	}
	if closeErr != nil {
		return nil, appErrors.WithDetail(
			appErrors.Wrap(closeErr, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, "failed to close solver stdin"),
			diagnostics)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			r.logger.Warn("solver exited non-zero",
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.Duration("elapsed", elapsed))
			return nil, appErrors.WithDetail(
				appErrors.Wrap(waitErr, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, fmt.Sprintf("solver exited with code %d", exitErr.ExitCode())),
				diagnostics)
		}
		return nil, appErrors.WithDetail(
			appErrors.Wrap(waitErr, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, "solver process failed"),
			diagnostics)
	}

	result, err := r.parseOutput(stdoutBuf.Bytes())
	if err != nil {
		return nil, appErrors.WithDetail(appErrors.FromError(err), diagnostics)
	}

	r.logger.Info("solver run completed",
		zap.Int("sessions", len(result.Schedule)),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

// parseOutput validates the solver's stdout at the deserialization edge.
func (r *SolverRunner) parseOutput(raw []byte) (*dto.SolverResult, error) {
	var result dto.SolverResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, "solver produced malformed JSON")
	}
	if result.Schedule == nil {
		return nil, appErrors.Clone(appErrors.ErrSolver, "solver output missing schedule field")
	}
	for i := range result.Schedule {
		if err := r.validator.Struct(&result.Schedule[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolver.Code, appErrors.ErrSolver.Status, fmt.Sprintf("solver session %d failed validation", i))
		}
	}
	return &result, nil
}

func (r *SolverRunner) withDefaults(params dto.SolverParams) dto.SolverParams {
	if params.PopulationSize <= 0 {
		params.PopulationSize = r.cfg.PopulationSize
	}
	if params.Generations <= 0 {
		params.Generations = r.cfg.Generations
	}
	if params.TournamentSize <= 0 {
		params.TournamentSize = r.cfg.TournamentSize
	}
	if params.CrossoverRate <= 0 {
		params.CrossoverRate = r.cfg.CrossoverRate
	}
	if params.MutationRate <= 0 {
		params.MutationRate = r.cfg.MutationRate
	}
	return params
}
