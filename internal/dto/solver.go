package dto

import (
	"fmt"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// SolverParams are the tunable genetic-algorithm knobs passed to the
// optimizer as CLI arguments, never inside the JSON payload.
type SolverParams struct {
	PopulationSize int     `json:"population_size" validate:"omitempty,min=2"`
	Generations    int     `json:"generations" validate:"omitempty,min=1"`
	TournamentSize int     `json:"tournament_size" validate:"omitempty,min=2"`
	CrossoverRate  float64 `json:"crossover_rate" validate:"omitempty,gt=0,lte=1"`
	MutationRate   float64 `json:"mutation_rate" validate:"omitempty,gte=0,lte=1"`
}

// Args renders the parameters as optimizer CLI flags, omitting unset values
// so the process falls back to its documented defaults.
func (p SolverParams) Args() []string {
	var args []string
	if p.PopulationSize > 0 {
		args = append(args, "--pop", fmt.Sprintf("%d", p.PopulationSize))
	}
	if p.Generations > 0 {
		args = append(args, "--gens", fmt.Sprintf("%d", p.Generations))
	}
	if p.TournamentSize > 0 {
		args = append(args, "--tournament", fmt.Sprintf("%d", p.TournamentSize))
	}
	if p.CrossoverRate > 0 {
		args = append(args, "--crossover", fmt.Sprintf("%g", p.CrossoverRate))
	}
	if p.MutationRate > 0 {
		args = append(args, "--mutation", fmt.Sprintf("%g", p.MutationRate))
	}
	return args
}

// ScheduleSession is the atomic unit exchanged with the solver: one course
// sitting in one period in one room under one professor.
type ScheduleSession struct {
	CourseCode    string           `json:"course_code" validate:"required"`
	CourseName    string           `json:"course_name"`
	ProfessorID   string           `json:"professor_id" validate:"required"`
	ClassroomCode string           `json:"classroom_code" validate:"required"`
	ClassroomType string           `json:"classroom_type"`
	DayOfWeek     string           `json:"day_of_week" validate:"required"`
	StartTime     models.TimeOfDay `json:"start_time"`
	EndTime       models.TimeOfDay `json:"end_time"`
	StudentCount  int              `json:"student_count" validate:"gte=0"`
	Year          int              `json:"year"`
	Semester      models.Semester  `json:"semester"`
}

// SolverResult is the parsed success payload of an optimizer run.
type SolverResult struct {
	Schedule   []ScheduleSession `json:"schedule" validate:"required"`
	Statistics map[string]any    `json:"statistics,omitempty"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
}

// RunCycleRequest is the caller-facing payload for a scheduling cycle.
type RunCycleRequest struct {
	Semester  models.Semester `json:"semester" validate:"required,oneof=A B"`
	Params    SolverParams    `json:"params"`
	Overrides map[string]any  `json:"overrides,omitempty"`
	Async     bool            `json:"async,omitempty"`
}
