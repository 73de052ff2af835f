package dto

import (
	"time"

	"github.com/acad-scheduler/timetable-api/internal/models"
)

// RunState tracks the lifecycle of an asynchronous scheduling cycle.
type RunState string

const (
	RunPending   RunState = "PENDING"
	RunRunning   RunState = "RUNNING"
	RunSucceeded RunState = "SUCCEEDED"
	RunFailed    RunState = "FAILED"
)

// CycleRun is the status record for one scheduling cycle submitted through
// the async endpoint. Report is populated only once the run succeeds.
type CycleRun struct {
	ID         string          `json:"id"`
	Semester   models.Semester `json:"semester"`
	State      RunState        `json:"state"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Report     *YearlyReport   `json:"report,omitempty"`
	Error      string          `json:"error,omitempty"`
}
