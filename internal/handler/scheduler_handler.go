package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acad-scheduler/timetable-api/internal/dto"
	"github.com/acad-scheduler/timetable-api/internal/models"
	appErrors "github.com/acad-scheduler/timetable-api/pkg/errors"
	"github.com/acad-scheduler/timetable-api/pkg/response"
)

type cycleOrchestrator interface {
	RunCycle(ctx context.Context, req dto.RunCycleRequest) (*dto.YearlyReport, error)
	RunCycleAsync(ctx context.Context, req dto.RunCycleRequest) (*dto.CycleRun, error)
	GetRun(id string) (*dto.CycleRun, error)
}

// SchedulerHandler exposes scheduling cycle endpoints.
type SchedulerHandler struct {
	service cycleOrchestrator
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(svc cycleOrchestrator) *SchedulerHandler {
	return &SchedulerHandler{service: svc}
}

// RunCycle triggers a scheduling cycle. With "async": true the cycle is
// queued and a status record returned; otherwise the caller blocks until the
// full report is ready.
func (h *SchedulerHandler) RunCycle(c *gin.Context) {
	var req dto.RunCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run cycle payload"))
		return
	}

	if req.Async {
		run, err := h.service.RunCycleAsync(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, run)
		return
	}

	report, err := h.service.RunCycle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// GetRun reports the status of an async cycle.
func (h *SchedulerHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run)
}

func semesterFromQuery(c *gin.Context) (models.Semester, error) {
	semester := models.Semester(c.Query("semester"))
	if !semester.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "semester query parameter must be A or B")
	}
	return semester, nil
}
