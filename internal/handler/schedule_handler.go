package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acad-scheduler/timetable-api/internal/models"
	"github.com/acad-scheduler/timetable-api/pkg/response"
)

type scheduleLister interface {
	ListBySemester(ctx context.Context, semester models.Semester) ([]models.Schedule, error)
}

// ScheduleHandler exposes persisted schedule rows.
type ScheduleHandler struct {
	schedules scheduleLister
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(schedules scheduleLister) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// List returns the persisted timetable for a term, ordered by day and start
// time.
func (h *ScheduleHandler) List(c *gin.Context) {
	semester, err := semesterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.schedules.ListBySemester(c.Request.Context(), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, map[string]interface{}{"count": len(schedules)})
}
