package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/acad-scheduler/timetable-api/internal/models"
	"github.com/acad-scheduler/timetable-api/pkg/response"
)

type snapshotProvider interface {
	BuildSerialized(ctx context.Context, semester models.Semester) ([]byte, error)
}

// SnapshotHandler exposes the solver-ready problem instance for inspection.
type SnapshotHandler struct {
	service snapshotProvider
}

// NewSnapshotHandler constructs the handler.
func NewSnapshotHandler(svc snapshotProvider) *SnapshotHandler {
	return &SnapshotHandler{service: svc}
}

// Get returns the serialized instance exactly as the solver would receive it.
func (h *SnapshotHandler) Get(c *gin.Context) {
	semester, err := semesterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.service.BuildSerialized(c.Request.Context(), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(200, "application/json", payload)
}
