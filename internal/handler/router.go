package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Routes groups the handlers mounted under the API prefix.
type Routes struct {
	Scheduler *SchedulerHandler
	Snapshot  *SnapshotHandler
	Schedules *ScheduleHandler
	Metrics   http.Handler
}

// Register mounts all endpoints onto the engine.
func Register(r *gin.Engine, prefix string, routes Routes) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if routes.Metrics != nil {
		r.GET("/metrics", gin.WrapH(routes.Metrics))
	}

	api := r.Group(prefix)
	api.POST("/scheduling/run", routes.Scheduler.RunCycle)
	api.GET("/scheduling/runs/:id", routes.Scheduler.GetRun)
	api.GET("/scheduling/snapshot", routes.Snapshot.Get)
	api.GET("/schedules", routes.Schedules.List)
}
