package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/acad-scheduler/timetable-api/internal/handler"
	"github.com/acad-scheduler/timetable-api/internal/repository"
	"github.com/acad-scheduler/timetable-api/internal/service"
	"github.com/acad-scheduler/timetable-api/pkg/cache"
	"github.com/acad-scheduler/timetable-api/pkg/config"
	"github.com/acad-scheduler/timetable-api/pkg/database"
	"github.com/acad-scheduler/timetable-api/pkg/logger"
	corsmiddleware "github.com/acad-scheduler/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acad-scheduler/timetable-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is optional; the snapshot cache degrades to direct builds.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, snapshot caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	metadataRepo := repository.NewMetadataRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	weightRepo := repository.NewWeightRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	timeSlotSvc := service.NewTimeSlotService(timeSlotRepo, logr)
	snapshotSvc := service.NewSnapshotService(
		metadataRepo,
		timeSlotRepo,
		classroomRepo,
		professorRepo,
		courseRepo,
		curriculumRepo,
		weightRepo,
		cacheRepo,
		cfg.Scheduler.SnapshotCacheTTL,
		logr,
	)
	solverRunner := service.NewSolverRunner(cfg.Solver, validate, logr)
	reconcileSvc := service.NewReconcileService(
		courseRepo,
		professorRepo,
		classroomRepo,
		scheduleRepo,
		timeSlotSvc,
		db,
		logr,
	)
	metricsSvc := service.NewMetricsService()
	schedulingSvc := service.NewSchedulingService(
		snapshotSvc,
		solverRunner,
		reconcileSvc,
		scheduleRepo,
		metricsSvc,
		cfg.Solver.Timeout,
		cfg.Scheduler.AsyncWorkers,
		validate,
		logr,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schedulingSvc.Start(ctx)
	defer schedulingSvc.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.Register(r, cfg.APIPrefix, handler.Routes{
		Scheduler: handler.NewSchedulerHandler(schedulingSvc),
		Snapshot:  handler.NewSnapshotHandler(snapshotSvc),
		Schedules: handler.NewScheduleHandler(scheduleRepo),
		Metrics:   metricsSvc.Handler(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
