package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/class-schedule-api/api/swagger"
	"github.com/noah-isme/class-schedule-api/internal/handler"
	internalmiddleware "github.com/noah-isme/class-schedule-api/internal/middleware"
	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/internal/repository"
	"github.com/noah-isme/class-schedule-api/internal/service"
	"github.com/noah-isme/class-schedule-api/pkg/cache"
	"github.com/noah-isme/class-schedule-api/pkg/config"
	"github.com/noah-isme/class-schedule-api/pkg/database"
	"github.com/noah-isme/class-schedule-api/pkg/export"
	"github.com/noah-isme/class-schedule-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-schedule-api/pkg/middleware/requestid"
)

// @title Class Schedule API
// @version 1.0.0
// @description Recurring class schedule engine: import, validate, pre-check and commit weekly timetables.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Scheduler.LookupCache {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("lookup cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := buildRouter(cfg, logr, db, redisClient)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func buildRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client) *gin.Engine {
	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	location := cfg.Scheduler.Location()

	lessonRepo := repository.NewLessonRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	classRepo := repository.NewClassRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "class-schedule:")

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.LookupCacheTTL, logr, redisClient != nil)
	lookupSvc := service.NewLookupService(semesterRepo, classRepo, resourceRepo, cacheSvc, cfg.Scheduler.LookupCacheTTL, logr)
	availabilitySvc := service.NewAvailabilityService(lessonRepo, metricsSvc, logr)
	sampler := service.NewConflictSampler(availabilitySvc, metricsSvc)
	persister := service.NewLessonPersister(db, lessonRepo, semesterRepo, classRepo, cfg.Scheduler.CommitRetries, metricsSvc, logr)
	committer := service.NewScheduleCommitter(persister, cfg.Scheduler.CommitConcurrency, metricsSvc, logr)
	validatorOpts := service.ValidatorOptions{StrictDaySlot: cfg.Scheduler.StrictDaySlot}

	scheduleSvc := service.NewScheduleService(service.ScheduleServiceDeps{
		Lookups:     lookupSvc,
		Sampler:     sampler,
		Committer:   committer,
		Lessons:     lessonRepo,
		Oracle:      availabilitySvc,
		Validator:   validate,
		SampleWeeks: cfg.Scheduler.SampleWeeks,
		Location:    location,
		Logger:      logr,
	})
	importSvc := service.NewScheduleImportService(
		lookupSvc,
		sampler,
		committer,
		service.NewSpreadsheetParser(cfg.Scheduler.ImportMaxRows),
		validate,
		service.ImportOptions{Validator: validatorOpts, SampleWeeks: cfg.Scheduler.SampleWeeks},
		metricsSvc,
		logr,
	)
	exportSvc := service.NewExportService(lessonRepo, export.NewCSVExporter(), export.NewPDFExporter(), validate, logr)
	tokenSvc := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, lookupSvc)
	importHandler := handler.NewImportHandler(importSvc)
	lessonHandler := handler.NewLessonHandler(scheduleSvc, exportSvc, location)
	probes := map[string]handler.Pinger{"database": handler.PingFunc(db.PingContext)}
	if redisClient != nil {
		probes["cache"] = cacheRepo
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, probes, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix, internalmiddleware.JWT(tokenSvc))
	writers := internalmiddleware.RequireRoles(internalmiddleware.SchedulerRoles...)

	schedules := api.Group("/schedules")
	schedules.GET("/options", scheduleHandler.Options)
	schedules.GET("/availability", scheduleHandler.Availability)
	schedules.POST("/check", writers, scheduleHandler.Check)
	schedules.POST("", writers, internalmiddleware.Audit(logr, "schedule.create"), scheduleHandler.Create)
	schedules.POST("/import/validate", writers, importHandler.Validate)
	schedules.POST("/import/commit", writers, internalmiddleware.Audit(logr, "schedule.import.commit"), importHandler.Commit)
	schedules.POST("/lookups/:semesterId/refresh", internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin), internalmiddleware.Audit(logr, "schedule.lookups.refresh"), scheduleHandler.RefreshLookups)

	lessons := api.Group("/lessons")
	lessons.GET("", lessonHandler.List)
	lessons.GET("/export", lessonHandler.Export)

	return r
}
