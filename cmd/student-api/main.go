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

	_ "github.com/noah-isme/student-records-api/api/swagger"
	"github.com/noah-isme/student-records-api/internal/handler"
	"github.com/noah-isme/student-records-api/internal/repository"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/cache"
	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/database"
	"github.com/noah-isme/student-records-api/pkg/logger"
	"github.com/noah-isme/student-records-api/pkg/storage"
)

// @title Student Records API
// @version 1.0.0
// @description Student profiles, photo uploads and dashboard statistics
// @BasePath /api
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "driver", cfg.Database.Driver, "error", err)
	}
	defer db.Close()

	activityRepo := repository.NewActivityRepository(db)
	if err := activityRepo.EnsureSchema(ctx); err != nil {
		logr.Sugar().Errorw("failed to ensure activities table", "error", err)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("uploads directory unavailable", "dir", cfg.Uploads.Dir, "error", err)
	}

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, redisClient != nil)
	dashboardSvc := service.NewDashboardService(repository.NewDashboardRepository(db), cacheSvc, metrics, logr,
		service.DashboardServiceConfig{QueryConcurrency: cfg.Dashboard.QueryConcurrency})
	photoSvc := service.NewPhotoService(store, cfg.Uploads, metrics, logr)
	studentRepo := repository.NewStudentRepository(db)
	studentSvc := service.NewStudentService(studentRepo, photoSvc, dashboardSvc, validator.New(), logr)
	exportSvc := service.NewExportService(studentRepo, logr)

	activitySvc := service.NewActivityService(activityRepo, metrics, logr, service.ActivityServiceConfig{
		Enabled:      cfg.Activity.Enabled,
		Workers:      cfg.Activity.Workers,
		BufferSize:   cfg.Activity.BufferSize,
		RedactFields: cfg.Activity.RedactFields,
	})
	activitySvc.Start(context.Background())

	router := newRouter(routerDeps{
		cfg:        cfg,
		logger:     logr,
		metrics:    metrics,
		activity:   activitySvc,
		students:   handler.NewStudentHandler(studentSvc, exportSvc),
		dashboard:  handler.NewDashboardHandler(dashboardSvc),
		ops:        handler.NewMetricsHandler(metrics, db),
		uploadsDir: store.Dir(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
		}
	case <-ctx.Done():
		logr.Sugar().Infow("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	activitySvc.Stop()
	logr.Sugar().Infow("server stopped")
}
