package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/handler"
	"github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-records-api/pkg/middleware/requestid"
)

type routerDeps struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *service.MetricsService
	activity   *service.ActivityService
	students   *handler.StudentHandler
	dashboard  *handler.DashboardHandler
	ops        *handler.MetricsHandler
	uploadsDir string
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.logger))
	r.Use(middleware.Metrics(d.metrics))
	r.Use(corsmiddleware.New(d.cfg.CORS.AllowedOrigins))
	r.Use(middleware.Identity(d.cfg.JWT.Secret))
	r.Use(middleware.Activity(d.activity))

	r.GET("/health", d.ops.Health)
	r.GET("/ready", d.ops.Ready)
	r.GET("/metrics", d.ops.Prometheus)
	if d.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static(d.cfg.Uploads.URLPrefix, d.uploadsDir)

	api := r.Group(d.cfg.APIPrefix)
	{
		api.GET("/students", d.students.List)
		api.GET("/students/export", d.students.Export)
		api.GET("/students/:id", d.students.Get)
		api.POST("/students", d.students.Create)
		api.PUT("/students/:id", d.students.Update)
		api.DELETE("/students/:id", d.students.Delete)
		api.GET("/dashboard-stats", d.dashboard.Stats)
	}
	return r
}
