package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/handler"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/config"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func testRouter(t *testing.T, env string) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	cfg := &config.Config{
		Env:       env,
		APIPrefix: "/api",
		Uploads:   config.UploadsConfig{URLPrefix: "/uploads"},
	}
	metrics := service.NewMetricsService()
	return newRouter(routerDeps{
		cfg:        cfg,
		logger:     zap.NewNop(),
		metrics:    metrics,
		activity:   service.NewActivityService(nil, metrics, nil, service.ActivityServiceConfig{}),
		students:   handler.NewStudentHandler(nil, nil),
		dashboard:  handler.NewDashboardHandler(nil),
		ops:        handler.NewMetricsHandler(metrics, okPinger{}),
		uploadsDir: dir,
	}), dir
}

func TestRouterRegistersAPIRoutes(t *testing.T) {
	r, _ := testRouter(t, config.EnvDevelopment)

	routes := map[string]bool{}
	for _, route := range r.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/students",
		"GET /api/students/export",
		"GET /api/students/:id",
		"POST /api/students",
		"PUT /api/students/:id",
		"DELETE /api/students/:id",
		"GET /api/dashboard-stats",
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /docs/*any",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestRouterHidesDocsInProduction(t *testing.T) {
	r, _ := testRouter(t, config.EnvProduction)
	for _, route := range r.Routes() {
		assert.NotEqual(t, "/docs/*any", route.Path)
	}
}

func TestRouterServesUploads(t *testing.T) {
	r, dir := testRouter(t, config.EnvDevelopment)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1-a.png"), []byte("img"), 0o644))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/1-a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "img", rec.Body.String())
}

func TestRouterAnswersPreflight(t *testing.T) {
	r, _ := testRouter(t, config.EnvDevelopment)

	req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
