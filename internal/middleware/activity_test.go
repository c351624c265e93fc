package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/service"
)

type capturingActivityRepo struct {
	mu      sync.Mutex
	entries []models.Activity
	err     error
}

func (r *capturingActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *activity)
	return nil
}

func newActivityRouter(repo *capturingActivityRepo, handler gin.HandlerFunc) (*gin.Engine, *service.ActivityService) {
	gin.SetMode(gin.TestMode)
	svc := service.NewActivityService(repo, nil, nil, service.ActivityServiceConfig{Enabled: true, Workers: 1})
	svc.Start(context.Background())

	router := gin.New()
	router.Use(Identity(""), Activity(svc))
	router.Any("/api/students", handler)
	router.GET("/health", handler)
	return router, svc
}

func TestActivityRecordsRequestAndRestoresBody(t *testing.T) {
	repo := &capturingActivityRepo{}
	var seen string
	router, svc := newActivityRouter(repo, func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		seen = string(raw)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/students?page=2", strings.NewReader(`{ "full_name": "Ada" }`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(UserIDHeader, "clerk-7")
	router.ServeHTTP(httptest.NewRecorder(), req)
	svc.Stop()

	if seen != `{ "full_name": "Ada" }` {
		t.Fatalf("handler saw altered body: %q", seen)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected one activity entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.UserID != "clerk-7" || entry.Action != "POST /api/students?page=2" || entry.Details != `{"full_name":"Ada"}` {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestActivitySkipsPreflightAndOperationalPaths(t *testing.T) {
	repo := &capturingActivityRepo{}
	router, svc := newActivityRouter(repo, func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodOptions, "/api/students", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	svc.Stop()

	if len(repo.entries) != 0 {
		t.Fatalf("expected no entries, got %+v", repo.entries)
	}
}

func TestActivityWriterFailureDoesNotFailRequest(t *testing.T) {
	repo := &capturingActivityRepo{err: io.ErrUnexpectedEOF}
	router, svc := newActivityRouter(repo, func(c *gin.Context) { c.Status(http.StatusCreated) })
	defer svc.Stop()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/students", nil))
	if recorder.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestActivityMultipartBodyLoggedAsEmpty(t *testing.T) {
	repo := &capturingActivityRepo{}
	router, svc := newActivityRouter(repo, func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader("--x\r\n--x--"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	router.ServeHTTP(httptest.NewRecorder(), req)
	svc.Stop()

	if len(repo.entries) != 1 || repo.entries[0].Details != "{}" || repo.entries[0].UserID != "anonymous" {
		t.Fatalf("unexpected entries: %+v", repo.entries)
	}
}
