package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"

	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/jobs"
)

const (
	emptyDetails    = "{}"
	redactedValue   = `"[REDACTED]"`
	activityJobType = "activity"
)

type activityWriter interface {
	Create(ctx context.Context, activity *models.Activity) error
}

// ActivityServiceConfig tunes the background activity writer.
type ActivityServiceConfig struct {
	Enabled      bool
	Workers      int
	BufferSize   int
	RedactFields []string
}

// ActivityService records request activity without holding up the request. Entries
// are written by a small worker pool; when the pool is saturated entries are dropped.
type ActivityService struct {
	repo    activityWriter
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	enabled bool
	redact  map[string]struct{}
}

// NewActivityService constructs the service and its worker queue. Call Start before Log.
func NewActivityService(repo activityWriter, metrics *MetricsService, logger *zap.Logger, cfg ActivityServiceConfig) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ActivityService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		enabled: cfg.Enabled,
		redact:  make(map[string]struct{}, len(cfg.RedactFields)),
	}
	for _, field := range cfg.RedactFields {
		s.redact[field] = struct{}{}
	}
	s.queue = jobs.NewQueue("activity", s.write, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
		OnFailure: func(job jobs.Job, err error) {
			s.metrics.RecordActivity(ActivityFailed)
		},
	})
	return s
}

// Enabled reports whether requests should be recorded.
func (s *ActivityService) Enabled() bool {
	return s != nil && s.enabled
}

// Start launches the writer workers.
func (s *ActivityService) Start(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	s.queue.Start(ctx)
}

// Stop flushes buffered entries and stops the workers.
func (s *ActivityService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Log offers the entry to the writer and returns immediately.
func (s *ActivityService) Log(entry models.Activity) {
	if !s.Enabled() {
		return
	}
	if entry.UserID == "" {
		entry.UserID = models.AnonymousUser
	}
	if entry.Details == "" {
		entry.Details = emptyDetails
	}
	entry.UserID = clip(entry.UserID, models.ActivityFieldLimit)
	entry.Action = clip(entry.Action, models.ActivityFieldLimit)
	if err := s.queue.TryEnqueue(jobs.Job{Type: activityJobType, Payload: entry}); err != nil {
		s.metrics.RecordActivity(ActivityDropped)
		s.logger.Warn("activity entry dropped", zap.String("action", entry.Action), zap.Error(err))
	}
}

// Details renders a request body for storage. JSON bodies are compacted, with any
// configured top-level fields masked; anything else is stored as "{}".
func (s *ActivityService) Details(contentType string, body []byte) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return emptyDetails
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return emptyDetails
	}

	if len(s.redact) > 0 && body[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err == nil {
			for key := range fields {
				if _, ok := s.redact[key]; ok {
					fields[key] = json.RawMessage(redactedValue)
				}
			}
			if masked, err := json.Marshal(fields); err == nil {
				return string(masked)
			}
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return emptyDetails
	}
	return compact.String()
}

// clip shortens s to at most limit runes.
func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func (s *ActivityService) write(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.Activity)
	if !ok {
		return fmt.Errorf("unexpected activity payload %T", job.Payload)
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return err
	}
	s.metrics.RecordActivity(ActivityWritten)
	return nil
}
