package service

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/pkg/config"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

// sniffLen is how much of an upload is inspected to detect its type.
const sniffLen = 3072

type photoStore interface {
	SaveStream(filename string, r io.Reader) (int64, error)
	Delete(filename string) error
}

// PhotoService validates uploaded student photos and writes them to the static dir.
type PhotoService struct {
	store     photoStore
	urlPrefix string
	maxBytes  int64
	allowed   []string
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	newSuffix func() string
}

// NewPhotoService constructs a PhotoService.
func NewPhotoService(store photoStore, cfg config.UploadsConfig, metrics *MetricsService, logger *zap.Logger) *PhotoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := strings.TrimRight(cfg.URLPrefix, "/")
	if prefix == "" {
		prefix = "/uploads"
	}
	maxBytes := cfg.MaxFileSizeBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	allowed := cfg.AllowedMIMEs
	if len(allowed) == 0 {
		allowed = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	return &PhotoService{
		store:     store,
		urlPrefix: prefix,
		maxBytes:  maxBytes,
		allowed:   allowed,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		newSuffix: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:12] },
	}
}

// Save stores the upload and returns its public path, e.g. "/uploads/1712345678901-ab12cd34ef56.png".
func (s *PhotoService) Save(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "Photo is required")
	}
	if header.Size > s.maxBytes {
		return "", appErrors.Clone(appErrors.ErrValidation, s.tooLargeMessage())
	}
	file, err := header.Open()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Unable to read uploaded photo")
	}
	defer file.Close()
	return s.save(header.Filename, file)
}

func (s *PhotoService) save(original string, r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Unable to read uploaded photo")
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !s.accepts(detected) {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unsupported photo type %s", detected.String()))
	}

	filename := s.filename(original, detected)
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxBytes+1)
	written, err := s.store.SaveStream(filename, body)
	if err != nil {
		return "", appErrors.Internal(err, "Failed to store photo")
	}
	if written > s.maxBytes {
		s.discard(filename)
		return "", appErrors.Clone(appErrors.ErrValidation, s.tooLargeMessage())
	}
	s.metrics.AddPhotoBytes(written)
	s.logger.Debug("photo stored", zap.String("file", filename), zap.Int64("bytes", written), zap.String("mime", detected.String()))
	return s.urlPrefix + "/" + filename, nil
}

// Remove deletes a previously saved photo by its public path. Unknown paths are ignored.
func (s *PhotoService) Remove(path string) error {
	name := strings.TrimPrefix(path, s.urlPrefix+"/")
	if name == "" || name == path {
		return nil
	}
	return s.store.Delete(name)
}

func (s *PhotoService) discard(filename string) {
	if err := s.store.Delete(filename); err != nil {
		s.logger.Warn("failed to discard photo", zap.String("file", filename), zap.Error(err))
	}
}

func (s *PhotoService) accepts(detected *mimetype.MIME) bool {
	for _, allowed := range s.allowed {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}

// filename keeps the client's extension only when it names the sniffed type, so
// the static handler never serves an upload as something other than an image.
func (s *PhotoService) filename(original string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if !extensionMatches(ext, detected) {
		ext = detected.Extension()
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), s.newSuffix(), ext)
}

func extensionMatches(ext string, detected *mimetype.MIME) bool {
	if ext == "" {
		return false
	}
	if ext == detected.Extension() {
		return true
	}
	declared, _, _ := strings.Cut(mime.TypeByExtension(ext), ";")
	return declared != "" && detected.Is(strings.TrimSpace(declared))
}

func (s *PhotoService) tooLargeMessage() string {
	return fmt.Sprintf("Photo exceeds the %d byte upload limit", s.maxBytes)
}
