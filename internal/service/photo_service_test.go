package service

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/pkg/config"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

type memoryPhotoStore struct {
	files   map[string][]byte
	deleted []string
	saveErr error
}

func (m *memoryPhotoStore) SaveStream(filename string, r io.Reader) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[filename] = data
	return int64(len(data)), nil
}

func (m *memoryPhotoStore) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	delete(m.files, filename)
	return nil
}

func newTestPhotoService(store *memoryPhotoStore, maxBytes int64) *PhotoService {
	svc := NewPhotoService(store, config.UploadsConfig{URLPrefix: "/uploads", MaxFileSizeBytes: maxBytes}, nil, nil)
	svc.now = func() time.Time { return time.UnixMilli(1712345678901) }
	svc.newSuffix = func() string { return "abc123" }
	return svc
}

func TestPhotoServiceSavesPNG(t *testing.T) {
	store := &memoryPhotoStore{}
	svc := newTestPhotoService(store, 1024)

	path, err := svc.save("Me.PNG", bytes.NewReader(pngPixel))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1712345678901-abc123.png", path)
	assert.Equal(t, pngPixel, store.files["1712345678901-abc123.png"])
}

func TestPhotoServiceUsesDetectedExtension(t *testing.T) {
	store := &memoryPhotoStore{}
	svc := newTestPhotoService(store, 1024)

	path, err := svc.save("blob", bytes.NewReader(pngPixel))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1712345678901-abc123.png", path)
}

func TestPhotoServiceReplacesMismatchedExtension(t *testing.T) {
	store := &memoryPhotoStore{}
	svc := newTestPhotoService(store, 1024)

	upload := append(append([]byte{}, pngPixel...), []byte("<html><script>alert(1)</script></html>")...)
	for _, name := range []string{"evil.html", "evil.svg", "photo.jpg", "x.js"} {
		path, err := svc.save(name, bytes.NewReader(upload))
		require.NoError(t, err, name)
		assert.Equal(t, "/uploads/1712345678901-abc123.png", path, name)
	}
}

func TestPhotoServiceKeepsMatchingJPEGAlias(t *testing.T) {
	store := &memoryPhotoStore{}
	svc := newTestPhotoService(store, 1024)

	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	path, err := svc.save("portrait.JPEG", bytes.NewReader(jpeg))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1712345678901-abc123.jpeg", path)
}

func TestPhotoServiceRejectsNonImage(t *testing.T) {
	store := &memoryPhotoStore{}
	svc := newTestPhotoService(store, 1024)

	_, err := svc.save("notes.png", bytes.NewReader([]byte("just some text pretending to be a picture")))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Empty(t, store.files)
}

func TestPhotoServiceRejectsOversizedStream(t *testing.T) {
	store := &memoryPhotoStore{}
	svc := newTestPhotoService(store, 32)

	_, err := svc.save("big.png", bytes.NewReader(pngPixel))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
	assert.Equal(t, []string{"1712345678901-abc123.png"}, store.deleted)
	assert.Empty(t, store.files)
}

func TestPhotoServiceStoreFailureIsInternal(t *testing.T) {
	store := &memoryPhotoStore{saveErr: errors.New("disk full")}
	svc := newTestPhotoService(store, 1024)

	_, err := svc.save("me.png", bytes.NewReader(pngPixel))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "disk full", appErr.Details())
}

func TestPhotoServiceRemove(t *testing.T) {
	store := &memoryPhotoStore{files: map[string][]byte{"1-a.png": pngPixel}}
	svc := newTestPhotoService(store, 1024)

	require.NoError(t, svc.Remove("/uploads/1-a.png"))
	require.NoError(t, svc.Remove("https://elsewhere/x.png"))
	assert.Equal(t, []string{"1-a.png"}, store.deleted)
}
