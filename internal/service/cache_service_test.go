package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type memoryCacheRepo struct {
	values      map[string][]byte
	invalidated []string
	getErr      error
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	m.values = nil
	return nil
}

func TestCacheServiceDisabledWithoutTTL(t *testing.T) {
	svc := NewCacheService(&memoryCacheRepo{}, nil, 0, nil, true)
	assert.False(t, svc.Enabled())

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.False(t, nilSvc.Get(context.Background(), "k", &struct{}{}))
	assert.NoError(t, nilSvc.Invalidate(context.Background(), "dash:*"))
}

func TestCacheServiceRoundTripAndInvalidate(t *testing.T) {
	repo := &memoryCacheRepo{}
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out map[string]int
	assert.False(t, svc.Get(ctx, "dash:stats", &out))

	require.NoError(t, svc.Set(ctx, "dash:stats", map[string]int{"a": 1}))
	assert.True(t, svc.Get(ctx, "dash:stats", &out))
	assert.Equal(t, 1, out["a"])

	require.NoError(t, svc.Invalidate(ctx, "dash:*"))
	assert.Equal(t, []string{"dash:*"}, repo.invalidated)
	assert.False(t, svc.Get(ctx, "dash:stats", &out))
}

func TestCacheServiceBackendErrorIsMiss(t *testing.T) {
	repo := &memoryCacheRepo{getErr: errors.New("connection refused")}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	assert.False(t, svc.Get(context.Background(), "dash:stats", &struct{}{}))
}
