package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/smart-presensee/auto-alpha-api/pkg/errors"
)

type statusRepoStub struct {
	count int
	err   error
	calls int
}

func (s *statusRepoStub) CountAutoAlpha(ctx context.Context, from, to time.Time) (int, error) {
	s.calls++
	return s.count, s.err
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func newTestStatusService(repo statusRepository, cache *CacheService) *StatusService {
	svc := NewStatusService(repo, cache, time.Minute, time.UTC, nil)
	svc.now = func() time.Time {
		return time.Date(2024, 5, 13, 14, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestStatusExecutedToday(t *testing.T) {
	repo := &statusRepoStub{count: 5}
	svc := newTestStatusService(repo, nil)

	resp := svc.StatusForToday(context.Background())
	require.True(t, resp.Success)
	assert.True(t, resp.ExecutedToday)
	assert.Equal(t, 5, resp.AlphaCount)
	assert.Equal(t, "Auto-alpha executed today with 5 students", resp.Message)
}

func TestStatusNotExecutedYet(t *testing.T) {
	repo := &statusRepoStub{count: 0}
	svc := newTestStatusService(repo, nil)

	resp := svc.StatusForToday(context.Background())
	require.True(t, resp.Success)
	assert.False(t, resp.ExecutedToday)
	assert.Equal(t, "Auto-alpha not executed yet today", resp.Message)
}

func TestStatusReadFailure(t *testing.T) {
	repo := &statusRepoStub{err: errors.New("db down")}
	svc := newTestStatusService(repo, nil)

	resp := svc.StatusForToday(context.Background())
	assert.False(t, resp.Success)
	assert.Equal(t, "failed to read today's attendance records", resp.Error)
}

func TestStatusServedFromCache(t *testing.T) {
	repo := &statusRepoStub{count: 3}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := newTestStatusService(repo, cache)

	first := svc.StatusForToday(context.Background())
	second := svc.StatusForToday(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
}

func TestStatusInvalidateToday(t *testing.T) {
	repo := &statusRepoStub{count: 0}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := newTestStatusService(repo, cache)

	_ = svc.StatusForToday(context.Background())
	require.Equal(t, 1, repo.calls)

	repo.count = 4
	svc.InvalidateToday(context.Background())
	resp := svc.StatusForToday(context.Background())

	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, 4, resp.AlphaCount)
}
