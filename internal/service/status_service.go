package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/smart-presensee/auto-alpha-api/internal/dto"
)

type statusRepository interface {
	CountAutoAlpha(ctx context.Context, from, to time.Time) (int, error)
}

// StatusService answers whether today's auto-alpha run already happened. It is
// a pure read path: no writes, safe to call concurrently with a run.
type StatusService struct {
	repo     statusRepository
	cache    *CacheService
	cacheTTL time.Duration
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatusService constructs the status service.
func NewStatusService(repo statusRepository, cache *CacheService, cacheTTL time.Duration, loc *time.Location, logger *zap.Logger) *StatusService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{repo: repo, cache: cache, cacheTTL: cacheTTL, loc: loc, logger: logger, now: time.Now}
}

// StatusForToday always returns a structured payload: transient read failures
// surface as success=false with an error description, never as a panic or an
// unhandled error.
func (s *StatusService) StatusForToday(ctx context.Context) dto.StatusResponse {
	from, to := dayBounds(s.now().In(s.loc))
	key := statusCacheKey(from)

	var cached dto.StatusResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached
	}

	count, err := s.repo.CountAutoAlpha(ctx, from, to)
	if err != nil {
		s.logger.Error("failed to read today's auto alpha records", zap.Error(err))
		return dto.StatusResponse{Success: false, Error: "failed to read today's attendance records"}
	}

	resp := dto.StatusResponse{
		Success:       true,
		ExecutedToday: count > 0,
		AlphaCount:    count,
	}
	if resp.ExecutedToday {
		resp.Message = fmt.Sprintf("Auto-alpha executed today with %d students", count)
	} else {
		resp.Message = "Auto-alpha not executed yet today"
	}

	_ = s.cache.Set(ctx, key, resp, s.cacheTTL)
	return resp
}

// InvalidateToday drops the cached status after a run writes new records.
func (s *StatusService) InvalidateToday(ctx context.Context) {
	from, _ := dayBounds(s.now().In(s.loc))
	_ = s.cache.Invalidate(ctx, statusCacheKey(from))
}

func statusCacheKey(day time.Time) string {
	return "auto_alpha:status:" + day.Format("2006-01-02")
}

// dayBounds returns the half-open local day interval [startOfDay, startOfNextDay).
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
