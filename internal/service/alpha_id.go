package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AlphaIDPrefix is the namespace tag shared by all auto-generated record IDs.
const AlphaIDPrefix = "idpr04"

// AlphaID is an allocation result. Fallback marks a degraded-mode identifier
// derived from wall-clock time instead of the sequential counter, so callers
// can tell degraded operation apart from normal operation.
type AlphaID struct {
	Value    string
	Fallback bool
}

type alphaIDSource interface {
	LastIDWithPrefix(ctx context.Context, prefix string) (string, error)
}

// AlphaIDAllocator issues sequential record identifiers within a single
// reconciliation run. It is seeded lazily from the persisted high-water mark
// and then counts in memory, so every allocation in one batch is distinct even
// though none of the records are committed yet. Allocators must not outlive
// their run: construct a fresh one per invocation.
type AlphaIDAllocator struct {
	repo   alphaIDSource
	logger *zap.Logger
	now    func() time.Time

	seeded       bool
	next         int
	fallbackSeq  int
	warnedOnWide bool
}

// NewAlphaIDAllocator constructs an allocator scoped to one run.
func NewAlphaIDAllocator(repo alphaIDSource, logger *zap.Logger) *AlphaIDAllocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlphaIDAllocator{repo: repo, logger: logger, now: time.Now}
}

// Next returns the next identifier. A failed high-water-mark lookup does not
// abort the run: it degrades to a wall-clock fallback ID, because the record
// content (nisn + day) is the true dedup key and closure must complete.
func (a *AlphaIDAllocator) Next(ctx context.Context) AlphaID {
	if !a.seeded {
		if err := a.seed(ctx); err != nil {
			a.logger.Warn("alpha id high-water mark lookup failed, using fallback id", zap.Error(err))
			return a.fallback()
		}
	}
	n := a.next
	a.next++
	if n > 9999 && !a.warnedOnWide {
		a.warnedOnWide = true
		a.logger.Warn("alpha id counter exceeded 4-digit width, widening field", zap.Int("counter", n))
	}
	return AlphaID{Value: fmt.Sprintf("%s%04d", AlphaIDPrefix, n)}
}

func (a *AlphaIDAllocator) seed(ctx context.Context) error {
	last, err := a.repo.LastIDWithPrefix(ctx, AlphaIDPrefix)
	if err != nil {
		return err
	}
	next := 1
	if strings.HasPrefix(last, AlphaIDPrefix) && len(last) > len(AlphaIDPrefix) {
		if parsed, err := strconv.Atoi(last[len(AlphaIDPrefix):]); err == nil {
			next = parsed + 1
		}
	}
	a.next = next
	a.seeded = true
	a.logger.Debug("alpha id allocator seeded", zap.String("last_id", last), zap.Int("next", next))
	return nil
}

// fallback builds an always-available identifier from the current hour and
// minute plus a run-local sequence, keeping IDs distinct within one batch.
func (a *AlphaIDAllocator) fallback() AlphaID {
	now := a.now()
	seq := a.fallbackSeq
	a.fallbackSeq++
	return AlphaID{
		Value:    fmt.Sprintf("%s%02d%02d%02d", AlphaIDPrefix, now.Hour(), now.Minute(), seq),
		Fallback: true,
	}
}
