package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idSourceStub struct {
	lastID string
	err    error
	calls  int
}

func (s *idSourceStub) LastIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.lastID, nil
}

func TestAlphaIDAllocatorSeedsFromHighWaterMark(t *testing.T) {
	alloc := NewAlphaIDAllocator(&idSourceStub{lastID: "idpr040007"}, nil)

	id := alloc.Next(context.Background())
	assert.Equal(t, "idpr040008", id.Value)
	assert.False(t, id.Fallback)
}

func TestAlphaIDAllocatorStartsAtOneWhenEmpty(t *testing.T) {
	alloc := NewAlphaIDAllocator(&idSourceStub{}, nil)

	id := alloc.Next(context.Background())
	assert.Equal(t, "idpr040001", id.Value)
	assert.False(t, id.Fallback)
}

func TestAlphaIDAllocatorStartsAtOneOnGarbageSuffix(t *testing.T) {
	alloc := NewAlphaIDAllocator(&idSourceStub{lastID: "idpr04abcd"}, nil)

	id := alloc.Next(context.Background())
	assert.Equal(t, "idpr040001", id.Value)
}

func TestAlphaIDAllocatorMonotonicWithinRun(t *testing.T) {
	source := &idSourceStub{lastID: "idpr040042"}
	alloc := NewAlphaIDAllocator(source, nil)

	seen := make(map[string]struct{})
	prev := ""
	for i := 0; i < 50; i++ {
		id := alloc.Next(context.Background())
		require.False(t, id.Fallback)
		_, dup := seen[id.Value]
		require.False(t, dup, "duplicate id %s", id.Value)
		seen[id.Value] = struct{}{}
		require.Greater(t, id.Value, prev)
		prev = id.Value
	}
	// Seeded once, counted in memory afterwards.
	assert.Equal(t, 1, source.calls)
}

func TestAlphaIDAllocatorWidensPastFourDigits(t *testing.T) {
	alloc := NewAlphaIDAllocator(&idSourceStub{lastID: "idpr049999"}, nil)

	id := alloc.Next(context.Background())
	assert.Equal(t, "idpr0410000", id.Value)
}

func TestAlphaIDAllocatorContinuesPastWidenedIDAcrossRuns(t *testing.T) {
	// After a run has issued idpr0410000, a later run seeded from it must
	// continue upward, not re-issue an already persisted identifier.
	alloc := NewAlphaIDAllocator(&idSourceStub{lastID: "idpr0410000"}, nil)

	id := alloc.Next(context.Background())
	assert.Equal(t, "idpr0410001", id.Value)
	assert.False(t, id.Fallback)
}

func TestAlphaIDAllocatorFallbackOnLookupFailure(t *testing.T) {
	alloc := NewAlphaIDAllocator(&idSourceStub{err: errors.New("store down")}, nil)
	alloc.now = func() time.Time {
		return time.Date(2024, 5, 13, 13, 56, 0, 0, time.UTC)
	}

	first := alloc.Next(context.Background())
	assert.True(t, first.Fallback)
	assert.Equal(t, fmt.Sprintf("%s135600", AlphaIDPrefix), first.Value)

	second := alloc.Next(context.Background())
	assert.True(t, second.Fallback)
	assert.NotEqual(t, first.Value, second.Value)
}

func TestAlphaIDAllocatorRecoversAfterLookupFailure(t *testing.T) {
	source := &idSourceStub{err: errors.New("store down")}
	alloc := NewAlphaIDAllocator(source, nil)

	id := alloc.Next(context.Background())
	require.True(t, id.Fallback)

	source.err = nil
	source.lastID = "idpr040003"
	id = alloc.Next(context.Background())
	assert.False(t, id.Fallback)
	assert.Equal(t, "idpr040004", id.Value)
}
