package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanupExpiredSessions(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestScheduler_RunsCleanupOnStart(t *testing.T) {
	cleaner := &countingCleaner{}
	s := NewScheduler(cleaner, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return cleaner.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestScheduler_CleanupErrorIsLogged(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("db down")}
	s := NewScheduler(cleaner, zap.NewNop())

	s.cleanupSessions(context.Background())
	assert.Equal(t, int32(1), cleaner.calls.Load())
}

func TestScheduler_SkipsCancelledContext(t *testing.T) {
	cleaner := &countingCleaner{}
	s := NewScheduler(cleaner, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.cleanupSessions(ctx)
	assert.Zero(t, cleaner.calls.Load())
}
