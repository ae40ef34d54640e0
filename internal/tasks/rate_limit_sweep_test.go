package tasks

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/ratelimit"
	"github.com/stretchr/testify/require"
)

func TestRateLimitSweeperRemovesStaleEntries(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	start := time.Now()

	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), ratelimit.Config{})
	_, err := limiter.Record(ctx, "old@example.com", start)
	req.NoError(err)
	_, err = limiter.Record(ctx, "new@example.com", start.Add(4*time.Minute))
	req.NoError(err)

	sweeper := NewRateLimitSweeper(limiter, time.Minute, logging.NewWriterLogger(&bytes.Buffer{}, logging.LevelDebug))
	sweeper.now = func() time.Time { return start.Add(6 * time.Minute) }

	req.Equal(1, sweeper.sweep())
	n, err := limiter.Len(ctx)
	req.NoError(err)
	req.Equal(1, n)
}

func TestRateLimitSweeperStartStop(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), ratelimit.Config{})
	logger := logging.NewWriterLogger(&bytes.Buffer{}, logging.LevelInfo)

	running := NewRateLimitSweeper(limiter, time.Millisecond, logger)
	running.Start()
	time.Sleep(5 * time.Millisecond)
	running.Stop()
	running.Stop()

	disabled := NewRateLimitSweeper(limiter, 0, logger)
	disabled.Start()
	disabled.Stop()
}
