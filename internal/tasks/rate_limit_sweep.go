package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/ratelimit"
)

// RateLimitSweeper periodically drops stale rate limit entries, so a quiet
// server does not keep every address it has seen
type RateLimitSweeper struct {
	limiter  *ratelimit.Limiter
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRateLimitSweeper creates a sweeper. A non-positive interval disables it.
func NewRateLimitSweeper(limiter *ratelimit.Limiter, interval time.Duration, logger *logging.Logger) *RateLimitSweeper {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &RateLimitSweeper{
		limiter:  limiter,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins the sweep task in the background
func (s *RateLimitSweeper) Start() {
	if s.interval <= 0 {
		s.logger.Info("Rate limit sweeper disabled")
		return
	}
	s.wg.Add(1)
	go s.runPeriodically()
}

// Stop gracefully stops the sweep task
func (s *RateLimitSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

// runPeriodically runs the sweep at regular intervals
func (s *RateLimitSweeper) runPeriodically() {
	defer s.wg.Done()
	s.logger.Info("Starting rate limit sweeper (every %s)", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			s.logger.Info("Rate limit sweeper stopped")
			return
		}
	}
}

func (s *RateLimitSweeper) sweep() int {
	removed, err := s.limiter.Sweep(context.Background(), s.now())
	if err != nil {
		s.logger.Error("Periodic rate limit sweep failed: %v", err)
		return 0
	}
	if removed > 0 {
		s.logger.Debug("Swept %d stale rate limit entries", removed)
	}
	return removed
}
