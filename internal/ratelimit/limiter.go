package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultWindow is the cooldown between accepted submissions per email
	DefaultWindow = 60 * time.Second
	// DefaultStaleAfter is the age past which entries are swept
	DefaultStaleAfter = 5 * time.Minute
)

// Config defines the limiter's timing
type Config struct {
	Window     time.Duration
	StaleAfter time.Duration
}

// Decision is the outcome of a Check
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RetryAfterSeconds is the remaining wait rounded up to whole seconds
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}
	return int((d.RetryAfter + time.Second - 1) / time.Second)
}

// Limiter is a per-email timestamp gate. Check and Record are separate
// steps: the caller records only once the guarded action has succeeded, so
// two submissions racing through Check may both be allowed.
type Limiter struct {
	store      Store
	window     time.Duration
	staleAfter time.Duration
}

// NewLimiter creates a limiter over store. Zero durations take the defaults.
func NewLimiter(store Store, cfg Config) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	return &Limiter{
		store:      store,
		window:     cfg.Window,
		staleAfter: cfg.StaleAfter,
	}
}

// Window returns the cooldown between accepted submissions
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Check reports whether email may submit at now
func (l *Limiter) Check(ctx context.Context, email string, now time.Time) (Decision, error) {
	last, ok, err := l.store.Get(ctx, normalizeKey(email))
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check: %w", err)
	}
	if !ok {
		return Decision{Allowed: true}, nil
	}

	elapsed := now.Sub(last)
	if elapsed < l.window {
		return Decision{Allowed: false, RetryAfter: l.window - elapsed}, nil
	}
	return Decision{Allowed: true}, nil
}

// Record stores now as email's last accepted submission, then sweeps
// entries older than the staleness threshold. It returns how many entries
// the sweep removed.
func (l *Limiter) Record(ctx context.Context, email string, now time.Time) (int, error) {
	if err := l.store.Set(ctx, normalizeKey(email), now); err != nil {
		return 0, fmt.Errorf("rate limit record: %w", err)
	}

	return l.Sweep(ctx, now)
}

// Sweep removes entries older than the staleness threshold at now
func (l *Limiter) Sweep(ctx context.Context, now time.Time) (int, error) {
	removed, err := l.store.DeleteBefore(ctx, now.Add(-l.staleAfter))
	if err != nil {
		return 0, fmt.Errorf("rate limit sweep: %w", err)
	}
	return removed, nil
}

// Len returns the number of tracked emails
func (l *Limiter) Len(ctx context.Context) (int, error) {
	return l.store.Len(ctx)
}

// Close releases the underlying store
func (l *Limiter) Close() error {
	return l.store.Close()
}

func normalizeKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
