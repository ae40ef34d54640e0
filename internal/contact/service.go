package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/mail"
	"github.com/robertozapata/portfolio/internal/ratelimit"
)

// Sender dispatches a rendered contact message
type Sender interface {
	Send(ctx context.Context, msg mail.Message) (mail.Receipt, error)
}

// Service runs the contact pipeline: validate, rate-limit, dispatch, record
type Service struct {
	schema  *Schema
	limiter *ratelimit.Limiter
	sender  Sender
	logger  *logging.Logger
	now     func() time.Time
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithClock overrides the service's time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger used for pipeline events
func WithLogger(logger *logging.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(schema *Schema, limiter *ratelimit.Limiter, sender Sender, opts ...ServiceOption) *Service {
	s := &Service{
		schema:  schema,
		limiter: limiter,
		sender:  sender,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.GetGlobalLogger()
	}
	return s
}

// Schema returns the schema the service validates with
func (s *Service) Schema() *Schema {
	return s.schema
}

// Window returns the per-email cooldown
func (s *Service) Window() time.Duration {
	return s.limiter.Window()
}

// Submit validates in, enforces the per-email cooldown, sends the message
// and records the accepted submission. It returns *ValidationError,
// *RateLimitError, the dispatcher's error unchanged, or a wrapped store
// error. A failed dispatch does not consume the cooldown.
func (s *Service) Submit(ctx context.Context, in Input, lang i18n.Language) (mail.Receipt, error) {
	sub, err := s.schema.Validate(in, lang)
	if err != nil {
		return mail.Receipt{}, err
	}

	now := s.now()
	decision, err := s.limiter.Check(ctx, sub.Email(), now)
	if err != nil {
		return mail.Receipt{}, fmt.Errorf("check rate limit: %w", err)
	}
	if !decision.Allowed {
		s.logger.Debug("Contact submission from %s rate limited for %ds", sub.Email(), decision.RetryAfterSeconds())
		return mail.Receipt{}, &RateLimitError{RetryAfter: decision.RetryAfter}
	}

	receipt, err := s.sender.Send(ctx, mail.Message{
		Name:    sub.Name(),
		Email:   sub.Email(),
		Subject: sub.Subject(),
		Body:    sub.Message(),
	})
	if err != nil {
		return mail.Receipt{}, err
	}

	removed, err := s.limiter.Record(ctx, sub.Email(), now)
	if err != nil {
		// Already delivered, so the request still succeeds
		s.logger.Warn("Failed to record contact submission for %s: %v", sub.Email(), err)
	} else if removed > 0 {
		s.logger.Debug("Swept %d stale rate limit entries", removed)
	}

	s.logger.Info("Contact message %s sent via %s", receipt.ID, receipt.Provider)
	return receipt, nil
}
