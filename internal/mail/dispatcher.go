package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/robertozapata/portfolio/internal/mail"

// Dispatcher renders contact messages and hands them to one provider. It
// never retries.
type Dispatcher struct {
	provider Provider
	renderer *Renderer
	from     string
	to       []string
	domain   string
	tracer   trace.Tracer
	now      func() time.Time
}

// addressless is implemented by providers that deliver somewhere other
// than a mailbox and so need no From or To
type addressless interface {
	RequiresAddresses() bool
}

// DispatcherOption customizes a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithClock overrides the dispatcher's time source
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// WithTracer overrides the tracer used for the mail.send span
func WithTracer(tracer trace.Tracer) DispatcherOption {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}

// NewDispatcher creates a dispatcher sending from one address to a
// comma-separated list of recipients
func NewDispatcher(provider Provider, renderer *Renderer, from, to string, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		provider: provider,
		renderer: renderer,
		from:     strings.TrimSpace(from),
		to:       splitAddresses(to),
		domain:   "localhost",
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	if renderer != nil && renderer.site != "" {
		d.domain = renderer.site
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Provider returns the name of the configured provider
func (d *Dispatcher) Provider() string {
	return d.provider.Name()
}

// Check reports the first missing setting, if any
func (d *Dispatcher) Check() error {
	if err := d.provider.Check(); err != nil {
		return err
	}
	if ap, ok := d.provider.(addressless); ok && !ap.RequiresAddresses() {
		return nil
	}
	if d.from == "" {
		return &ConfigurationError{Setting: SettingFrom}
	}
	if len(d.to) == 0 {
		return &ConfigurationError{Setting: SettingTo}
	}
	return nil
}

// Send delivers msg. It fails with *ConfigurationError when a required
// setting is absent and with *ProviderError when the backend fails.
func (d *Dispatcher) Send(ctx context.Context, msg Message) (Receipt, error) {
	ctx, span := d.tracer.Start(ctx, "mail.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("mail.provider", d.provider.Name())),
	)
	defer span.End()

	receipt, err := d.send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mail delivery failed")
		return Receipt{}, err
	}
	span.SetAttributes(attribute.String("mail.message_id", receipt.ID))
	return receipt, nil
}

func (d *Dispatcher) send(ctx context.Context, msg Message) (Receipt, error) {
	if err := d.Check(); err != nil {
		return Receipt{}, err
	}

	env, err := d.Envelope(msg)
	if err != nil {
		return Receipt{}, err
	}

	id, err := d.provider.Deliver(ctx, env)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return Receipt{}, err
		}
		return Receipt{}, &ProviderError{Provider: d.provider.Name(), Err: err}
	}
	if id == "" {
		id = env.MessageID
	}

	return Receipt{
		ID:       id,
		Provider: d.provider.Name(),
		SentAt:   env.Date,
	}, nil
}

// Envelope renders msg without sending it
func (d *Dispatcher) Envelope(msg Message) (Envelope, error) {
	htmlBody, err := d.renderer.HTML(msg)
	if err != nil {
		return Envelope{}, err
	}
	textBody, err := d.renderer.Text(msg)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		MessageID: fmt.Sprintf("<%s@%s>", uuid.NewString(), d.domain),
		From:      d.from,
		To:        append([]string(nil), d.to...),
		ReplyTo:   msg.Email,
		Subject:   d.renderer.Subject(msg),
		HTML:      htmlBody,
		Text:      textBody,
		Date:      d.now(),
	}, nil
}

func splitAddresses(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(part string, _ int) string {
		return strings.TrimSpace(part)
	})
	return lo.Compact(parts)
}
