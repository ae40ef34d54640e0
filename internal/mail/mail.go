package mail

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider names accepted by EMAIL_PROVIDER
const (
	ProviderResend   = "resend"
	ProviderSMTP     = "smtp"
	ProviderMbox     = "mbox"
	ProviderTelegram = "telegram"
)

// Setting names reported by ConfigurationError
const (
	SettingResendAPIKey = "RESEND_API_KEY"
	SettingFrom         = "RESEND_FROM_EMAIL"
	SettingTo           = "RESEND_TO_EMAIL"
	SettingSMTPHost     = "SMTP_HOST"
	SettingSMTPPort     = "SMTP_PORT"
	SettingSMTPUser     = "SMTP_USER"
	SettingSMTPPass     = "SMTP_PASS"
	SettingMboxPath     = "MBOX_PATH"
	SettingTelegramBot  = "TELEGRAM_BOT_TOKEN"
	SettingTelegramChat = "TELEGRAM_CHAT_ID"
)

var (
	ErrNotConfigured = errors.New("mail: not configured")
	ErrDelivery      = errors.New("mail: delivery failed")
)

// Message is a validated contact submission on its way to the site owner
type Message struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Envelope is a fully rendered email, ready for a provider
type Envelope struct {
	MessageID string
	From      string
	To        []string
	ReplyTo   string
	Subject   string
	HTML      string
	Text      string
	Date      time.Time
}

// Receipt identifies a delivered message
type Receipt struct {
	ID       string
	Provider string
	SentAt   time.Time
}

// Provider delivers rendered envelopes to a mail backend
type Provider interface {
	// Name returns the EMAIL_PROVIDER value this provider answers to
	Name() string
	// Check reports the first missing setting as a *ConfigurationError
	Check() error
	// Deliver sends env and returns the backend's message ID
	Deliver(ctx context.Context, env Envelope) (string, error)
}

// ConfigurationError names a required setting that is absent. The setting
// name is for the server log only.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mail: %s is not configured", e.Setting)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNotConfigured
}

// ProviderError wraps a failure reported by a mail backend
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mail: %s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	return []error{ErrDelivery, e.Err}
}
