package mail

import (
	"context"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendEmails is the part of the Resend SDK the provider uses
type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendProvider delivers through the Resend HTTP API
type ResendProvider struct {
	apiKey string
	emails resendEmails
}

// NewResendProvider creates a Resend provider. An empty apiKey is reported
// by Check rather than here, so a misconfigured server still starts.
func NewResendProvider(apiKey string, timeout time.Duration) *ResendProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, apiKey)
	return &ResendProvider{
		apiKey: apiKey,
		emails: client.Emails,
	}
}

func (p *ResendProvider) Name() string {
	return ProviderResend
}

func (p *ResendProvider) Check() error {
	if p.apiKey == "" {
		return &ConfigurationError{Setting: SettingResendAPIKey}
	}
	return nil
}

func (p *ResendProvider) Deliver(ctx context.Context, env Envelope) (string, error) {
	resp, err := p.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    env.From,
		To:      env.To,
		ReplyTo: env.ReplyTo,
		Subject: env.Subject,
		Html:    env.HTML,
		Text:    env.Text,
		Headers: map[string]string{"Message-Id": env.MessageID},
	})
	if err != nil {
		return "", &ProviderError{Provider: ProviderResend, Err: err}
	}
	if resp == nil {
		return "", nil
	}
	return resp.Id, nil
}
