package mail

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/jordan-wright/email"
)

// DefaultTimeout bounds one provider round trip
const DefaultTimeout = 10 * time.Second

// SMTPConfig describes an SMTP relay
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	// SSL selects implicit TLS; otherwise the connection upgrades with
	// STARTTLS when the server offers it
	SSL bool
}

// SMTPProvider delivers through an SMTP relay
type SMTPProvider struct {
	cfg     SMTPConfig
	timeout time.Duration
	send    func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewSMTPProvider(cfg SMTPConfig, timeout time.Duration) *SMTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &SMTPProvider{cfg: cfg, timeout: timeout}
	if cfg.SSL {
		p.send = func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.SendWithTLS(addr, auth, &tls.Config{ServerName: cfg.Host})
		}
	} else {
		p.send = func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		}
	}
	return p
}

func (p *SMTPProvider) Name() string {
	return ProviderSMTP
}

func (p *SMTPProvider) Check() error {
	switch {
	case p.cfg.Host == "":
		return &ConfigurationError{Setting: SettingSMTPHost}
	case p.cfg.Port <= 0:
		return &ConfigurationError{Setting: SettingSMTPPort}
	case p.cfg.User == "":
		return &ConfigurationError{Setting: SettingSMTPUser}
	case p.cfg.Pass == "":
		return &ConfigurationError{Setting: SettingSMTPPass}
	}
	return nil
}

// Deliver sends env and waits at most the provider timeout or until ctx is
// done, whichever comes first
func (p *SMTPProvider) Deliver(ctx context.Context, env Envelope) (string, error) {
	e := newEmail(env)
	addr := net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port))
	auth := smtp.PlainAuth("", p.cfg.User, p.cfg.Pass, p.cfg.Host)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- p.send(e, addr, auth)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", &ProviderError{Provider: ProviderSMTP, Err: err}
		}
		return env.MessageID, nil
	case <-ctx.Done():
		return "", &ProviderError{Provider: ProviderSMTP, Err: ctx.Err()}
	}
}

// newEmail converts an envelope into a jordan-wright/email message
func newEmail(env Envelope) *email.Email {
	e := email.NewEmail()
	e.From = env.From
	e.To = env.To
	if env.ReplyTo != "" {
		e.ReplyTo = []string{env.ReplyTo}
	}
	e.Subject = env.Subject
	e.Text = []byte(env.Text)
	e.HTML = []byte(env.HTML)
	e.Headers = textproto.MIMEHeader{}
	e.Headers.Set("Message-Id", env.MessageID)
	e.Headers.Set("Date", env.Date.Format(time.RFC1123Z))
	return e
}
