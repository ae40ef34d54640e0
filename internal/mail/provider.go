package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/robertozapata/portfolio/internal/i18n"
)

// Config selects and configures the mail provider
type Config struct {
	Provider     string
	From         string
	To           string
	SiteName     string
	Language     i18n.Language
	Timeout      time.Duration
	ResendAPIKey string
	SMTP         SMTPConfig
	MboxPath     string
	Telegram     TelegramConfig
}

// NewProvider builds the provider named by cfg.Provider. Missing
// credentials are not an error here; Dispatcher.Check reports them.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderResend:
		return NewResendProvider(cfg.ResendAPIKey, cfg.Timeout), nil
	case ProviderSMTP:
		return NewSMTPProvider(cfg.SMTP, cfg.Timeout), nil
	case ProviderMbox:
		return NewMboxProvider(cfg.MboxPath), nil
	case ProviderTelegram:
		return NewTelegramProvider(cfg.Telegram, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// New builds a dispatcher for cfg, rendering bodies with catalog
func New(cfg Config, catalog *i18n.Catalog, opts ...DispatcherOption) (*Dispatcher, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	renderer := NewRenderer(catalog, cfg.Language, cfg.SiteName)
	return NewDispatcher(provider, renderer, cfg.From, cfg.To, opts...), nil
}
