package config

import (
	"testing"
	"time"

	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/mail"
	"github.com/stretchr/testify/require"
)

func TestParseEnvDefaults(t *testing.T) {
	req := require.New(t)

	cfg, err := ParseEnv(map[string]string{})
	req.NoError(err)
	req.Equal(EnvDevelopment, cfg.Environment)
	req.Equal("8080", cfg.Port)
	req.Equal(mail.ProviderResend, cfg.EmailProvider)
	req.Equal(60*time.Second, cfg.ContactRateWindow)
	req.Equal(5*time.Minute, cfg.ContactRateStaleAfter)
	req.Equal(10*time.Second, cfg.MailTimeout)
	req.Equal(i18n.Spanish, cfg.Language())
	req.False(cfg.LanguageNegotiate)
	req.Equal("./logs/api.log", cfg.LogFile)
	req.Equal("roberto-zapata.dev", cfg.SiteName)
	req.Empty(cfg.TrustedProxies)
}

func TestParseEnvOverrides(t *testing.T) {
	req := require.New(t)

	cfg, err := ParseEnv(map[string]string{
		"ENV":                 "production",
		"ALLOWED_ORIGINS":     "https://roberto-zapata.dev,https://www.roberto-zapata.dev",
		"TRUSTED_PROXIES":     "10.0.0.0/8,127.0.0.1",
		"EMAIL_PROVIDER":      "SMTP",
		"SMTP_HOST":           "smtp.example.com",
		"SMTP_PORT":           "465",
		"SMTP_SSL":            "true",
		"RESEND_FROM_EMAIL":   "from@example.com",
		"RESEND_TO_EMAIL":     "to@example.com",
		"CONTACT_RATE_WINDOW": "30s",
		"DEFAULT_LANGUAGE":    "en",
		"RATE_LIMIT_STORE":    "badger",
	})
	req.NoError(err)
	req.True(cfg.IsProduction())
	req.Equal([]string{"https://roberto-zapata.dev", "https://www.roberto-zapata.dev"}, cfg.AllowedOrigins)
	req.Equal("/app/logs/api.log", cfg.LogFile)
	req.Equal([]string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)

	m := cfg.Mail()
	req.Equal(mail.ProviderSMTP, m.Provider)
	req.Equal(465, m.SMTP.Port)
	req.True(m.SMTP.SSL)
	req.Equal(i18n.English, m.Language)
	req.Equal("from@example.com", m.From)

	rl := cfg.RateLimit()
	req.Equal(30*time.Second, rl.Window)
}

func TestParseEnvTelegram(t *testing.T) {
	req := require.New(t)

	cfg, err := ParseEnv(map[string]string{
		"EMAIL_PROVIDER":     "telegram",
		"TELEGRAM_BOT_TOKEN": "123:abc",
		"TELEGRAM_CHAT_ID":   "-100",
	})
	req.NoError(err)

	m := cfg.Mail()
	req.Equal(mail.ProviderTelegram, m.Provider)
	req.Equal("123:abc", m.Telegram.BotToken)
	req.Equal("-100", m.Telegram.ChatID)
}

func TestParseEnvRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"environment", map[string]string{"ENV": "staging"}},
		{"language", map[string]string{"DEFAULT_LANGUAGE": "fr"}},
		{"provider", map[string]string{"EMAIL_PROVIDER": "sendgrid"}},
		{"store", map[string]string{"RATE_LIMIT_STORE": "redis"}},
		{"window", map[string]string{"CONTACT_RATE_WINDOW": "0s"}},
		{"stale shorter than window", map[string]string{"CONTACT_RATE_WINDOW": "10m"}},
		{"ip burst", map[string]string{"RATE_LIMIT_IP_BURST": "0"}},
		{"log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"duration syntax", map[string]string{"MAIL_TIMEOUT": "ten seconds"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnv(tt.vars)
			require.Error(t, err)
		})
	}
}
