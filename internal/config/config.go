package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	envfiles "github.com/robertozapata/portfolio/internal/config/env"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/mail"
	"github.com/robertozapata/portfolio/internal/ratelimit"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all configuration for the server
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the socket address is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Logging Configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"30"`
	LogRequests   bool   `env:"LOG_REQUESTS" envDefault:"false"`

	// Email Configuration
	EmailProvider   string        `env:"EMAIL_PROVIDER" envDefault:"resend"`
	ResendAPIKey    string        `env:"RESEND_API_KEY"`
	ResendFromEmail string        `env:"RESEND_FROM_EMAIL"`
	ResendToEmail   string        `env:"RESEND_TO_EMAIL"`
	SMTPHost        string        `env:"SMTP_HOST"`
	SMTPPort        int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser        string        `env:"SMTP_USER"`
	SMTPPass        string        `env:"SMTP_PASS"`
	SMTPSSL         bool          `env:"SMTP_SSL" envDefault:"false"`
	MboxPath        string        `env:"MBOX_PATH" envDefault:"./logs/contact.mbox"`
	TelegramToken   string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID  string        `env:"TELEGRAM_CHAT_ID"`
	MailTimeout     time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`
	SiteName        string        `env:"SITE_NAME" envDefault:"roberto-zapata.dev"`

	// Rate Limit Configuration
	ContactRateWindow     time.Duration `env:"CONTACT_RATE_WINDOW" envDefault:"60s"`
	ContactRateStaleAfter time.Duration `env:"CONTACT_RATE_STALE_AFTER" envDefault:"5m"`
	ContactRateSweepEvery time.Duration `env:"CONTACT_RATE_SWEEP_INTERVAL" envDefault:"5m"`
	RateLimitStore        string        `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	RateLimitIPRPS        float64       `env:"RATE_LIMIT_IP_RPS" envDefault:"1"`
	RateLimitIPBurst      int           `env:"RATE_LIMIT_IP_BURST" envDefault:"5"`

	// Language Configuration
	DefaultLanguage   string `env:"DEFAULT_LANGUAGE" envDefault:"es"`
	LanguageNegotiate bool   `env:"LANGUAGE_NEGOTIATE" envDefault:"false"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	// The file matching ENV takes precedence over .env
	envLocations := []string{envfiles.File(os.Getenv("ENV")), ".env"}

	// godotenv never overrides variables that are already set, so
	// loading every file that exists layers them by precedence
	for _, loc := range envLocations {
		_ = godotenv.Load(loc)
	}

	return Parse()
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.normalize()
}

// ParseEnv reads the configuration from vars instead of the process
// environment
func ParseEnv(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.normalize()
}

func (c *Config) normalize() (*Config, error) {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.EmailProvider = strings.ToLower(strings.TrimSpace(c.EmailProvider))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if c.LogFile == "" {
		if c.IsProduction() {
			c.LogFile = "/app/logs/api.log"
		} else {
			c.LogFile = "./logs/api.log"
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values that cannot be fixed up with a default. Missing
// mail credentials are not an error here; the server starts and reports
// them per request.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("invalid ENV %q", c.Environment)
	}
	if _, err := i18n.ParseLanguage(c.DefaultLanguage); err != nil {
		return fmt.Errorf("invalid DEFAULT_LANGUAGE: %w", err)
	}
	switch c.EmailProvider {
	case mail.ProviderResend, mail.ProviderSMTP, mail.ProviderMbox, mail.ProviderTelegram:
	default:
		return fmt.Errorf("invalid EMAIL_PROVIDER %q", c.EmailProvider)
	}
	switch strings.ToLower(c.RateLimitStore) {
	case ratelimit.StoreMemory, ratelimit.StoreBadger:
	default:
		return fmt.Errorf("invalid RATE_LIMIT_STORE %q", c.RateLimitStore)
	}
	if c.ContactRateWindow <= 0 {
		return fmt.Errorf("CONTACT_RATE_WINDOW must be positive")
	}
	if c.ContactRateStaleAfter < c.ContactRateWindow {
		return fmt.Errorf("CONTACT_RATE_STALE_AFTER must not be shorter than CONTACT_RATE_WINDOW")
	}
	if c.RateLimitIPRPS <= 0 || c.RateLimitIPBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_IP_RPS and RATE_LIMIT_IP_BURST must be positive")
	}
	return c.Logging().Validate()
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Language returns the parsed default language
func (c *Config) Language() i18n.Language {
	l, err := i18n.ParseLanguage(c.DefaultLanguage)
	if err != nil {
		return i18n.DefaultLanguage
	}
	return l
}

// Logging returns the logger configuration
func (c *Config) Logging() *logging.LogConfig {
	return &logging.LogConfig{
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
		Requests:   c.LogRequests,
	}
}

// Mail returns the mail provider configuration
func (c *Config) Mail() mail.Config {
	return mail.Config{
		Provider:     c.EmailProvider,
		From:         c.ResendFromEmail,
		To:           c.ResendToEmail,
		SiteName:     c.SiteName,
		Language:     c.Language(),
		Timeout:      c.MailTimeout,
		ResendAPIKey: c.ResendAPIKey,
		SMTP: mail.SMTPConfig{
			Host: c.SMTPHost,
			Port: c.SMTPPort,
			User: c.SMTPUser,
			Pass: c.SMTPPass,
			SSL:  c.SMTPSSL,
		},
		MboxPath: c.MboxPath,
		Telegram: mail.TelegramConfig{
			BotToken: c.TelegramToken,
			ChatID:   c.TelegramChatID,
		},
	}
}

// RateLimit returns the per-email limiter configuration
func (c *Config) RateLimit() ratelimit.Config {
	return ratelimit.Config{
		Window:     c.ContactRateWindow,
		StaleAfter: c.ContactRateStaleAfter,
	}
}
