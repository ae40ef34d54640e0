package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const telegramAPI = "https://api.telegram.org"

// telegramMaxText is the Bot API limit for one message
const telegramMaxText = 4096

// TelegramConfig holds the bot credentials
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// TelegramProvider posts contact messages to a Telegram chat instead of a
// mailbox
type TelegramProvider struct {
	cfg     TelegramConfig
	baseURL string
	client  *http.Client
}

func NewTelegramProvider(cfg TelegramConfig, timeout time.Duration) *TelegramProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TelegramProvider{
		cfg:     cfg,
		baseURL: telegramAPI,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// telegramMessage represents a Telegram API message
type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

func (p *TelegramProvider) Name() string { return ProviderTelegram }

func (p *TelegramProvider) RequiresAddresses() bool { return false }

func (p *TelegramProvider) Check() error {
	if p.cfg.BotToken == "" {
		return &ConfigurationError{Setting: SettingTelegramBot}
	}
	if p.cfg.ChatID == "" {
		return &ConfigurationError{Setting: SettingTelegramChat}
	}
	return nil
}

func (p *TelegramProvider) Deliver(ctx context.Context, env Envelope) (string, error) {
	payload, err := json.Marshal(telegramMessage{
		ChatID:    p.cfg.ChatID,
		Text:      telegramText(env),
		ParseMode: "HTML",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", p.baseURL, p.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// The request URL carries the token
		return "", fmt.Errorf("failed to send telegram message: %s", redact(err.Error(), p.cfg.BotToken))
	}
	defer resp.Body.Close()

	var out telegramResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out)
	if resp.StatusCode != http.StatusOK || !out.OK {
		return "", fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, out.Description)
	}
	return strconv.FormatInt(out.Result.MessageID, 10), nil
}

// telegramText is the plain-text body under a bold header, cut to fit
// one message
func telegramText(env Envelope) string {
	head := fmt.Sprintf("<b>%s</b>\n<b>Reply-To:</b> %s\n\n",
		html.EscapeString(env.Subject),
		html.EscapeString(env.ReplyTo),
	)

	body := []rune(env.Text)
	suffix := ""
	for {
		text := head + html.EscapeString(string(body)) + suffix
		if utf8.RuneCountInString(text) <= telegramMaxText || len(body) == 0 {
			return text
		}
		body = body[:len(body)*9/10]
		suffix = "…"
	}
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "[MASKED]")
}
