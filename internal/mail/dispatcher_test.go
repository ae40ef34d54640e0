package mail

import (
	"context"
	"errors"
	"io"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/jordan-wright/email"
	"github.com/resend/resend-go/v2"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name        string
	checkFunc   func() error
	deliverFunc func(ctx context.Context, env Envelope) (string, error)
	delivered   []Envelope
}

func (f *fakeProvider) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeProvider) Check() error {
	if f.checkFunc != nil {
		return f.checkFunc()
	}
	return nil
}

func (f *fakeProvider) Deliver(ctx context.Context, env Envelope) (string, error) {
	f.delivered = append(f.delivered, env)
	if f.deliverFunc != nil {
		return f.deliverFunc(ctx, env)
	}
	return "msg-1", nil
}

var testMessage = Message{
	Name:    "Ana Pérez",
	Email:   "ana@example.com",
	Subject: "Job inquiry",
	Body:    "Hello, I would like to talk about a role.",
}

func newTestDispatcher(p Provider, to string) *Dispatcher {
	renderer := NewRenderer(i18n.MustLoad(), i18n.Spanish, "roberto-zapata.dev")
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return NewDispatcher(p, renderer, "portfolio@roberto-zapata.dev", to, WithClock(clock))
}

func TestDispatcherSend(t *testing.T) {
	req := require.New(t)
	p := &fakeProvider{}
	d := newTestDispatcher(p, "owner@example.com")

	receipt, err := d.Send(context.Background(), testMessage)
	req.NoError(err)
	req.Equal("msg-1", receipt.ID)
	req.Equal("fake", receipt.Provider)
	req.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), receipt.SentAt)

	req.Len(p.delivered, 1)
	env := p.delivered[0]
	req.Equal("Portfolio Contact: Job inquiry", env.Subject)
	req.Equal("ana@example.com", env.ReplyTo)
	req.Equal("portfolio@roberto-zapata.dev", env.From)
	req.Equal([]string{"owner@example.com"}, env.To)
	req.True(strings.HasSuffix(env.MessageID, "@roberto-zapata.dev>"))
	req.Contains(env.HTML, "Ana Pérez")
	req.Contains(env.Text, "Nombre: Ana Pérez")
	req.Contains(env.Text, "Responder a: ana@example.com")
}

func TestDispatcherSplitsRecipients(t *testing.T) {
	p := &fakeProvider{}
	d := newTestDispatcher(p, " owner@example.com, ,backup@example.com ")

	_, err := d.Send(context.Background(), testMessage)
	require.NoError(t, err)
	require.Equal(t, []string{"owner@example.com", "backup@example.com"}, p.delivered[0].To)
}

func TestDispatcherFallsBackToMessageID(t *testing.T) {
	p := &fakeProvider{deliverFunc: func(context.Context, Envelope) (string, error) { return "", nil }}
	d := newTestDispatcher(p, "owner@example.com")

	receipt, err := d.Send(context.Background(), testMessage)
	require.NoError(t, err)
	require.Equal(t, p.delivered[0].MessageID, receipt.ID)
}

func TestDispatcherConfigurationErrors(t *testing.T) {
	tests := []struct {
		name        string
		provider    *fakeProvider
		from        string
		to          string
		wantSetting string
	}{
		{
			name: "provider credential missing",
			provider: &fakeProvider{checkFunc: func() error {
				return &ConfigurationError{Setting: SettingResendAPIKey}
			}},
			from:        "a@b.com",
			to:          "c@d.com",
			wantSetting: SettingResendAPIKey,
		},
		{
			name:        "from missing",
			provider:    &fakeProvider{},
			to:          "c@d.com",
			wantSetting: SettingFrom,
		},
		{
			name:        "to missing",
			provider:    &fakeProvider{},
			from:        "a@b.com",
			to:          " , ",
			wantSetting: SettingTo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			renderer := NewRenderer(i18n.MustLoad(), i18n.English, "example.dev")
			d := NewDispatcher(tt.provider, renderer, tt.from, tt.to)

			_, err := d.Send(context.Background(), testMessage)
			var cerr *ConfigurationError
			req.ErrorAs(err, &cerr)
			req.Equal(tt.wantSetting, cerr.Setting)
			req.ErrorIs(err, ErrNotConfigured)
			req.Empty(tt.provider.delivered)
		})
	}
}

func TestDispatcherWrapsProviderFailures(t *testing.T) {
	req := require.New(t)
	cause := errors.New("connection refused")
	p := &fakeProvider{name: "smtp", deliverFunc: func(context.Context, Envelope) (string, error) {
		return "", cause
	}}
	d := newTestDispatcher(p, "owner@example.com")

	_, err := d.Send(context.Background(), testMessage)
	var perr *ProviderError
	req.ErrorAs(err, &perr)
	req.Equal("smtp", perr.Provider)
	req.ErrorIs(err, cause)
	req.ErrorIs(err, ErrDelivery)
}

func TestRendererEscapesHTML(t *testing.T) {
	req := require.New(t)
	r := NewRenderer(i18n.MustLoad(), i18n.English, "example.dev")

	body, err := r.HTML(Message{
		Name:    `<script>alert("x")</script>`,
		Email:   "a@b.com",
		Subject: "Tom & Jerry's",
		Body:    "1 < 2 > 0",
	})
	req.NoError(err)
	req.NotContains(body, "<script>")
	req.Contains(body, "&lt;script&gt;")
	req.Contains(body, "Tom &amp; Jerry&#39;s")
	req.Contains(body, "1 &lt; 2 &gt; 0")
	req.Contains(body, `lang="en"`)
	req.Contains(body, "New contact message")
	req.Contains(body, "This message was sent from the contact form at example.dev")
}

func TestRendererText(t *testing.T) {
	req := require.New(t)
	r := NewRenderer(i18n.MustLoad(), i18n.Spanish, "roberto-zapata.dev")

	text, err := r.Text(testMessage)
	req.NoError(err)
	req.True(strings.HasPrefix(text, "NUEVO MENSAJE DE CONTACTO"))
	req.Contains(text, "Asunto: Job inquiry")
	req.Contains(text, "Mensaje:\nHello, I would like to talk about a role.")
	req.Contains(text, "Este mensaje fue enviado desde el formulario de contacto de roberto-zapata.dev")
}

type fakeResendEmails struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeResendEmails) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "re_123"}, nil
}

func TestResendProvider(t *testing.T) {
	req := require.New(t)
	emails := &fakeResendEmails{}
	p := &ResendProvider{apiKey: "re_key", emails: emails}
	d := newTestDispatcher(p, "owner@example.com")

	receipt, err := d.Send(context.Background(), testMessage)
	req.NoError(err)
	req.Equal("re_123", receipt.ID)
	req.Equal(ProviderResend, receipt.Provider)

	req.Len(emails.sent, 1)
	sent := emails.sent[0]
	req.Equal("ana@example.com", sent.ReplyTo)
	req.Equal([]string{"owner@example.com"}, sent.To)
	req.Equal("Portfolio Contact: Job inquiry", sent.Subject)
	req.NotEmpty(sent.Html)
	req.NotEmpty(sent.Text)
}

func TestResendProviderErrors(t *testing.T) {
	req := require.New(t)

	req.ErrorIs(NewResendProvider("", 0).Check(), ErrNotConfigured)

	p := &ResendProvider{apiKey: "re_key", emails: &fakeResendEmails{err: errors.New("401 unauthorized")}}
	_, err := p.Deliver(context.Background(), Envelope{})
	var perr *ProviderError
	req.ErrorAs(err, &perr)
	req.Equal(ProviderResend, perr.Provider)
}

func TestSMTPProviderCheck(t *testing.T) {
	full := SMTPConfig{Host: "smtp.example.com", Port: 587, User: "u", Pass: "p"}

	tests := []struct {
		name        string
		mutate      func(*SMTPConfig)
		wantSetting string
	}{
		{"complete", func(*SMTPConfig) {}, ""},
		{"host", func(c *SMTPConfig) { c.Host = "" }, SettingSMTPHost},
		{"port", func(c *SMTPConfig) { c.Port = 0 }, SettingSMTPPort},
		{"user", func(c *SMTPConfig) { c.User = "" }, SettingSMTPUser},
		{"pass", func(c *SMTPConfig) { c.Pass = "" }, SettingSMTPPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)
			err := NewSMTPProvider(cfg, 0).Check()
			if tt.wantSetting == "" {
				require.NoError(t, err)
				return
			}
			var cerr *ConfigurationError
			require.ErrorAs(t, err, &cerr)
			require.Equal(t, tt.wantSetting, cerr.Setting)
		})
	}
}

func TestSMTPProviderDeliver(t *testing.T) {
	req := require.New(t)
	p := NewSMTPProvider(SMTPConfig{Host: "smtp.example.com", Port: 2525, User: "u", Pass: "p"}, time.Second)

	var gotAddr string
	var got *email.Email
	p.send = func(e *email.Email, addr string, _ smtp.Auth) error {
		gotAddr = addr
		got = e
		return nil
	}

	d := newTestDispatcher(p, "owner@example.com")
	receipt, err := d.Send(context.Background(), testMessage)
	req.NoError(err)
	req.Equal("smtp.example.com:2525", gotAddr)
	req.Equal([]string{"ana@example.com"}, got.ReplyTo)
	req.Equal(receipt.ID, got.Headers.Get("Message-Id"))

	p.send = func(*email.Email, string, smtp.Auth) error { return errors.New("535 auth failed") }
	_, err = d.Send(context.Background(), testMessage)
	req.ErrorIs(err, ErrDelivery)
}

func TestSMTPProviderHonorsContext(t *testing.T) {
	p := NewSMTPProvider(SMTPConfig{Host: "h", Port: 25, User: "u", Pass: "p"}, time.Minute)
	block := make(chan struct{})
	defer close(block)
	p.send = func(*email.Email, string, smtp.Auth) error {
		<-block
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Deliver(ctx, Envelope{MessageID: "<x@y>"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMboxProviderAppends(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "mail", "contact.mbox")
	p := NewMboxProvider(path)
	d := newTestDispatcher(p, "owner@example.com")

	first, err := d.Send(context.Background(), testMessage)
	req.NoError(err)
	second, err := d.Send(context.Background(), testMessage)
	req.NoError(err)
	req.NotEqual(first.ID, second.ID)

	f, err := os.Open(path)
	req.NoError(err)
	defer f.Close()

	reader := mbox.NewReader(f)
	var messages []string
	for {
		r, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		req.NoError(err)
		raw, err := io.ReadAll(r)
		req.NoError(err)
		messages = append(messages, string(raw))
	}
	req.Len(messages, 2)
	req.Contains(messages[0], first.ID)
	req.Contains(messages[0], "Reply-To: ana@example.com")
	req.Contains(messages[1], second.ID)
}

func TestMboxProviderCheck(t *testing.T) {
	require.ErrorIs(t, NewMboxProvider("").Check(), ErrNotConfigured)
	require.NoError(t, NewMboxProvider("x.mbox").Check())
}

func TestNewProvider(t *testing.T) {
	req := require.New(t)

	p, err := NewProvider(Config{})
	req.NoError(err)
	req.Equal(ProviderResend, p.Name())

	p, err = NewProvider(Config{Provider: "SMTP"})
	req.NoError(err)
	req.Equal(ProviderSMTP, p.Name())

	p, err = NewProvider(Config{Provider: "mbox", MboxPath: "x"})
	req.NoError(err)
	req.Equal(ProviderMbox, p.Name())

	p, err = NewProvider(Config{Provider: "telegram"})
	req.NoError(err)
	req.Equal(ProviderTelegram, p.Name())

	_, err = NewProvider(Config{Provider: "sendgrid"})
	req.Error(err)
}
