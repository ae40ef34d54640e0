package mail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/emersion/go-mbox"
)

// MboxProvider appends every message to a local mbox file. It is meant for
// development, where no real relay is available.
type MboxProvider struct {
	path string
	mu   sync.Mutex
}

func NewMboxProvider(path string) *MboxProvider {
	return &MboxProvider{path: path}
}

func (p *MboxProvider) Name() string {
	return ProviderMbox
}

func (p *MboxProvider) Check() error {
	if p.path == "" {
		return &ConfigurationError{Setting: SettingMboxPath}
	}
	return nil
}

func (p *MboxProvider) Deliver(ctx context.Context, env Envelope) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ProviderError{Provider: ProviderMbox, Err: err}
	}

	raw, err := newEmail(env).Bytes()
	if err != nil {
		return "", &ProviderError{Provider: ProviderMbox, Err: fmt.Errorf("encode message: %w", err)}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.appendMessage(env, raw); err != nil {
		return "", &ProviderError{Provider: ProviderMbox, Err: err}
	}
	return env.MessageID, nil
}

func (p *MboxProvider) appendMessage(env Envelope, raw []byte) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create mbox directory: %w", err)
	}

	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open mbox: %w", err)
	}
	defer f.Close()

	mw := mbox.NewWriter(f)
	w, err := mw.CreateMessage(env.From, env.Date)
	if err != nil {
		return fmt.Errorf("create mbox message: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write mbox message: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close mbox writer: %w", err)
	}
	return f.Close()
}
