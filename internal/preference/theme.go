package preference

import (
	"fmt"
	"strings"
	"sync"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"

	DefaultTheme = ThemeSystem
)

// ParseTheme accepts light, dark or system, case-insensitively
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", fmt.Errorf("unsupported theme %q", s)
}

func (t Theme) String() string {
	return string(t)
}

// ThemeContext holds the active color theme
type ThemeContext struct {
	mu    sync.RWMutex
	theme Theme
	store Store
	doc   Document
}

// NewThemeContext reads the stored theme, keeping DefaultTheme when none
// is stored
func NewThemeContext(store Store, doc Document) *ThemeContext {
	if doc == nil {
		doc = NopDocument{}
	}
	tc := &ThemeContext{theme: DefaultTheme, store: store, doc: doc}
	if stored, ok := store.Get(ThemeKey); ok {
		if t, err := ParseTheme(stored); err == nil {
			tc.theme = t
		}
	}
	doc.SetTheme(tc.theme)
	return tc
}

func (tc *ThemeContext) Theme() Theme {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.theme
}

func (tc *ThemeContext) SetTheme(theme Theme) error {
	parsed, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.apply(parsed)
}

// ToggleTheme switches dark to light and anything else to dark
func (tc *ThemeContext) ToggleTheme() (Theme, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	next := ThemeDark
	if tc.theme == ThemeDark {
		next = ThemeLight
	}
	if err := tc.apply(next); err != nil {
		return tc.theme, err
	}
	return next, nil
}

func (tc *ThemeContext) apply(theme Theme) error {
	if err := tc.store.Set(ThemeKey, theme.String()); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	tc.theme = theme
	tc.doc.SetTheme(theme)
	return nil
}
