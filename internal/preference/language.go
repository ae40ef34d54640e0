package preference

import (
	"fmt"
	"sync"

	"github.com/robertozapata/portfolio/internal/i18n"
)

// LanguageContext holds the active language. Every change is written to the
// store and reflected on the document.
type LanguageContext struct {
	mu    sync.RWMutex
	lang  i18n.Language
	store Store
	doc   Document
}

// NewLanguageContext reads the stored language. An absent or unsupported
// value keeps def.
func NewLanguageContext(store Store, doc Document, def i18n.Language) *LanguageContext {
	if !def.IsSupported() {
		def = i18n.DefaultLanguage
	}
	if doc == nil {
		doc = NopDocument{}
	}
	lc := &LanguageContext{lang: def, store: store, doc: doc}
	if stored, ok := store.Get(LanguageKey); ok {
		if l, err := i18n.ParseLanguage(stored); err == nil {
			lc.lang = l
		}
	}
	doc.SetLanguage(lc.lang)
	return lc
}

func (lc *LanguageContext) Language() i18n.Language {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.lang
}

// SetLanguage switches to lang
func (lc *LanguageContext) SetLanguage(lang i18n.Language) error {
	if !lang.IsSupported() {
		return fmt.Errorf("unsupported language %q", lang)
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.apply(lang)
}

// ToggleLanguage flips between the two supported languages and returns the
// new one
func (lc *LanguageContext) ToggleLanguage() (i18n.Language, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	next := lc.lang.Other()
	if err := lc.apply(next); err != nil {
		return lc.lang, err
	}
	return next, nil
}

func (lc *LanguageContext) apply(lang i18n.Language) error {
	if err := lc.store.Set(LanguageKey, lang.String()); err != nil {
		return fmt.Errorf("failed to persist language: %w", err)
	}
	lc.lang = lang
	lc.doc.SetLanguage(lang)
	return nil
}
