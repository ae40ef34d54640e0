package i18n

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed translations.yaml
var embeddedTranslations []byte

// Args are placeholder values substituted into a translation, e.g. {seconds}
type Args map[string]any

// Catalog is the single translation resource of the site, keyed by language
// and then by dotted key.
type Catalog struct {
	messages map[Language]map[string]string
	fallback Language
	strict   bool
}

// Option configures a Catalog
type Option func(*Catalog)

// WithStrict makes a missing key panic instead of falling back. Use it in
// development so gaps are found before they reach visitors.
func WithStrict(strict bool) Option {
	return func(c *Catalog) {
		c.strict = strict
	}
}

// WithFallback sets the language used when a key is missing
func WithFallback(l Language) Option {
	return func(c *Catalog) {
		c.fallback = l
	}
}

// Load parses the embedded translation file
func Load(opts ...Option) (*Catalog, error) {
	return Parse(embeddedTranslations, opts...)
}

// MustLoad is Load for program start-up
func MustLoad(opts ...Option) *Catalog {
	c, err := Load(opts...)
	if err != nil {
		panic("failed to load translations: " + err.Error())
	}
	return c
}

// Parse builds a catalog from a YAML document whose top-level keys are
// language codes. Every language must define the same set of keys.
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}

	c := &Catalog{
		messages: make(map[Language]map[string]string, len(raw)),
		fallback: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}

	for code, tree := range raw {
		lang := Language(code)
		if !lang.IsSupported() {
			return nil, fmt.Errorf("translations define unsupported language %q", code)
		}
		flat := make(map[string]string)
		if err := flatten("", tree, flat); err != nil {
			return nil, fmt.Errorf("language %s: %w", code, err)
		}
		c.messages[lang] = flat
	}

	if _, ok := c.messages[c.fallback]; !ok {
		return nil, fmt.Errorf("translations missing fallback language %q", c.fallback)
	}
	if err := c.checkComplete(); err != nil {
		return nil, err
	}
	return c, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %s: unsupported value type %T", key, v)
		}
	}
	return nil
}

// checkComplete fails when a key exists in one language and not in another
func (c *Catalog) checkComplete() error {
	var missing []string
	for _, lang := range Supported() {
		msgs, ok := c.messages[lang]
		if !ok {
			return fmt.Errorf("translations missing language %q", lang)
		}
		for other, otherMsgs := range c.messages {
			if other == lang {
				continue
			}
			for key := range otherMsgs {
				if _, ok := msgs[key]; !ok {
					missing = append(missing, fmt.Sprintf("%s:%s", lang, key))
				}
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("incomplete translations: %s", strings.Join(lo.Uniq(missing), ", "))
	}
	return nil
}

// T returns the translation of key in lang with args substituted.
//
// A key missing from lang panics in strict mode. Otherwise the fallback
// language is tried and, failing that, the key itself is returned.
func (c *Catalog) T(lang Language, key string, args ...Args) string {
	msg, ok := c.lookup(lang, key)
	if !ok {
		if c.strict {
			panic(fmt.Sprintf("i18n: missing translation %q for language %q", key, lang))
		}
		msg, ok = c.lookup(c.fallback, key)
		if !ok {
			msg = key
		}
	}
	if len(args) == 0 {
		return msg
	}
	return substitute(msg, args[0])
}

// Has reports whether key is defined for lang
func (c *Catalog) Has(lang Language, key string) bool {
	_, ok := c.lookup(lang, key)
	return ok
}

// Bundle returns a copy of every translation of lang, for front-end clients
func (c *Catalog) Bundle(lang Language) (map[string]string, bool) {
	msgs, ok := c.messages[lang]
	if !ok {
		return nil, false
	}
	return lo.Assign(msgs), true
}

func (c *Catalog) lookup(lang Language, key string) (string, bool) {
	msgs, ok := c.messages[lang]
	if !ok {
		return "", false
	}
	msg, ok := msgs[key]
	return msg, ok
}

func substitute(msg string, args Args) string {
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
