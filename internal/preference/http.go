package preference

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robertozapata/portfolio/internal/i18n"
)

// CookieOptions control the preference cookies written by CookieStore
type CookieOptions struct {
	Domain string
	Path   string
	MaxAge int
	Secure bool
}

// DefaultCookieMaxAge keeps preference cookies for a year
const DefaultCookieMaxAge = 365 * 24 * 60 * 60

// CookieStore reads preferences from request cookies and writes them as
// response cookies. Values set during the request are visible to later
// reads in the same request.
type CookieStore struct {
	c       *gin.Context
	opts    CookieOptions
	pending map[string]string
}

func NewCookieStore(c *gin.Context, opts CookieOptions) *CookieStore {
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.MaxAge == 0 {
		opts.MaxAge = DefaultCookieMaxAge
	}
	return &CookieStore{c: c, opts: opts, pending: make(map[string]string)}
}

func (s *CookieStore) Get(key string) (string, bool) {
	if v, ok := s.pending[key]; ok {
		return v, true
	}
	v, err := s.c.Cookie(key)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (s *CookieStore) Set(key, value string) error {
	s.pending[key] = value
	// Readable from page scripts, like the browser's local storage
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, s.opts.MaxAge, s.opts.Path, s.opts.Domain, s.opts.Secure, false)
	return nil
}

// HeaderDocument reflects the active language in the Content-Language
// response header
type HeaderDocument struct {
	c *gin.Context
}

func NewHeaderDocument(c *gin.Context) *HeaderDocument {
	return &HeaderDocument{c: c}
}

func (d *HeaderDocument) SetLanguage(lang i18n.Language) {
	d.c.Header("Content-Language", lang.String())
}

func (d *HeaderDocument) SetTheme(Theme) {}
