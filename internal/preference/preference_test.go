package preference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/stretchr/testify/require"
)

type recordingDocument struct {
	langs  []i18n.Language
	themes []Theme
}

func (d *recordingDocument) SetLanguage(l i18n.Language) { d.langs = append(d.langs, l) }
func (d *recordingDocument) SetTheme(t Theme)            { d.themes = append(d.themes, t) }

type failingStore struct {
	*MemoryStore
}

func (failingStore) Set(string, string) error { return errors.New("quota exceeded") }

func TestLanguageToggle(t *testing.T) {
	req := require.New(t)
	store := NewMemoryStore()
	doc := &recordingDocument{}
	lc := NewLanguageContext(store, doc, i18n.DefaultLanguage)

	req.Equal(i18n.Spanish, lc.Language())

	next, err := lc.ToggleLanguage()
	req.NoError(err)
	req.Equal(i18n.English, next)
	req.Equal(i18n.English, lc.Language())
	stored, _ := store.Get(LanguageKey)
	req.Equal("en", stored)

	next, err = lc.ToggleLanguage()
	req.NoError(err)
	req.Equal(i18n.Spanish, next)
	stored, _ = store.Get(LanguageKey)
	req.Equal("es", stored)

	req.Equal([]i18n.Language{i18n.Spanish, i18n.English, i18n.Spanish}, doc.langs)
}

func TestLanguageMount(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		set    bool
		want   i18n.Language
	}{
		{"absent keeps default", "", false, i18n.Spanish},
		{"stored english", "en", true, i18n.English},
		{"stored region tag", "en-GB", true, i18n.English},
		{"unsupported keeps default", "fr", true, i18n.Spanish},
		{"garbage keeps default", "%%%", true, i18n.Spanish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.set {
				require.NoError(t, store.Set(LanguageKey, tt.stored))
			}
			lc := NewLanguageContext(store, nil, i18n.Spanish)
			require.Equal(t, tt.want, lc.Language())
		})
	}
}

func TestSetLanguage(t *testing.T) {
	req := require.New(t)
	store := NewMemoryStore()
	lc := NewLanguageContext(store, nil, i18n.Spanish)

	req.NoError(lc.SetLanguage(i18n.English))
	req.Equal(i18n.English, lc.Language())

	req.Error(lc.SetLanguage(i18n.Language("de")))
	req.Equal(i18n.English, lc.Language())
	stored, _ := store.Get(LanguageKey)
	req.Equal("en", stored)
}

func TestLanguageStoreFailureKeepsState(t *testing.T) {
	req := require.New(t)
	lc := NewLanguageContext(failingStore{NewMemoryStore()}, nil, i18n.Spanish)

	_, err := lc.ToggleLanguage()
	req.Error(err)
	req.Equal(i18n.Spanish, lc.Language())
}

func TestThemeToggle(t *testing.T) {
	req := require.New(t)
	store := NewMemoryStore()
	tc := NewThemeContext(store, nil)
	req.Equal(ThemeSystem, tc.Theme())

	next, err := tc.ToggleTheme()
	req.NoError(err)
	req.Equal(ThemeDark, next)

	next, err = tc.ToggleTheme()
	req.NoError(err)
	req.Equal(ThemeLight, next)

	next, err = tc.ToggleTheme()
	req.NoError(err)
	req.Equal(ThemeDark, next)

	stored, _ := store.Get(ThemeKey)
	req.Equal("dark", stored)

	req.NoError(tc.SetTheme(ThemeSystem))
	req.Error(tc.SetTheme(Theme("sepia")))
	req.Equal(ThemeSystem, tc.Theme())
}

func TestParseTheme(t *testing.T) {
	for _, s := range []string{"light", "DARK", " system "} {
		_, err := ParseTheme(s)
		require.NoError(t, err, s)
	}
	_, err := ParseTheme("blue")
	require.Error(t, err)
}

func TestMustLanguageWithoutProvider(t *testing.T) {
	require.PanicsWithValue(t, "preference: MustLanguage called without a preferences provider", func() {
		MustLanguage(context.Background())
	})
	require.Panics(t, func() {
		MustTheme(context.Background())
	})
}

func TestContextRoundTrip(t *testing.T) {
	req := require.New(t)
	p := New(NewMemoryStore(), nil, i18n.English)
	ctx := NewContext(context.Background(), p)

	req.Same(p.Language, MustLanguage(ctx))
	req.Same(p.Theme, MustTheme(ctx))
	req.Equal(i18n.English, LanguageOr(ctx, i18n.Spanish))
	req.Equal(i18n.Spanish, LanguageOr(context.Background(), i18n.Spanish))
}

func TestFileStore(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "portfolio", "preferences.json")
	store := NewFileStore(path)

	_, ok := store.Get(LanguageKey)
	req.False(ok)

	req.NoError(store.Set(LanguageKey, "en"))
	req.NoError(store.Set(ThemeKey, "dark"))

	reopened := NewFileStore(path)
	v, ok := reopened.Get(LanguageKey)
	req.True(ok)
	req.Equal("en", v)

	lc := NewLanguageContext(reopened, nil, i18n.Spanish)
	req.Equal(i18n.English, lc.Language())
}

func TestFileStoreCorrupt(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "preferences.json")
	req.NoError(os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileStore(path)
	_, ok := store.Get(LanguageKey)
	req.False(ok)
	req.Error(store.Set(LanguageKey, "en"))
}

func TestCookieStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := require.New(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: LanguageKey, Value: "en"})

	p := New(NewCookieStore(c, CookieOptions{}), NewHeaderDocument(c), i18n.Spanish)
	req.Equal(i18n.English, p.Language.Language())
	req.Equal("en", w.Header().Get("Content-Language"))

	_, err := p.Language.ToggleLanguage()
	req.NoError(err)
	req.Equal("es", w.Header().Get("Content-Language"))

	cookies := w.Result().Cookies()
	req.Len(cookies, 1)
	req.Equal(LanguageKey, cookies[0].Name)
	req.Equal("es", cookies[0].Value)
	req.Equal("/", cookies[0].Path)
	req.False(cookies[0].HttpOnly)
}
