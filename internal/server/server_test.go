package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/robertozapata/portfolio/internal/api/dto/common"
	"github.com/robertozapata/portfolio/internal/config"
	"github.com/robertozapata/portfolio/internal/contact"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/mail"
	"github.com/robertozapata/portfolio/internal/ratelimit"
	"github.com/stretchr/testify/require"
)

type fakeSender struct{}

func (fakeSender) Send(context.Context, mail.Message) (mail.Receipt, error) {
	return mail.Receipt{ID: "id-1", Provider: "fake"}, nil
}

type fakeChecker struct{ err error }

func (f fakeChecker) Check() error { return f.err }

func newTestServer(t *testing.T, vars map[string]string, mailer fakeChecker) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.ParseEnv(vars)
	require.NoError(t, err)

	catalog := i18n.MustLoad()
	logger := logging.NewWriterLogger(&bytes.Buffer{}, logging.LevelInfo)
	svc := contact.NewService(
		contact.NewSchema(catalog),
		ratelimit.NewLimiter(ratelimit.NewMemoryStore(), cfg.RateLimit()),
		fakeSender{},
		contact.WithLogger(logger),
	)

	srv, err := NewServer(Dependencies{Config: cfg, Logger: logger, Catalog: catalog, Contact: svc, Mailer: mailer})
	require.NoError(t, err)
	require.NoError(t, srv.Init())
	return srv
}

func TestServerRoutes(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, map[string]string{"ENV": "development"}, fakeChecker{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	req.Equal(http.StatusOK, w.Code)
	req.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
	req.NotEmpty(w.Header().Get("X-Request-ID"))

	body := `{"name":"Jo","email":"a@b.com","subject":"Hello there","message":"This is a test message."}`
	r := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	req.Equal(http.StatusOK, w.Code)
	req.NotEmpty(w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))
	req.Equal(http.StatusNotFound, w.Code)
	var nf common.ErrorResponse
	req.NoError(json.Unmarshal(w.Body.Bytes(), &nf))
	req.Equal("Recurso no encontrado", nf.Message)
}

func TestServerHealthDegraded(t *testing.T) {
	srv := newTestServer(t, map[string]string{}, fakeChecker{err: errors.New("no api key")})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var health common.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	require.Equal(t, "degraded", health.Status)
}

func TestServerProductionCORS(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"ENV":             "production",
		"ALLOWED_ORIGINS": "https://roberto-zapata.dev",
		"LOG_FILE":        t.TempDir() + "/api.log",
	}, fakeChecker{})
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	r := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	r.Header.Set("Origin", "https://elsewhere.example")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestPerIPGuardIgnoresSpoofedHeaders(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, map[string]string{
		"RATE_LIMIT_IP_RPS":   "0.001",
		"RATE_LIMIT_IP_BURST": "2",
	}, fakeChecker{})

	post := func(forwardedFor string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("X-Forwarded-For", forwardedFor)
		r.Header.Set("X-Real-IP", forwardedFor)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, r)
		return w.Code
	}

	// The guard runs before the body is read, so once the budget is spent
	// even an invalid body is answered with 429
	req.Equal(http.StatusBadRequest, post("198.51.100.1"))
	req.Equal(http.StatusBadRequest, post("198.51.100.2"))
	req.Equal(http.StatusTooManyRequests, post("198.51.100.3"))
}

func TestNewServerRejectsBadTrustedProxies(t *testing.T) {
	cfg, err := config.ParseEnv(map[string]string{"TRUSTED_PROXIES": "not-an-ip"})
	require.NoError(t, err)
	_, err = NewServer(Dependencies{
		Config:  cfg,
		Catalog: i18n.MustLoad(),
		Contact: &contact.Service{},
	})
	require.Error(t, err)
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(Dependencies{})
	require.Error(t, err)
}
