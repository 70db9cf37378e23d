package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/repository/memory"
	"github.com/jsamuelsen/go-blog-service/internal/app"
	"github.com/jsamuelsen/go-blog-service/internal/platform/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAppConfig() *config.AppConfig {
	return &config.AppConfig{
		Name:        "test-service",
		Environment: "test",
		Version:     "1.0.0",
	}
}

func newPostHandler(t *testing.T, authors ...string) *handlers.PostHandler {
	t.Helper()

	store := memory.New()
	svc, err := app.NewPostService(app.PostServiceConfig{
		Posts:      store,
		Identities: store,
		Logger:     testLogger(),
	})
	require.NoError(t, err)
	require.NoError(t, svc.EnsureIdentities(context.Background(), authors))

	return handlers.NewPostHandler(svc)
}

func serve(engine http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func newPostRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/post/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

// TestNewDefaultRouterConfig tests creating a default router configuration.
func TestNewDefaultRouterConfig(t *testing.T) {
	logger := testLogger()
	appCfg := testAppConfig()
	authCfg := &config.AuthConfig{Enabled: false}
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{}, nil)
	postHandler := newPostHandler(t)

	cfg := NewDefaultRouterConfig(logger, appCfg, authCfg, healthHandler, postHandler)

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, appCfg, cfg.AppConfig)
	assert.Equal(t, authCfg, cfg.AuthConfig)
	assert.Equal(t, healthHandler, cfg.HealthHandler)
	assert.Equal(t, postHandler, cfg.PostHandler)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
}

func TestSetupRouter_HealthOnly(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{
			HealthHandler: handlers.NewHealthHandler(nil, handlers.BuildInfo{Version: "1.0.0"}, nil),
		})
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/-/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))

	assert.Equal(t, http.StatusNotFound, serve(engine, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

// TestSetupRouter tests setting up a full router with middleware.
func TestSetupRouter(t *testing.T) {
	engine := gin.New()

	SetupRouter(engine, RouterConfig{
		Logger:        testLogger(),
		AuthConfig:    &config.AuthConfig{Enabled: false},
		AppConfig:     testAppConfig(),
		HealthHandler: handlers.NewHealthHandler(nil, handlers.BuildInfo{}, nil),
		PostHandler:   newPostHandler(t, "alice"),
		Timeout:       30 * time.Second,
	})

	paths := make(map[string]bool)
	for _, route := range engine.Routes() {
		paths[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /-/live",
		"GET /-/metrics",
		"GET /",
		"GET /post/:id",
		"POST /post/new",
		"POST /post/:id/delete",
		"GET /busca/",
		"GET /autor/",
		"GET /tag/",
	} {
		assert.True(t, paths[want], "route %s should be registered", want)
	}

	t.Run("blog pages carry request ids", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		assert.Contains(t, w.Body.String(), "No posts.")
	})

	t.Run("writes are open without auth", func(t *testing.T) {
		v := url.Values{"author": {"alice"}, "title": {"t"}, "body": {"b"}, "tag": {"x"}}

		w := serve(engine, newPostRequest(v))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/post/1", w.Header().Get("Location"))
	})

	t.Run("unknown path renders not found page", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "page not found")
	})

	t.Run("search without trailing slash redirects", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/busca?q=t", nil))

		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "/busca/?q=t", w.Header().Get("Location"))
	})
}

func TestSetupRouter_AuthEnabled(t *testing.T) {
	engine := gin.New()

	SetupRouter(engine, RouterConfig{
		Logger:      testLogger(),
		AuthConfig:  &config.AuthConfig{Enabled: true, SubjectHeader: "X-User-ID"},
		AppConfig:   testAppConfig(),
		PostHandler: newPostHandler(t, "alice"),
		Timeout:     30 * time.Second,
	})

	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	denied := serve(engine, httptest.NewRequest(http.MethodGet, "/post/new", nil))
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Contains(t, denied.Header().Get("Content-Type"), "text/html")

	req := newPostRequest(url.Values{"title": {"t"}, "body": {"b"}, "tag": {"x"}})
	req.Header.Set("X-User-ID", "alice")

	w := serve(engine, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

// TestSetupRouterWithoutTimeout tests router setup with zero timeout.
func TestSetupRouterWithoutTimeout(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{
			Logger:      testLogger(),
			AppConfig:   testAppConfig(),
			PostHandler: newPostHandler(t),
			Timeout:     0,
		})
	})

	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

// TestSetupRouterWithNilHandlers tests router setup with only the middleware.
func TestSetupRouterWithNilHandlers(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{Timeout: 30 * time.Second})
	})

	assert.Empty(t, engine.Routes())
}

func TestSetupRouter_RecoversPanics(t *testing.T) {
	engine := gin.New()

	SetupRouter(engine, RouterConfig{Logger: testLogger(), AppConfig: testAppConfig()})
	engine.GET("/boom", func(*gin.Context) {
		panic("boom")
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
