package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/templates"
	"github.com/jsamuelsen/go-blog-service/internal/platform/config"
	"github.com/jsamuelsen/go-blog-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the deadline of a blog request unless configured.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig is what SetupRouter mounts. Nil handlers are skipped.
type RouterConfig struct {
	// Logger goes into every request context; nil means slog.Default.
	Logger *slog.Logger

	// AuthConfig names the gateway headers and whether writes need a subject.
	AuthConfig *config.AuthConfig

	// AppConfig enables telemetry middleware under the application name.
	AppConfig *config.AppConfig

	HealthHandler *handlers.HealthHandler
	PostHandler   *handlers.PostHandler

	// Timeout bounds blog requests; zero disables it.
	Timeout time.Duration
}

// NewDefaultRouterConfig creates a RouterConfig with DefaultRequestTimeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	healthHandler *handlers.HealthHandler,
	postHandler *handlers.PostHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AuthConfig:    authCfg,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		PostHandler:   postHandler,
		Timeout:       DefaultRequestTimeout,
	}
}

// SetupRouter installs the middleware chain and mounts the health endpoints under /-/
// and the blog pages at the root.
//
// Every request passes Recovery, ContextLogger, RequestID, CorrelationID,
// the telemetry chain (when AppConfig is set) and Logging, in that order.
// Blog pages add Timeout and LoadClaims; their write routes add
// RequireAuth when auth is enabled, answered by PostHandler.Forbidden.
// Health and metrics endpoints get neither deadline nor auth.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.SetHTMLTemplate(templates.Must())
	engine.Use(commonChain(cfg)...)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.PostHandler != nil {
		mountBlog(engine, cfg)
	}
}

func commonChain(cfg RouterConfig) []gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	chain := []gin.HandlerFunc{
		middleware.Recovery(),
		middleware.ContextLogger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	}

	if cfg.AppConfig != nil {
		chain = append(chain, telemetry.Middleware(cfg.AppConfig.Name)...)
	}

	return append(chain, middleware.Logging())
}

func mountBlog(engine *gin.Engine, cfg RouterConfig) {
	blog := engine.Group("")
	if cfg.Timeout > 0 {
		blog.Use(middleware.Timeout(cfg.Timeout))
	}

	blog.Use(middleware.LoadClaims(cfg.AuthConfig))

	var writes []gin.HandlerFunc
	if cfg.AuthConfig != nil && cfg.AuthConfig.Enabled {
		writes = append(writes, middleware.RequireAuth(cfg.AuthConfig, cfg.PostHandler.Forbidden))
	}

	cfg.PostHandler.RegisterRoutes(blog, writes...)
	engine.NoRoute(cfg.PostHandler.NoRoute)
}
