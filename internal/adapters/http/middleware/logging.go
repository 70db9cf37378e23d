package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
	"github.com/jsamuelsen/go-blog-service/internal/routes"
)

// opsPrefix holds health and metrics endpoints, which are never logged.
const opsPrefix = "/-/"

// ContextLogger puts logger in the request context. It runs before
// RequestID and CorrelationID so the IDs are added to this logger and not
// to the process default.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

// Logging logs each request at debug level when it starts and once more
// when it completes, at a level chosen by status. Completed entries name
// the blog route and post id the path resolves to. Paths under /-/ and the
// given paths are skipped.
func Logging(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if path := c.Request.URL.Path; skip[path] || strings.HasPrefix(path, opsPrefix) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := logging.FromContext(ctx)
		target := c.Request.URL.RequestURI()
		start := time.Now()

		logger.DebugContext(ctx, "request started",
			slog.String("method", c.Request.Method),
			slog.String("path", target),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		logCompleted(ctx, logger, c, target, time.Since(start))
	}
}

func logCompleted(ctx context.Context, logger *slog.Logger, c *gin.Context, target string, latency time.Duration) {
	status := c.Writer.Status()

	attrs := make([]slog.Attr, 0, 10)
	attrs = append(attrs,
		slog.String("method", c.Request.Method),
		slog.String("path", target),
		slog.String("route", c.FullPath()),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.Int64("latency_ms", latency.Milliseconds()),
		slog.Int("bytes", c.Writer.Size()),
	)

	if name, id, ok := routes.Resolve(c.Request.URL.Path); ok {
		attrs = append(attrs, slog.String("route_name", name))
		if id != 0 {
			attrs = append(attrs, slog.Int64("post_id", id))
		}
	}

	if subject := Subject(c); subject != "" {
		attrs = append(attrs, slog.String(logging.KeySubject, subject))
	}

	if len(c.Errors) > 0 {
		attrs = append(attrs, slog.String("errors", c.Errors.String()))
	}

	logger.LogAttrs(ctx, levelForStatus(status), "request completed", attrs...)
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
