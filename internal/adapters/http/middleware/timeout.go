package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
)

// Timeout puts a deadline on the request context. Handlers run on the
// request goroutine and pass the context to the store, which gives up with
// context.DeadlineExceeded. A handler that ran out of time without writing
// gets a 504 envelope.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("http.request.timed_out", true))

		logging.FromContext(ctx).WarnContext(ctx, "request timeout",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Duration("timeout", timeout),
			slog.Bool("written", c.Writer.Written()),
		)

		if !c.Writer.Written() {
			dto.AbortWithError(c, ctx.Err())
		}
	}
}
