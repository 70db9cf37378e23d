package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
)

// Recovery turns a handler panic into a 500 error envelope. The panic and
// its stack are logged and recorded on the request span. It runs first so
// it covers every later middleware.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				recoverPanic(c, r)
			}
		}()

		c.Next()
	}
}

func recoverPanic(c *gin.Context, r any) {
	ctx := c.Request.Context()
	err := fmt.Errorf("panic: %v", r)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(err, trace.WithStackTrace(true))
		span.SetStatus(codes.Error, err.Error())
	}

	logging.FromContext(ctx).ErrorContext(ctx, "panic recovered",
		slog.Any("error", r),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("route", c.FullPath()),
		slog.String("stack", string(debug.Stack())),
	)

	// Headers may already be on the wire.
	if c.Writer.Written() {
		c.Abort()
		return
	}

	dto.AbortWithErrorCode(c, dto.ErrorCodeInternal, "an internal error occurred")
}
