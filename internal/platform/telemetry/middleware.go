package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/go-blog-service/telemetry"

	// HeaderTraceID is the response header carrying the trace ID.
	HeaderTraceID = "X-Trace-ID"

	// ContextKeyTraceID is the gin context key the trace ID is stored under.
	// Error envelopes read it back.
	ContextKeyTraceID = "trace_id"

	// opsPrefix holds health and metrics endpoints, which are not traced.
	opsPrefix = "/-/"

	// unmatchedRoute labels requests no route matched, keeping the route
	// label bounded.
	unmatchedRoute = "unmatched"
)

// Metrics holds HTTP server instruments.
type Metrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	var (
		m   Metrics
		err error
	)

	if m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.total, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.active, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// Middleware returns otelgin tracing, trace ID propagation and request
// metrics, in that order. Instrument creation failures go to the otel
// error handler and leave tracing in place.
func Middleware(serviceName string) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		otelgin.Middleware(serviceName, otelgin.WithFilter(traced)),
		propagateTraceID(),
	}

	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
		return chain
	}

	return append(chain, metrics.handler())
}

func traced(r *http.Request) bool {
	return !strings.HasPrefix(r.URL.Path, opsPrefix)
}

// propagateTraceID copies the active trace ID to the response header, the
// gin context and the context logger. The header is set before the handler
// writes anything.
func propagateTraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
		if sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Set(ContextKeyTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(c.Request.Context(), traceID))
		}

		c.Next()
	}
}

func (m *Metrics) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", routeLabel(c)),
		}
		inFlight := metric.WithAttributes(base...)

		m.active.Add(ctx, 1, inFlight)
		defer m.active.Add(ctx, -1, inFlight)

		c.Next()

		done := metric.WithAttributes(append(base, attribute.Int("http.status_code", c.Writer.Status()))...)
		m.duration.Record(ctx, time.Since(start).Seconds(), done)
		m.total.Add(ctx, 1, done)
	}
}

// routeLabel returns the matched route pattern, e.g. /post/:id/edit/.
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return unmatchedRoute
}
