package middleware

import "context"

// requestKey identifies a per-request value carried in context.Context for
// code that has no gin.Context, such as templates and the app layer.
type requestKey int

const (
	requestIDKey requestKey = iota
	correlationIDKey
	subjectKey
)

func stringFrom(ctx context.Context, key requestKey) string {
	if ctx == nil {
		return ""
	}

	s, _ := ctx.Value(key).(string)

	return s
}

// RequestIDFromContext returns the request id, or "" when none was set.
// Error pages show it so a reader can quote it back.
func RequestIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation id, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, correlationIDKey)
}

// SubjectFromContext returns the signed-in username, or "" for anonymous
// requests.
func SubjectFromContext(ctx context.Context) string {
	return stringFrom(ctx, subjectKey)
}

// ContextWithRequestID stores a request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores a correlation ID in the context.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithSubject stores the signed-in username in the context.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}
