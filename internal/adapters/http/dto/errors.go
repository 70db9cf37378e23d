// Package dto holds the request bindings, response bodies and error
// envelope of the blog's HTTP surface.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-blog-service/internal/domain"
	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
)

// ContextKeyTraceID is the gin context key holding the current trace ID.
const ContextKeyTraceID = "trace_id"

// headerRequestID is the last resort for correlating an error response.
const headerRequestID = "X-Request-ID"

// Machine-readable error codes.
const (
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeConflict   = "CONFLICT"
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeForbidden  = "FORBIDDEN"
	ErrorCodeInternal   = "INTERNAL_ERROR"
	ErrorCodeTimeout    = "TIMEOUT"
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// Messages that replace error text which must not reach clients.
const (
	msgInternal = "an internal error occurred"
	msgTimeout  = "request timeout exceeded"
)

var codeStatus = map[string]int{
	ErrorCodeNotFound:   http.StatusNotFound,
	ErrorCodeConflict:   http.StatusConflict,
	ErrorCodeValidation: http.StatusBadRequest,
	ErrorCodeBadRequest: http.StatusBadRequest,
	ErrorCodeForbidden:  http.StatusForbidden,
	ErrorCodeTimeout:    http.StatusGatewayTimeout,
	ErrorCodeInternal:   http.StatusInternalServerError,
}

// ErrorResponse is the envelope every JSON error is written in:
//
//	{"error": {"code": "NOT_FOUND", "message": "..."}, "traceId": "..."}
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes one failure. Details carries per-field messages
// of a rejected form.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// NewErrorResponse creates an envelope without details.
func NewErrorResponse(code, message string) *ErrorResponse {
	return NewErrorResponseWithDetails(code, message, nil)
}

// NewErrorResponseWithDetails creates an envelope with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace ID and returns e.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode returns the status for code; unknown codes are 500.
func HTTPStatusFromCode(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// GetTraceID returns the ID an error response is correlated by: the trace
// ID stored by the telemetry middleware, else the active span's, else the
// request ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		id, _ := v.(string)
		return id
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.GetHeader(headerRequestID)
}

// MapDomainError returns the status and envelope for err. Expected
// outcomes keep the message of the domain error itself, without the
// context added while it travelled up; anything else, store failures
// included, gets a generic message. A nil err maps to 200 and no envelope.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	resp := classify(err)

	return HTTPStatusFromCode(resp.Error.Code), resp
}

func classify(err error) *ErrorResponse {
	var (
		notFound *domain.NotFoundError
		conflict *domain.ConflictError
	)

	switch {
	case errors.As(err, &notFound):
		return NewErrorResponse(ErrorCodeNotFound, notFound.Error())
	case domain.IsNotFound(err):
		return NewErrorResponse(ErrorCodeNotFound, err.Error())
	case domain.IsValidation(err):
		return NewErrorResponseWithDetails(ErrorCodeValidation, err.Error(), domain.FieldErrors(err))
	case errors.As(err, &conflict):
		return NewErrorResponse(ErrorCodeConflict, conflict.Error())
	case domain.IsConflict(err):
		return NewErrorResponse(ErrorCodeConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return NewErrorResponse(ErrorCodeTimeout, msgTimeout)
	default:
		return NewErrorResponse(ErrorCodeInternal, msgInternal)
	}
}

// HandleError writes the envelope for err. Internal errors are logged
// with the full error text, which the client never sees.
func HandleError(c *gin.Context, err error) {
	c.JSON(errorResponse(c, err))
}

// AbortWithError is HandleError for middleware: later handlers are skipped.
func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errorResponse(c, err))
}

// AbortWithErrorCode aborts with an envelope built from code and message.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

func errorResponse(c *gin.Context, err error) (int, *ErrorResponse) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "internal error",
			slog.String("error", err.Error()),
			slog.String(logging.KeyTraceID, resp.TraceID),
		)
	}

	return status, resp
}
