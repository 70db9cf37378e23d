// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
)

const (
	// HeaderRequestID names one request; generated when absent.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID ties together the requests of one interaction,
	// such as a form submit and the redirect that follows it.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key of the request id.
	ContextKeyRequestID = logging.KeyRequestID

	// ContextKeyCorrelationID is the gin context key of the correlation id.
	ContextKeyCorrelationID = logging.KeyCorrelationID

	// maxIDLength bounds ids accepted from clients.
	maxIDLength = 128
)

// idPropagation describes one id carried from the request header to the
// response header, the gin context, the request context and its logger.
type idPropagation struct {
	header string
	key    string
	store  func(context.Context, string) context.Context
	tag    func(context.Context, string) context.Context
}

// RequestID accepts a client X-Request-ID or generates a UUID v4.
func RequestID() gin.HandlerFunc {
	return propagateID(idPropagation{
		header: HeaderRequestID,
		key:    ContextKeyRequestID,
		store:  ContextWithRequestID,
		tag:    logging.WithRequestID,
	})
}

// CorrelationID accepts an upstream X-Correlation-ID or generates one.
func CorrelationID() gin.HandlerFunc {
	return propagateID(idPropagation{
		header: HeaderCorrelationID,
		key:    ContextKeyCorrelationID,
		store:  ContextWithCorrelationID,
		tag:    logging.WithCorrelationID,
	})
}

func propagateID(p idPropagation) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(p.header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(p.key, id)
		c.Header(p.header, id)

		ctx := p.tag(p.store(c.Request.Context(), id), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// acceptableID rejects empty, oversized and non-printable ids, which would
// otherwise be echoed into headers and logs.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}

	return true
}

// GetRequestID returns the request id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation id set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
