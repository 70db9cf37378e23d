package middleware

import (
	"cmp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-blog-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-blog-service/internal/platform/config"
	"github.com/jsamuelsen/go-blog-service/internal/platform/logging"
)

// ContextKeyClaims is the gin context key of the request's *Claims.
const ContextKeyClaims = "claims"

// defaultSubjectHeader is used when AuthConfig leaves the header empty.
const defaultSubjectHeader = "X-User-ID"

// ForbiddenMessage is the message of a write rejected for want of a subject.
const ForbiddenMessage = "authentication required"

// Claims are the identity a gateway in front of the blog vouches for. The
// gateway authenticates the session and forwards the username as a header.
type Claims struct {
	// Subject is the username of the signed-in identity.
	Subject string
}

func subjectHeader(cfg *config.AuthConfig) string {
	if cfg == nil {
		return defaultSubjectHeader
	}

	return cmp.Or(cfg.SubjectHeader, defaultSubjectHeader)
}

// GetClaims returns the claims stored by LoadClaims or RequireAuth, or nil.
func GetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil
	}

	claims, _ := v.(*Claims)

	return claims
}

// Subject returns the signed-in username, or "" for anonymous requests.
func Subject(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Subject
	}

	return ""
}

// LoadClaims records claims when the request names a subject and never
// rejects. Every blog route runs it so pages and logs know who is reading.
func LoadClaims(cfg *config.AuthConfig) gin.HandlerFunc {
	header := subjectHeader(cfg)

	return func(c *gin.Context) {
		if subject := strings.TrimSpace(c.GetHeader(header)); subject != "" {
			storeClaims(c, &Claims{Subject: subject})
		}

		c.Next()
	}
}

// RequireAuth rejects requests without a subject and records the claims of
// the rest. deny answers the rejected request and must abort it; a nil deny
// writes a 403 error envelope.
func RequireAuth(cfg *config.AuthConfig, deny gin.HandlerFunc) gin.HandlerFunc {
	header := subjectHeader(cfg)

	if deny == nil {
		deny = func(c *gin.Context) {
			dto.AbortWithErrorCode(c, dto.ErrorCodeForbidden, ForbiddenMessage)
		}
	}

	return func(c *gin.Context) {
		subject := strings.TrimSpace(c.GetHeader(header))
		if subject == "" {
			deny(c)
			c.Abort()

			return
		}

		storeClaims(c, &Claims{Subject: subject})
		c.Next()
	}
}

// storeClaims makes claims visible to handlers and tags the request
// context and its logger with the subject.
func storeClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextKeyClaims, claims)

	ctx := ContextWithSubject(c.Request.Context(), claims.Subject)
	c.Request = c.Request.WithContext(logging.WithSubject(ctx, claims.Subject))
}
