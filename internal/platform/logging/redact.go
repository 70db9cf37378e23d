package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// sensitiveFields are attribute keys whose values never reach the log.
var sensitiveFields = []string{
	"password", "secret", "token", "apiKey", "apikey", "api_key",
	"accessToken", "access_token", "refreshToken", "refresh_token",
	"credential", "credentials", "authorization", "auth", "bearer",
	"cookie", "session", "privateKey", "private_key",
	"dsn", "database_url",
}

// sensitiveValues match secrets logged under an innocent key, such as a
// connection error that echoes the DSN.
var sensitiveValues = []*regexp.Regexp{
	// JWT: three base64url segments
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`),
	// postgres URL carrying a password
	regexp.MustCompile(`(?i)postgres(ql)?://[^:/@\s]+:[^@\s]+@`),
	// key/value DSN carrying a password
	regexp.MustCompile(`(?i)(^|\s)password=\S+`),
}

// DefaultRedactOptions returns the masq options applied to every handler.
// Callers add their own with NewReplaceAttr.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+len(sensitiveValues)+2)

	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
	)

	for _, re := range sensitiveValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr hook that redacts the default
// set plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
