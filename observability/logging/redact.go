package logging

import (
	"log/slog"
	"strings"
)

// Redacted is the placeholder emitted in place of credential values.
const Redacted = "[REDACTED]"

// sensitiveKeys lists the log keys that carry credential material in this
// service: bearer tokens, the gateway signing secret, and client
// idempotency keys, which callers sometimes derive from internal request
// identifiers.
var sensitiveKeys = map[string]struct{}{
	"authorization":   {},
	"bearer":          {},
	"idempotency_key": {},
	"secret":          {},
	"token":           {},
}

// IsSensitive reports whether values logged under key must be masked.
func IsSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// MaskValue redacts a non-empty value. Empty values pass through so an
// absent credential stays visibly absent in the logs.
func MaskValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	return Redacted
}

// MaskField returns a slog.Attr whose value is redacted when the key is
// sensitive. Non-sensitive keys pass through untouched.
func MaskField(key, value string) slog.Attr {
	if !IsSensitive(key) {
		return slog.String(key, value)
	}
	return slog.String(key, MaskValue(value))
}
