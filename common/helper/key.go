package helper

import (
	"net/url"
)

const (
	// RequestIdKey is the header and gin context key carrying the request identifier.
	RequestIdKey = "X-Palm-Request-Id"
)

// MaskAPIKey returns a masked version of an API key for safe logging.
// It shows the first 6 characters and last 4 characters, with "..." in between.
// For short keys (less than 12 chars), it returns "***" to avoid exposing too much.
func MaskAPIKey(key string) string {
	if len(key) < 12 {
		return "***"
	}
	return key[:6] + "..." + key[len(key)-4:]
}

// RedactURLKey masks the `key` query parameter of rawURL.
// Unparseable input is replaced entirely so a credential can never leak through it.
func RedactURLKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if k := q.Get("key"); k != "" {
		q.Set("key", MaskAPIKey(k))
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// MessageWithRequestId appends the request id to message so users can quote it in reports.
func MessageWithRequestId(message string, id string) string {
	if id == "" {
		return message
	}
	return message + " (request id: " + id + ")"
}
