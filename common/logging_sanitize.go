package common

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	// DefaultLogBodyLimit defines the maximum number of bytes to emit for log previews.
	DefaultLogBodyLimit = 4096
	// DefaultLogFieldLimit caps each string leaf, so one long prompt cannot crowd out the rest.
	DefaultLogFieldLimit = 512
	// LogTruncationSuffix marks truncated log values.
	LogTruncationSuffix = "...[truncated]"
)

// sensitiveFields are JSON keys whose values are always redacted.
var sensitiveFields = []string{"key", "api_key", "apikey", "authorization", "token", "secret"}

// SanitizePayloadForLogging returns a log-safe preview of a JSON payload and whether it was truncated.
// String leaves longer than DefaultLogFieldLimit are shortened and credential-like fields are redacted.
// Non-JSON bodies are only truncated.
func SanitizePayloadForLogging(body []byte, limit int) ([]byte, bool) {
	if limit <= 0 {
		return body, false
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var payload any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			sanitized := sanitizeJSONValue(payload, "")
			if out, err := json.Marshal(sanitized); err == nil {
				if len(out) > limit {
					return truncateWithSuffix(out, limit), true
				}
				return out, false
			}
		}
	}

	if len(body) > limit {
		return truncateWithSuffix(body, limit), true
	}
	return body, false
}

func sanitizeJSONValue(value any, key string) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = sanitizeJSONValue(inner, k)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = sanitizeJSONValue(inner, key)
		}
		return out
	case string:
		if isSensitiveField(key) {
			return "<redacted>"
		}
		return truncateStringWithSuffix(v, DefaultLogFieldLimit)
	default:
		return v
	}
}

func isSensitiveField(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, name := range sensitiveFields {
		if lower == name {
			return true
		}
	}
	return false
}

// truncateStringWithSuffix truncates a string and appends LogTruncationSuffix when needed.
func truncateStringWithSuffix(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	if limit <= len(LogTruncationSuffix) {
		return LogTruncationSuffix[:limit]
	}
	return value[:limit-len(LogTruncationSuffix)] + LogTruncationSuffix
}

func truncateWithSuffix(data []byte, limit int) []byte {
	return []byte(truncateStringWithSuffix(string(data), limit))
}
