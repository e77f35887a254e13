package helper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{name: "long key", key: "AIzaSyA-1234567890abcdefghij", expected: "AIzaSy...ghij"},
		{name: "exactly 12 chars", key: "123456789012", expected: "123456...9012"},
		{name: "short key", key: "short", expected: "***"},
		{name: "empty key", key: "", expected: "***"},
		{name: "11 chars", key: "12345678901", expected: "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, MaskAPIKey(tt.key))
		})
	}
}

func TestRedactURLKey(t *testing.T) {
	raw := "https://generativelanguage.googleapis.com/v1beta2/models/text-bison-001:generateText?key=AIzaSyA-1234567890abcdefghij"
	redacted := RedactURLKey(raw)
	require.NotContains(t, redacted, "1234567890")
	require.Contains(t, redacted, "key=AIzaSy...ghij")
	require.Contains(t, redacted, "/v1beta2/models/text-bison-001:generateText")

	require.Equal(t, "https://example.test/v1", RedactURLKey("https://example.test/v1"))
	require.Equal(t, "<unparseable url>", RedactURLKey("http://[::1"))
}
