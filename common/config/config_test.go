package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("PALM_API_KEY", " key-123 ")
	t.Setenv("PALM_MODEL_VERSION", "v1beta3")
	t.Setenv("PALM_USE_PROXY", "true")
	t.Setenv("PALM_BASE_URL", "https://example.test/")
	t.Setenv("RELAY_TIMEOUT", "-3")
	t.Setenv("PALM_PROBE_CACHE_TTL", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")
	t.Setenv("LOG_LEVEL", "DEBUG")

	Load()

	require.Equal(t, "key-123", APIKey)
	require.Equal(t, "v1beta3", ModelVersion)
	require.True(t, UseProxy)
	require.Equal(t, "https://example.test", BaseURL)
	require.Equal(t, 60, RelayTimeout, "negative timeout keeps the default")
	require.Equal(t, 30*time.Second, ProbeCacheTTL)
	require.Equal(t, []string{"https://a.test", "https://b.test"}, CORSAllowedOrigins)
	require.True(t, DebugEnabled)
}

func TestEnvBoolMalformed(t *testing.T) {
	t.Setenv("PALM_TEST_BOOL", "maybe")
	require.True(t, envBool("PALM_TEST_BOOL", true))
	require.False(t, envBool("PALM_TEST_BOOL_MISSING", false))
}
