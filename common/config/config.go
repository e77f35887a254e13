// Package config holds process-wide settings read from the environment.
//
// Values start at their defaults and are refreshed by Load, which the CLI calls
// after .env files have been applied.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// APIKey is the credential appended to every request URL.
	APIKey = ""
	// ModelVersion selects the API version path segment, e.g. v1beta2.
	ModelVersion = "v1beta2"
	// ModelType selects the model path segment, e.g. text-bison-001.
	ModelType = "text-bison-001"
	// UseProxy routes requests through ProxyBaseURL instead of BaseURL.
	UseProxy = false

	// BaseURL is the direct API host.
	BaseURL = "https://generativelanguage.googleapis.com"
	// ProxyBaseURL is the alternate host used when UseProxy is set.
	ProxyBaseURL = "https://api.genai.gd.edu.kg/google"

	// RelayProxy is an optional HTTP proxy for all outbound requests.
	RelayProxy = ""
	// RelayTimeout is the outbound request timeout in seconds, 0 disables it.
	RelayTimeout = 60
	// ProbeCacheTTL controls how long a successful liveness probe is remembered.
	ProbeCacheTTL = 5 * time.Minute

	// LogLevel is one of debug, info, warn, error.
	LogLevel = "info"
	// DebugEnabled logs sanitized request and response payloads.
	DebugEnabled = false

	// MetricsBackend is one of none, prometheus, otel.
	MetricsBackend = "none"

	OpenTelemetryEnabled     = false
	OpenTelemetryEndpoint    = ""
	OpenTelemetryInsecure    = false
	OpenTelemetryServiceName = "palm-client"
	OpenTelemetryEnvironment = ""

	// ServerAddress is the listen address of `palmctl serve`.
	ServerAddress = ":3000"
	// CORSAllowedOrigins is a comma separated allow-list, "*" allows all.
	CORSAllowedOrigins = []string{"*"}
)

// Load refreshes every setting from the environment.
func Load() {
	APIKey = envString("PALM_API_KEY", APIKey)
	ModelVersion = envString("PALM_MODEL_VERSION", ModelVersion)
	ModelType = envString("PALM_MODEL_TYPE", ModelType)
	UseProxy = envBool("PALM_USE_PROXY", UseProxy)
	BaseURL = strings.TrimSuffix(envString("PALM_BASE_URL", BaseURL), "/")
	ProxyBaseURL = strings.TrimSuffix(envString("PALM_PROXY_BASE_URL", ProxyBaseURL), "/")

	RelayProxy = envString("RELAY_PROXY", RelayProxy)
	RelayTimeout = envInt("RELAY_TIMEOUT", RelayTimeout)
	ProbeCacheTTL = time.Duration(envInt("PALM_PROBE_CACHE_TTL", int(ProbeCacheTTL/time.Second))) * time.Second

	LogLevel = strings.ToLower(envString("LOG_LEVEL", LogLevel))
	DebugEnabled = envBool("DEBUG", DebugEnabled) || LogLevel == "debug"
	MetricsBackend = strings.ToLower(envString("METRICS_BACKEND", MetricsBackend))

	OpenTelemetryEnabled = envBool("OTEL_ENABLED", OpenTelemetryEnabled)
	OpenTelemetryEndpoint = envString("OTEL_EXPORTER_OTLP_ENDPOINT", OpenTelemetryEndpoint)
	OpenTelemetryInsecure = envBool("OTEL_EXPORTER_OTLP_INSECURE", OpenTelemetryInsecure)
	OpenTelemetryServiceName = envString("OTEL_SERVICE_NAME", OpenTelemetryServiceName)
	OpenTelemetryEnvironment = envString("OTEL_ENVIRONMENT", OpenTelemetryEnvironment)

	ServerAddress = envString("SERVER_ADDRESS", ServerAddress)
	CORSAllowedOrigins = envList("CORS_ALLOWED_ORIGINS", CORSAllowedOrigins)
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// envInt ignores negative and malformed values.
func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func envList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
