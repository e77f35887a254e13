package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/palm-client/common/config"
)

func restoreConfig(t *testing.T) {
	t.Helper()
	proxy, timeout := config.RelayProxy, config.RelayTimeout
	t.Cleanup(func() {
		config.RelayProxy, config.RelayTimeout = proxy, timeout
		require.NoError(t, Init())
	})
}

func TestInit(t *testing.T) {
	restoreConfig(t)
	config.RelayProxy = ""
	config.RelayTimeout = 45
	require.NoError(t, Init())

	require.Equal(t, 45*time.Second, HTTPClient.Timeout)
	require.Equal(t, ImpatientTimeout, ImpatientHTTPClient.Timeout)

	transport, ok := HTTPClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.TLSNextProto)
	require.Empty(t, transport.TLSNextProto)
}

func TestInitNoTimeout(t *testing.T) {
	restoreConfig(t)
	config.RelayTimeout = 0
	require.NoError(t, Init())
	require.Zero(t, HTTPClient.Timeout)
}

func TestInitProxy(t *testing.T) {
	restoreConfig(t)
	config.RelayProxy = "http://127.0.0.1:8080"
	require.NoError(t, Init())

	transport := HTTPClient.Transport.(*http.Transport)
	req, err := http.NewRequest(http.MethodGet, "https://generativelanguage.googleapis.com", nil)
	require.NoError(t, err)
	proxyURL, err := transport.Proxy(req)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8080", proxyURL.Host)

	config.RelayProxy = "::not a url"
	require.Error(t, Init())
}
