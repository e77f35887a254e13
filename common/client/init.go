// Package client builds the shared outbound HTTP clients.
package client

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/logger"
	"github.com/Laisky/palm-client/common/network"
)

// ImpatientTimeout bounds liveness probes.
const ImpatientTimeout = 5 * time.Second

// HTTPClient is the default outbound client used for generateText calls.
var HTTPClient = &http.Client{Transport: newTransport(nil)}

// ImpatientHTTPClient is a short-timeout client for liveness probes.
var ImpatientHTTPClient = &http.Client{Timeout: ImpatientTimeout, Transport: newTransport(nil)}

// newTransport disables HTTP/2, which some proxies in front of the API mishandle.
func newTransport(proxyURL *url.URL) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConnsPerHost: 16,
		TLSNextProto:        make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
	}
	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}
	return transport
}

// Init rebuilds the shared clients from config.RelayProxy and config.RelayTimeout.
func Init() error {
	var proxyURL *url.URL
	if config.RelayProxy != "" {
		parsed, err := network.ValidateProxyURL(config.RelayProxy)
		if err != nil {
			return errors.Wrap(err, "RELAY_PROXY set but invalid")
		}
		logger.Logger.Info("using relay proxy", zap.String("proxy", parsed.Redacted()))
		proxyURL = parsed
	}

	transport := newTransport(proxyURL)
	HTTPClient = &http.Client{Transport: transport}
	if config.RelayTimeout > 0 {
		HTTPClient.Timeout = time.Duration(config.RelayTimeout) * time.Second
	}

	ImpatientHTTPClient = &http.Client{
		Timeout:   ImpatientTimeout,
		Transport: transport,
	}
	return nil
}
