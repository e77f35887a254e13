// Package palm speaks the generateText wire protocol: it derives endpoint URLs,
// composes request bodies and classifies responses.
package palm

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/relay/connection"
)

// Adaptor holds the direct and proxy hosts. The zero value is not usable; use NewAdaptor.
type Adaptor struct {
	BaseURL      string
	ProxyBaseURL string
}

// NewAdaptor returns an Adaptor using the configured hosts.
func NewAdaptor() *Adaptor {
	return &Adaptor{
		BaseURL:      config.BaseURL,
		ProxyBaseURL: config.ProxyBaseURL,
	}
}

func (a *Adaptor) host(conn connection.Connection) string {
	if conn.UseProxy() {
		return strings.TrimSuffix(a.ProxyBaseURL, "/")
	}
	return strings.TrimSuffix(a.BaseURL, "/")
}

// GetRequestURL returns the generateText endpoint for conn, key included.
func (a *Adaptor) GetRequestURL(conn connection.Connection) string {
	return fmt.Sprintf("%s/%s/models/%s:generateText?key=%s",
		a.host(conn), conn.ModelVersion(), conn.ModelType(), url.QueryEscape(conn.APIKey()))
}

// GetModelURL returns the model metadata endpoint used for liveness probes.
func (a *Adaptor) GetModelURL(conn connection.Connection) string {
	return fmt.Sprintf("%s/%s/models/%s?key=%s",
		a.host(conn), conn.ModelVersion(), conn.ModelType(), url.QueryEscape(conn.APIKey()))
}
