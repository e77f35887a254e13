// Package connection validates and packages the credential and model selection
// shared by every request.
package connection

import (
	"slices"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/palm-client/common/helper"
	"github.com/Laisky/palm-client/relay/model"
)

// SupportedVersions lists the accepted API versions.
var SupportedVersions = []string{"v1beta2", "v1beta3"}

// SupportedTypes lists the accepted model identifiers.
var SupportedTypes = []string{"text-bison-001"}

// Connection is an immutable credential and model selection.
// The zero value is not valid; use Build.
type Connection struct {
	apiKey       string
	modelVersion string
	modelType    string
	useProxy     bool
}

// Option customises Build.
type Option func(*Connection)

// WithProxy routes requests through the proxy host.
func WithProxy(useProxy bool) Option {
	return func(c *Connection) {
		c.useProxy = useProxy
	}
}

// Build validates the selection and returns a Connection.
// It performs no network I/O.
func Build(apiKey, modelVersion, modelType string, opts ...Option) (Connection, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Connection{}, errors.Wrap(model.ErrInvalidInput, "api key is empty")
	}
	if !slices.Contains(SupportedVersions, modelVersion) {
		return Connection{}, errors.Wrapf(model.ErrInvalidSelection,
			"model version %q not in %v", modelVersion, SupportedVersions)
	}
	if !slices.Contains(SupportedTypes, modelType) {
		return Connection{}, errors.Wrapf(model.ErrInvalidSelection,
			"model type %q not in %v", modelType, SupportedTypes)
	}

	conn := Connection{
		apiKey:       apiKey,
		modelVersion: modelVersion,
		modelType:    modelType,
	}
	for _, opt := range opts {
		opt(&conn)
	}
	return conn, nil
}

func (c Connection) APIKey() string       { return c.apiKey }
func (c Connection) ModelVersion() string { return c.modelVersion }
func (c Connection) ModelType() string    { return c.modelType }
func (c Connection) UseProxy() bool       { return c.useProxy }

// String describes the connection with the key masked.
func (c Connection) String() string {
	route := "direct"
	if c.useProxy {
		route = "proxy"
	}
	return c.modelVersion + "/" + c.modelType + " via " + route + " key=" + helper.MaskAPIKey(c.apiKey)
}
