// Package network validates the endpoint overrides read from configuration.
package network

import (
	"net/url"
	"strings"

	"github.com/Laisky/errors/v2"
)

// ValidateBaseURL checks that rawURL is an absolute http(s) URL usable as an
// API host prefix and returns it without a trailing slash. Paths are kept so
// that proxy prefixes such as https://host/google survive.
func ValidateBaseURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.New("url is empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", errors.Wrap(err, "parse url")
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", errors.Errorf("unsupported url scheme: %q", parsed.Scheme)
	}
	if parsed.User != nil {
		return "", errors.New("url must not include user info")
	}
	if parsed.Hostname() == "" {
		return "", errors.New("url host is empty")
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", errors.New("url must not include a query or fragment")
	}

	return strings.TrimSuffix(trimmed, "/"), nil
}

// ValidateProxyURL checks an outbound HTTP proxy setting. Unlike base URLs,
// socks5 proxies and credentials are allowed.
func ValidateProxyURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, errors.Wrap(err, "parse proxy url")
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, errors.Errorf("unsupported proxy scheme: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("proxy host is empty")
	}
	return parsed, nil
}
