// Package httpclient provides the shared HTTP client used for fetching
// remote attachment payloads.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Config holds configuration options for the attachment-fetch client
type Config struct {
	// Timeout specifies a time limit for a whole fetch, body read included
	Timeout time.Duration

	// DialTimeout is the maximum amount of time a dial will wait for a connect to complete
	DialTimeout time.Duration

	// TLSHandshakeTimeout specifies the maximum amount of time to wait for a TLS handshake
	TLSHandshakeTimeout time.Duration

	// MaxIdleConnsPerHost controls the idle (keep-alive) connections kept per host
	MaxIdleConnsPerHost int
}

// DefaultConfig returns a Config with defaults sized for attachment
// downloads rather than long-lived generation calls.
func DefaultConfig() Config {
	return Config{
		Timeout:             2 * time.Minute,
		DialTimeout:         30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConnsPerHost: 10,
	}
}

// New creates a new HTTP client with the provided configuration.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *http.Client {
	if config == nil {
		cfg := DefaultConfig()
		config = &cfg
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}
}
