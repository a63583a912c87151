package exchangerate

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig holds the transport timeouts of the default HTTP client.
type ClientConfig struct {
	// Timeout bounds the whole request. A context deadline can still shorten it.
	Timeout time.Duration

	DialTimeout     time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration
	MaxIdleConns    int
}

// DefaultClientConfig returns timeouts suited to a single small JSON GET.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:         10 * time.Second,
		DialTimeout:     3 * time.Second,
		TLSHandshake:    3 * time.Second,
		ResponseHeader:  5 * time.Second,
		IdleConnTimeout: 90 * time.Second,
		MaxIdleConns:    10,
	}
}

// NewClient builds an *http.Client from cfg.
func NewClient(cfg ClientConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
}
