package client

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// DialTimeout specifies default maximum connection initialization time.
const DialTimeout = 5 * time.Second

// KeepAlive specifies default interval between keep-alive probes.
const KeepAlive = 15 * time.Second

// TLSHandshakeTimeout specifies default timeout of TLS handshake.
const TLSHandshakeTimeout = 5 * time.Second

// ResponseHeaderTimeout specifies default amount of time to wait for a server's response headers.
// Leaderboards with many runs are slow to generate.
const ResponseHeaderTimeout = 25 * time.Second

// MaxConnectionsPerHost specifies default maximum number of open connections to a host.
// It matches the DefaultConcurrencyLimit of the AsyncClient.
const MaxConnectionsPerHost = DefaultConcurrencyLimit

// IdleConnTimeout specifies how long an idle connection is kept in the pool.
const IdleConnTimeout = 90 * time.Second

// DefaultTransport returns a transport with reasonable limits, HTTP2 is preferred.
func DefaultTransport() http.RoundTripper {
	dialer := Dialer()
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ResponseHeaderTimeout: ResponseHeaderTimeout,
		IdleConnTimeout:       IdleConnTimeout,
		MaxConnsPerHost:       MaxConnectionsPerHost,
		MaxIdleConnsPerHost:   MaxConnectionsPerHost,
	}
}

// HTTP2Transport forces HTTP2 protocol over TLS.
// All requests to a host are multiplexed over one connection.
func HTTP2Transport() http.RoundTripper {
	dialer := Dialer()
	return &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, cfg *tls.Config) (net.Conn, error) {
			tlsDialer := &tls.Dialer{NetDialer: dialer, Config: cfg}
			return tlsDialer.DialContext(ctx, network, addr)
		},
		ReadIdleTimeout:  10 * time.Second,
		PingTimeout:      5 * time.Second,
		WriteByteTimeout: 5 * time.Second,
	}
}

// Dialer - default dialer.
func Dialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   DialTimeout,
		KeepAlive: KeepAlive,
	}
}
