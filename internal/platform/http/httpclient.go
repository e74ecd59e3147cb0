package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates an HTTP client for calls to the market data provider.
//
// Settings:
//   - Proxy: used when HTTP_PROXY and friends are set
//   - Dialer.Timeout: TCP connect timeout (shorter than the default)
//   - Dialer.KeepAlive: how long reusable TCP connections are kept
//   - MaxIdleConns: idle connection pool size (20, a CLI makes few parallel calls)
//   - IdleConnTimeout: how long an idle connection is kept
//   - TLSHandshakeTimeout: upper bound for the HTTPS handshake
//   - ResponseHeaderTimeout: wait for response headers (same as the caller's timeout)
//   - Client.Timeout: whole-request timeout (supplied by the caller)
//
// Notes:
//   - http.DefaultClient has no timeout, so always use this client for outbound calls
//   - a request that hits any of these bounds resolves to "unavailable" instead of stalling a query
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
