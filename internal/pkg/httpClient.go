package client

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient builds the pooled HTTP client shared by every provider.
// The generous timeout tolerates large-model latencies; keep-alive reuse
// matters more than per-call latency when several sessions overlap.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        200,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}
