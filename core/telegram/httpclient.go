package telegram

import (
	"net"
	"net/http"
	"time"
)

// BuildHTTPClient returns the HTTP client used for Bot API calls. Timeouts
// are short on the connection phases and generous on response headers so a
// long poll request can idle out its window. Delivery retries are
// intentionally not layered here; a failed send is logged by the sender and
// dropped.
func BuildHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}
}
