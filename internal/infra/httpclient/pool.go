package httpclient

import (
	"net/http"
	"time"
)

// sharedTransport is reused across all pooled clients so the Ollama
// embedding and chat clients draw from one connection pool instead of
// re-handshaking per request.
var sharedTransport = &http.Transport{
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     120 * time.Second,
	DisableKeepAlives:   false,
}

// NewPooledClient creates an http.Client sharing the process-wide
// connection pool. Timeout caps the whole request including body read.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}
