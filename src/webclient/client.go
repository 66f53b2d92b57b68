package webclient

import (
	"net/http"
	"time"
)

const defaultUserAgent = "FakeVerifier/1.0 (+https://fakeverifier.co.uk)"

// NewDefault returns an HTTP client with sane timeouts.
func NewDefault(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// SetDefaultHeaders applies the headers shared by every outbound request.
func SetDefaultHeaders(req *http.Request) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")
	}
}
