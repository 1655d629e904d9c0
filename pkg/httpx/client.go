package httpx

import (
	"net/http"
	"time"
)

const defaultLogFieldMaxLen = 4096

// NewLoggingTransport wraps next (http.DefaultTransport when nil) with request
// and response logging. Secrets are masked and dumps are truncated.
func NewLoggingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return NewLoggingRoundTripper(next, WithDumpLimit(defaultLogFieldMaxLen))
}

// NewClient returns a client with a bounded timeout over a logging transport.
func NewClient(timeout time.Duration, next http.RoundTripper) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewLoggingTransport(next),
	}
}
