package services

import (
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"
)

// NewHTTPClient returns an http.Client whose transport retries transient
// failures: connection errors, 429, and 5xx responses, honoring Retry-After
// when the server sends one.
func NewHTTPClient(timeout time.Duration) *http.Client {
	retryPolicy := failsafehttp.NewRetryPolicyBuilder().
		WithBackoff(time.Second, 10*time.Second).
		WithMaxRetries(3).
		Build()

	return &http.Client{
		Timeout:   timeout,
		Transport: failsafehttp.NewRoundTripper(nil, retryPolicy),
	}
}
