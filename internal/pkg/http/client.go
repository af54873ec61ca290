package http

import (
	"fmt"
	"net/http"

	"github.com/zeduno/paygate/internal/pkg/models"
)

// Request describes one outbound JSON call
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   interface{}
	// BasicAuth is sent as the Authorization header when both parts are set
	Username string
	Password string
	// Idempotent requests are retried on transient failures; payment pushes never are
	Idempotent bool
}

// Response is the raw result of a call that reached the server
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// HTTPError is returned for non-2xx responses.
// It unwraps to ErrUpstreamUnavailable for 5xx and ErrUpstreamRejected for 4xx.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256]
	}
	return fmt.Sprintf("upstream responded %d: %s", e.StatusCode, body)
}

func (e *HTTPError) Unwrap() error {
	if e.StatusCode >= 500 {
		return models.ErrUpstreamUnavailable
	}
	return models.ErrUpstreamRejected
}

// IsUnauthorized reports whether the upstream refused the credentials
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
