package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zeduno/paygate/internal/pkg/circuitbreaker"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	nrpkg "github.com/zeduno/paygate/internal/pkg/newrelic"
	"github.com/zeduno/paygate/internal/pkg/retry"
)

// maxResponseBody caps how much of a provider response is read
const maxResponseBody = 1 << 20

// EnhancedClient wraps http.Client with retry and a circuit breaker per host
type EnhancedClient struct {
	client   *http.Client
	retrier  *retry.Retrier
	breakers *circuitbreaker.Manager
	logger   *logger.ZapLogger
}

// NewEnhancedClient creates a new enhanced HTTP client
func NewEnhancedClient(log *logger.ZapLogger, timeout time.Duration) *EnhancedClient {
	return &EnhancedClient{
		client: &http.Client{
			Timeout: timeout,
		},
		retrier:  retry.NewWithDefaults(log),
		breakers: circuitbreaker.NewManager(log, isUpstreamFailure),
		logger:   log,
	}
}

// isUpstreamFailure counts only unavailability towards opening a breaker; a rejected request says nothing about host health
func isUpstreamFailure(err error) bool {
	return err != nil && errors.Is(err, models.ErrUpstreamUnavailable)
}

// DoJSON sends a JSON request and decodes a 2xx body into out.
// Non-2xx responses return both the Response and an *HTTPError so callers can read provider error bodies.
func (c *EnhancedClient) DoJSON(ctx context.Context, r Request, out interface{}) (*Response, error) {
	var payload []byte
	if r.Body != nil {
		var err error
		payload, err = json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	host := req.URL.Host
	if host == "" {
		host = "unknown"
	}

	var resp *Response
	attempt := func(ctx context.Context) error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range r.Header {
			req.Header.Set(k, v)
		}
		if r.Username != "" || r.Password != "" {
			req.SetBasicAuth(r.Username, r.Password)
		}

		resp, err = c.send(ctx, req)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 300 {
			httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: resp.Body}
			if resp.StatusCode < 500 {
				return retry.Permanent(httpErr)
			}
			return httpErr
		}
		return nil
	}

	err = c.breakers.Execute(ctx, host, func(ctx context.Context) error {
		if r.Idempotent {
			return c.retrier.Execute(ctx, attempt)
		}
		return unwrapPermanent(attempt(ctx))
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, host, err)
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, host, err)
		}
		return resp, err
	}

	if out != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return resp, fmt.Errorf("%w: undecodable response: %v", models.ErrUpstreamRejected, err)
		}
	}
	return resp, nil
}

func (c *EnhancedClient) send(ctx context.Context, req *http.Request) (*Response, error) {
	httpResp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*http.Response, error) {
		return c.client.Do(req)
	})
	if err != nil {
		c.logger.Debug("HTTP request failed",
			logger.String("method", req.Method),
			logger.String("url", req.URL.Redacted()),
			logger.Err(err))
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", models.ErrUpstreamUnavailable, err)
	}

	c.logger.Debug("HTTP request completed",
		logger.String("method", req.Method),
		logger.String("url", req.URL.Redacted()),
		logger.Int("status_code", httpResp.StatusCode))

	return &Response{StatusCode: httpResp.StatusCode, Body: body, Header: httpResp.Header}, nil
}

// BreakerStats returns the circuit breaker state per upstream host
func (c *EnhancedClient) BreakerStats() map[string]string {
	return c.breakers.Stats()
}

func unwrapPermanent(err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return err
}
