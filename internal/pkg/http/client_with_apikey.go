package http

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strings"
)

// APIKeyHeader is the header name for service-to-service API keys
const APIKeyHeader = "X-API-Key"

// APIKeyClient calls an internal service with an API key on every request
type APIKeyClient struct {
	client      *EnhancedClient
	apiKey      string
	baseURL     string
	serviceName string
}

// NewAPIKeyClient creates a client for the service at baseURL
func NewAPIKeyClient(client *EnhancedClient, serviceName, baseURL, apiKey string) *APIKeyClient {
	return &APIKeyClient{
		client:      client,
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		serviceName: serviceName,
	}
}

// PatchJSON sends a PATCH request; PATCHes to internal services are idempotent and retried
func (c *APIKeyClient) PatchJSON(ctx context.Context, endpoint string, body, result interface{}) error {
	return c.do(ctx, nethttp.MethodPatch, endpoint, body, result, true)
}

// PostJSON sends a POST request, attempted once
func (c *APIKeyClient) PostJSON(ctx context.Context, endpoint string, body, result interface{}) error {
	return c.do(ctx, nethttp.MethodPost, endpoint, body, result, false)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *APIKeyClient) GetJSON(ctx context.Context, endpoint string, result interface{}) error {
	return c.do(ctx, nethttp.MethodGet, endpoint, nil, result, true)
}

func (c *APIKeyClient) do(ctx context.Context, method, endpoint string, body, result interface{}, idempotent bool) error {
	header := map[string]string{}
	if c.apiKey != "" {
		header[APIKeyHeader] = c.apiKey
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		header["X-Request-ID"] = requestID
	}

	_, err := c.client.DoJSON(ctx, Request{
		Method:     method,
		URL:        c.baseURL + endpoint,
		Header:     header,
		Body:       body,
		Idempotent: idempotent,
	}, result)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", c.serviceName, method, endpoint, err)
	}
	return nil
}

type contextKey string

// RequestIDKey carries the inbound request id so it can be forwarded downstream
const RequestIDKey contextKey = "request_id"
