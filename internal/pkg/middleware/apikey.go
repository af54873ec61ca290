package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/zeduno/paygate/internal/utils"
)

const (
	APIKeyHeader = "X-API-Key"
)

// ValidateAPIKey rejects requests that do not carry one of the given keys.
// Empty keys are never accepted, so an unconfigured key locks the route.
func ValidateAPIKey(keys ...string) echo.MiddlewareFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			allowed = append(allowed, []byte(k))
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := c.Request().Header.Get(APIKeyHeader)
			if apiKey == "" {
				return utils.UnauthorizedResponse(c, "API key is required")
			}

			for _, key := range allowed {
				if subtle.ConstantTimeCompare([]byte(apiKey), key) == 1 {
					return next(c)
				}
			}
			return utils.UnauthorizedResponse(c, "Invalid API key")
		}
	}
}
