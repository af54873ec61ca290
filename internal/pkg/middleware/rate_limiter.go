package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/utils"
)

// RateLimiterConfig limits requests sharing an identifier within a fixed window
type RateLimiterConfig struct {
	RedisClient *redis.Client
	Key         string        // Redis key prefix
	Limit       int           // requests allowed per window
	Period      time.Duration // window length
	// Identifier picks what the limit applies to; defaults to the client IP
	Identifier func(c echo.Context) string
}

// RateLimiterMiddleware counts requests in Redis with INCR and a window TTL.
// Redis errors let the request through so a cache outage never blocks payments.
func RateLimiterMiddleware(config RateLimiterConfig) echo.MiddlewareFunc {
	if config.Identifier == nil {
		config.Identifier = func(c echo.Context) string { return c.RealIP() }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Limit <= 0 || config.RedisClient == nil {
				return next(c)
			}

			identifier := config.Identifier(c)
			if identifier == "" {
				return next(c)
			}
			key := fmt.Sprintf("%s:%s", config.Key, identifier)
			ctx := c.Request().Context()

			count, err := config.RedisClient.Incr(ctx, key).Result()
			if err != nil {
				logger.WarnCtx(ctx, "Rate limiter unavailable", logger.String("key", key), logger.Err(err))
				return next(c)
			}
			if count == 1 {
				config.RedisClient.Expire(ctx, key, config.Period)
			}

			remaining := int64(config.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(config.Limit) {
				ttl := config.RedisClient.TTL(ctx, key).Val()
				if ttl < 0 {
					ttl = config.Period
				}
				c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(ttl.Seconds()), 10))
				return utils.ErrorResponseHandler(c, http.StatusTooManyRequests, "Too many payment attempts, try again shortly")
			}
			return next(c)
		}
	}
}

// OrderRateLimiter limits payment initiations per order, keyed by the X-Order-ID header
// the checkout sends or, failing that, by client IP.
func OrderRateLimiter(limit int, period time.Duration, redisClient *redis.Client) echo.MiddlewareFunc {
	return RateLimiterMiddleware(RateLimiterConfig{
		RedisClient: redisClient,
		Key:         "payments:rate:initiate",
		Limit:       limit,
		Period:      period,
		Identifier: func(c echo.Context) string {
			if orderID := c.Request().Header.Get("X-Order-ID"); orderID != "" {
				return "order:" + orderID
			}
			return "ip:" + c.RealIP()
		},
	})
}
