package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	httppkg "github.com/zeduno/paygate/internal/pkg/http"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestValidateAPIKey(t *testing.T) {
	e := echo.New()
	e.GET("/secured", okHandler, ValidateAPIKey("checkout-key", ""))

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{name: "missing key", key: "", status: http.StatusUnauthorized},
		{name: "wrong key", key: "nope", status: http.StatusUnauthorized},
		{name: "valid key", key: "checkout-key", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secured", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestValidateAPIKey_UnconfiguredKeyLocksRoute(t *testing.T) {
	e := echo.New()
	e.GET("/secured", okHandler, ValidateAPIKey(""))

	req := httptest.NewRequest(http.MethodGet, "/secured", nil)
	req.Header.Set(APIKeyHeader, "anything")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())

	var fromCtx string
	e.GET("/", func(c echo.Context) error {
		fromCtx, _ = c.Request().Context().Value(httppkg.RequestIDKey).(string)
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		require.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
		assert.Equal(t, id, fromCtx)
	})

	t.Run("keeps the caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "upstream-1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "upstream-1", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "upstream-1", fromCtx)
	})
}

func TestOrderRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	e := echo.New()
	e.POST("/pay", okHandler, OrderRateLimiter(2, time.Minute, client))

	send := func(orderID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/pay", nil)
		req.Header.Set("X-Order-ID", orderID)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("order-1").Code)
	assert.Equal(t, http.StatusOK, send("order-1").Code)

	rec := send("order-1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("order-2").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, send("order-1").Code)
}

func TestOrderRateLimiter_RedisDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	e := echo.New()
	e.POST("/pay", okHandler, OrderRateLimiter(1, time.Minute, client))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pay", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
