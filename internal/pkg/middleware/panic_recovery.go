package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/utils"
)

// PanicRecoveryWithZapMiddleware turns a handler panic into a 500, logging the stack and
// reporting it to New Relic when a transaction is attached to the request.
func PanicRecoveryWithZapMiddleware(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	if zapLogger == nil {
		panic("PanicRecoveryWithZapMiddleware requires a logger")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, zapLogger)
					err = nil
				}
			}()
			return next(c)
		}
	}
}

func handlePanic(c echo.Context, r interface{}, zapLogger *logger.ZapLogger) {
	req := c.Request()
	stackTrace := string(debug.Stack())
	requestID := GetRequestID(c)
	panicType := fmt.Sprintf("%T", r)

	fields := []logger.Field{
		logger.Any("panic_value", r),
		logger.String("panic_type", panicType),
		logger.String("stack_trace", stackTrace),
		logger.String("method", req.Method),
		logger.String("path", req.URL.Path),
		logger.String("client_ip", c.RealIP()),
		logger.String("request_id", requestID),
	}

	txn := newrelic.FromContext(req.Context())
	if txn != nil {
		txn.NoticeError(newrelic.Error{
			Message: fmt.Sprintf("Panic recovered: %v", r),
			Class:   "PanicError",
			Attributes: map[string]interface{}{
				"panic.type":  panicType,
				"http.method": req.Method,
				"http.path":   req.URL.Path,
				"request_id":  requestID,
			},
		})
		txn.AddAttribute("panic.recovered", true)
	}
	zapLogger.WithNewRelicContext(txn).Error("Panic recovered during request processing", fields...)

	if c.Response().Committed {
		return
	}
	if err := utils.ErrorResponseHandler(c, http.StatusInternalServerError,
		"An unexpected error occurred while processing your request"); err != nil {
		_ = c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}
