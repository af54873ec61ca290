package handler

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/zeduno/paygate/internal/pkg/middleware"
	"github.com/zeduno/paygate/internal/pkg/models"
	natspkg "github.com/zeduno/paygate/internal/pkg/nats"
	"github.com/zeduno/paygate/services/payments"
	httpHandler "github.com/zeduno/paygate/services/payments/handler/http"
	natsHandler "github.com/zeduno/paygate/services/payments/handler/nats"
)

// Handler combines all handlers for the payments service
type Handler struct {
	paymentHTTP *httpHandler.PaymentHandler
	paymentNATS *natsHandler.PaymentHandler
	cfg         *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	paymentUC payments.PaymentUC,
	natsClient *natspkg.Client,
	cfg *models.Config,
	nrApp *newrelic.Application,
) *Handler {
	return &Handler{
		paymentHTTP: httpHandler.NewPaymentHandler(paymentUC),
		paymentNATS: natsHandler.NewPaymentHandler(paymentUC, natsClient, cfg, nrApp),
		cfg:         cfg,
	}
}

// RegisterRoutes registers all HTTP routes. Provider callbacks are public; everything
// else needs the checkout collaborator's API key.
func (h *Handler) RegisterRoutes(e *echo.Echo, redisClient *redis.Client) {
	api := e.Group("/api/v1")

	// Provider callbacks
	api.POST("/payments/callback/:provider", h.paymentHTTP.Callback)
	api.POST("/mpesa/callback", h.paymentHTTP.ProviderCallback(models.ProviderZed))
	api.POST("/mpesa/direct/callback", h.paymentHTTP.ProviderCallback(models.ProviderDaraja))

	secured := api.Group("", middleware.ValidateAPIKey(h.cfg.APIKey.CheckoutService))

	paymentsGroup := secured.Group("/payments")
	paymentsGroup.POST("", h.paymentHTTP.InitiatePayment,
		middleware.OrderRateLimiter(h.cfg.Payments.InitiateRateLimit, time.Minute, redisClient))
	paymentsGroup.GET("/:id", h.paymentHTTP.GetPayment)
	paymentsGroup.GET("/:id/status", h.paymentHTTP.GetPaymentStatus)
	paymentsGroup.POST("/:id/cancel", h.paymentHTTP.CancelPayment)
	paymentsGroup.POST("/:id/refund", h.paymentHTTP.RefundPayment)
	paymentsGroup.POST("/:id/cash/confirm", h.paymentHTTP.ConfirmCashPayment)

	tenantsGroup := secured.Group("/tenants/:tenantId/payments")
	tenantsGroup.GET("", h.paymentHTTP.ListTenantPayments)
	tenantsGroup.GET("/stats", h.paymentHTTP.GetPaymentStats)

	secured.GET("/orders/:orderId/payments", h.paymentHTTP.ListOrderPayments)
}

// InitNATSConsumers initializes all NATS consumers
func (h *Handler) InitNATSConsumers() error {
	return h.paymentNATS.InitNATSConsumers()
}

// Close stops the NATS consumers
func (h *Handler) Close() {
	h.paymentNATS.Close()
}
