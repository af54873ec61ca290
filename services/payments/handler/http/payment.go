package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/middleware"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/internal/utils"
	"github.com/zeduno/paygate/services/payments"
)

// maxCallbackBody caps a provider callback payload
const maxCallbackBody = 1 << 20

// PaymentHandler handles HTTP requests for payment operations
type PaymentHandler struct {
	paymentUC payments.PaymentUC
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUC payments.PaymentUC) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
	}
}

// InitiatePayment opens a payment attempt for an order
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	var req models.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request payload for payment initiation",
			logger.Err(err),
			logger.String("endpoint", "InitiatePayment"))
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return utils.BadRequestResponse(c, utils.ValidationMessage(err))
	}

	middleware.SetTenantID(c, req.TenantID)
	middleware.AddAttribute(c, "payment.method", string(req.Method))

	resp, err := h.paymentUC.InitiatePayment(c.Request().Context(), &req)
	if err != nil {
		return h.respondError(c, err, "Failed to initiate payment")
	}

	middleware.SetPaymentID(c, resp.TransactionID.String())
	middleware.SetProvider(c, resp.Provider)
	return utils.SuccessResponse(c, http.StatusCreated, "Payment initiated successfully", resp)
}

// Callback receives a provider callback for the provider named in the path
func (h *PaymentHandler) Callback(c echo.Context) error {
	return h.handleCallback(c, c.Param("provider"))
}

// ProviderCallback binds a fixed provider to a legacy callback path
func (h *PaymentHandler) ProviderCallback(provider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.handleCallback(c, provider)
	}
}

// handleCallback always acknowledges so the provider stops retrying; failures are
// logged and kept in the callback audit log for the operator.
func (h *PaymentHandler) handleCallback(c echo.Context, provider string) error {
	middleware.SetProvider(c, provider)

	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCallbackBody))
	if err != nil {
		logger.Warn("Failed to read callback body",
			logger.Provider(provider),
			logger.Err(err))
		return c.JSON(http.StatusOK, models.AcceptedCallbackAck)
	}

	// The provider may hang up once it has sent the body; reconciliation must still finish
	ctx := context.WithoutCancel(c.Request().Context())

	result, err := h.paymentUC.HandleCallback(ctx, provider, raw)
	if err != nil {
		middleware.NoticeError(c, err)
		logger.WarnCtx(ctx, "Callback acknowledged without being applied",
			logger.Provider(provider),
			logger.Err(err))
		return c.JSON(http.StatusOK, models.AcceptedCallbackAck)
	}

	if result.TransactionID != uuid.Nil {
		middleware.SetPaymentID(c, result.TransactionID.String())
	}
	return c.JSON(http.StatusOK, models.AcceptedCallbackAck)
}

// GetPayment returns a single transaction
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}

	tx, err := h.paymentUC.GetTransaction(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve payment")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment retrieved successfully", tx)
}

// GetPaymentStatus asks the provider about an open attempt and returns the ledger status
func (h *PaymentHandler) GetPaymentStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}
	middleware.SetPaymentID(c, id.String())

	status, err := h.paymentUC.QueryPaymentStatus(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err, "Failed to query payment status")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment status retrieved successfully", status)
}

// CancelPayment cancels a pending or processing attempt
func (h *PaymentHandler) CancelPayment(c echo.Context) error {
	id, req, ok, err := h.bindAction(c)
	if !ok {
		return err
	}

	tx, err := h.paymentUC.CancelPayment(c.Request().Context(), id, req.Reason)
	if err != nil {
		return h.respondError(c, err, "Failed to cancel payment")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment cancelled successfully", tx)
}

// RefundPayment marks a completed payment as refunded
func (h *PaymentHandler) RefundPayment(c echo.Context) error {
	id, req, ok, err := h.bindAction(c)
	if !ok {
		return err
	}

	tx, err := h.paymentUC.RefundPayment(c.Request().Context(), id, req.Reason)
	if err != nil {
		return h.respondError(c, err, "Failed to refund payment")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment refunded successfully", tx)
}

// ConfirmCashPayment records cash received by staff
func (h *PaymentHandler) ConfirmCashPayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}

	var req models.CashConfirmation
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return utils.BadRequestResponse(c, utils.ValidationMessage(err))
	}
	if req.ReceivedAmount.IsNegative() {
		return utils.BadRequestResponse(c, models.ErrInvalidAmount.Error())
	}

	result, err := h.paymentUC.ConfirmCashPayment(c.Request().Context(), id, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to confirm cash payment")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Cash payment confirmed", result)
}

// ListOrderPayments returns every attempt made for an order
func (h *PaymentHandler) ListOrderPayments(c echo.Context) error {
	orderID := c.Param("orderId")
	if orderID == "" {
		return utils.BadRequestResponse(c, "Invalid order ID")
	}

	txs, err := h.paymentUC.ListOrderPayments(c.Request().Context(), orderID)
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve order payments")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Order payments retrieved successfully", txs)
}

// ListTenantPayments returns a page of a tenant's payment history
func (h *PaymentHandler) ListTenantPayments(c echo.Context) error {
	tenantID := c.Param("tenantId")
	if tenantID == "" {
		return utils.BadRequestResponse(c, "Invalid tenant ID")
	}
	middleware.SetTenantID(c, tenantID)

	filter := models.PaymentHistoryFilter{TenantID: tenantID}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = models.TransactionStatus(status)
		if !filter.Status.IsValid() {
			return utils.BadRequestResponse(c, "Invalid status filter")
		}
	}

	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return utils.BadRequestResponse(c, "Invalid limit")
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return utils.BadRequestResponse(c, "Invalid offset")
	}

	txs, err := h.paymentUC.ListTenantPayments(c.Request().Context(), filter)
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve payment history")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment history retrieved successfully", txs)
}

// GetPaymentStats returns a tenant's payment totals for a period
func (h *PaymentHandler) GetPaymentStats(c echo.Context) error {
	tenantID := c.Param("tenantId")
	if tenantID == "" {
		return utils.BadRequestResponse(c, "Invalid tenant ID")
	}

	from, err := queryTime(c, "from", false)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid from date, expected RFC3339 or YYYY-MM-DD")
	}
	to, err := queryTime(c, "to", true)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid to date, expected RFC3339 or YYYY-MM-DD")
	}

	stats, err := h.paymentUC.GetPaymentStats(c.Request().Context(), tenantID, from, to)
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve payment statistics")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment statistics retrieved successfully", stats)
}

func (h *PaymentHandler) bindAction(c echo.Context) (uuid.UUID, models.PaymentActionRequest, bool, error) {
	var req models.PaymentActionRequest

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return id, req, false, utils.BadRequestResponse(c, "Invalid transaction ID")
	}
	if err := c.Bind(&req); err != nil {
		return id, req, false, utils.BadRequestResponse(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return id, req, false, utils.BadRequestResponse(c, utils.ValidationMessage(err))
	}
	middleware.SetPaymentID(c, id.String())
	return id, req, true, nil
}

// respondError maps domain errors to status codes with actionable messages
func (h *PaymentHandler) respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrInvalidPhoneNumber):
		return utils.BadRequestResponse(c, "Invalid phone number, use a 07XX, 01XX or 254XXXXXXXXX number")
	case errors.Is(err, models.ErrUnsupportedCurrency),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidDateRange),
		errors.Is(err, models.ErrUnknownProvider):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, models.ErrTransactionNotFound):
		return utils.NotFoundResponse(c, "Payment not found")
	case errors.Is(err, models.ErrInvalidTransition):
		return utils.ErrorResponseHandler(c, http.StatusConflict, "Payment is not in a state that allows this action")
	case errors.Is(err, models.ErrAuthenticationFailed):
		logger.ErrorCtx(c.Request().Context(), "Payment provider credentials rejected", logger.Err(err))
		return utils.ErrorResponseHandler(c, http.StatusBadGateway, "Payment provider authentication failed, check gateway credentials")
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return utils.ServiceUnavailableResponse(c, "Payment provider is unavailable, the request can be retried")
	case errors.Is(err, models.ErrUpstreamRejected):
		return utils.ErrorResponseHandler(c, http.StatusBadGateway, "Payment provider rejected the request: "+err.Error())
	}

	middleware.NoticeError(c, err)
	logger.ErrorCtx(c.Request().Context(), fallback,
		logger.String("path", c.Path()),
		logger.Err(err))
	return utils.InternalServerErrorResponse(c, fallback)
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// queryTime accepts RFC3339 or a bare date; a bare end date covers the whole day
func queryTime(c echo.Context, name string, endOfDay bool) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
