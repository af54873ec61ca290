package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/internal/utils"
	"github.com/zeduno/paygate/services/payments"
	"go.uber.org/multierr"
)

const (
	defaultGatewayTimeout = 30 * time.Second
	defaultHistoryLimit   = 50
	maxHistoryLimit       = 200
	defaultStatsWindow    = 30 * 24 * time.Hour
)

// Card and wallet processors settle in these on top of the mobile money currencies
var cardCurrencies = []string{"USD", "EUR", "IDR"}

// paymentUC implements the payments.PaymentUC interface
type paymentUC struct {
	cfg         *models.Config
	repo        payments.PaymentRepo
	dedupe      payments.CallbackDedupe
	providers   payments.ProviderRegistry
	orders      payments.OrderCoupler
	broadcaster payments.Broadcaster
	timeout     time.Duration
	now         func() time.Time
}

// NewPaymentUC creates a new payment use case
func NewPaymentUC(
	cfg *models.Config,
	repo payments.PaymentRepo,
	dedupe payments.CallbackDedupe,
	providers payments.ProviderRegistry,
	orders payments.OrderCoupler,
	broadcaster payments.Broadcaster,
) (payments.PaymentUC, error) {
	timeout := time.Duration(cfg.Payments.GatewayTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	return &paymentUC{
		cfg:         cfg,
		repo:        repo,
		dedupe:      dedupe,
		providers:   providers,
		orders:      orders,
		broadcaster: broadcaster,
		timeout:     timeout,
		now:         time.Now,
	}, nil
}

// InitiatePayment records a pending attempt and pushes it to the resolved provider.
// The attempt is left pending or processing, never settled.
func (uc *paymentUC) InitiatePayment(ctx context.Context, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}
	if !req.Method.IsValid() {
		return nil, fmt.Errorf("%w: unsupported payment method %q", models.ErrUnknownProvider, req.Method)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if !uc.supportsCurrency(req.Method, currency) {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedCurrency, req.Currency)
	}

	phone := strings.TrimSpace(req.Phone)
	if req.Method == models.PaymentMethodMpesa || phone != "" {
		normalized, _, err := utils.NormalizeMSISDN(phone)
		if err != nil {
			if req.Method == models.PaymentMethodMpesa {
				return nil, err
			}
		} else {
			phone = normalized
		}
	}

	provider, err := uc.providers.Resolve(req.TenantID, req.Method, req.Provider)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	charged := req.Amount
	if req.Method == models.PaymentMethodMpesa {
		charged = req.Amount.Ceil()
	}

	tx := &models.Transaction{
		ID:               uuid.New(),
		TenantID:         req.TenantID,
		OrderID:          req.OrderID,
		OrderNumber:      req.OrderNumber,
		Method:           req.Method,
		Provider:         provider.Name(),
		Amount:           req.Amount,
		ChargedAmount:    charged,
		Currency:         currency,
		Status:           models.TransactionStatusPending,
		CustomerPhone:    optional(phone),
		CustomerName:     optional(req.CustomerName),
		CustomerEmail:    optional(req.CustomerEmail),
		AccountReference: uc.accountReference(req),
		InitiatedAt:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	logger.InfoCtx(ctx, "Initiating payment",
		logger.TransactionID(tx.ID.String()),
		logger.Provider(tx.Provider),
		logger.String("order_id", tx.OrderID),
		logger.String("method", string(tx.Method)),
		logger.Decimal("amount", tx.ChargedAmount))

	pushCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	result, err := provider.Initiate(pushCtx, &models.InitiateRequest{
		TransactionID:    tx.ID,
		Phone:            phone,
		Amount:           charged,
		Currency:         currency,
		AccountReference: tx.AccountReference,
		Description:      utils.FirstNonEmpty(req.Description, "Payment"),
		CallbackURL:      uc.callbackURL(provider.Name()),
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
	})
	if err != nil {
		return nil, uc.initiateFailed(ctx, tx, result, err, pushCtx.Err())
	}

	update := &models.TransitionUpdate{
		Status:            models.TransactionStatusProcessing,
		MerchantRequestID: optional(result.MerchantRequestID),
		CheckoutRequestID: optional(result.CheckoutRequestID),
		ResultCode:        optional(result.ResponseCode),
		ResultDesc:        optional(result.Message),
		RawResponse:       result.Raw,
		At:                uc.now(),
	}
	updated, err := uc.repo.Transition(ctx, tx.ID, update)
	switch {
	case errors.Is(err, models.ErrInvalidTransition):
		// A callback settled the attempt before the initiation response came back
		logger.InfoCtx(ctx, "Payment settled before initiation response was recorded",
			logger.TransactionID(tx.ID.String()))
		if current, getErr := uc.repo.GetTransactionByID(ctx, tx.ID); getErr == nil {
			updated = current
		} else {
			updated = tx
		}
	case err != nil:
		return nil, fmt.Errorf("failed to record initiation response: %w", err)
	default:
		if err := uc.publish(ctx, updated, "Payment request sent to customer"); err != nil {
			logger.WarnCtx(ctx, "Failed to publish payment request status",
				logger.TransactionID(updated.ID.String()),
				logger.Err(err))
		}
	}

	return &models.InitiatePaymentResponse{
		TransactionID:     updated.ID,
		Status:            updated.Status,
		Provider:          updated.Provider,
		MerchantRequestID: result.MerchantRequestID,
		CheckoutRequestID: result.CheckoutRequestID,
		RedirectURL:       result.RedirectURL,
		Message:           result.Message,
	}, nil
}

// initiateFailed classifies a failed push. The attempt always stays pending: only a matched
// callback or a status query settles it, and staff can cancel it. A refusal is recorded on the row.
func (uc *paymentUC) initiateFailed(ctx context.Context, tx *models.Transaction, result *models.InitiateResult, err, ctxErr error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) && !errors.Is(err, models.ErrUpstreamUnavailable) {
		err = fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	if errors.Is(err, models.ErrUpstreamUnavailable) {
		logger.WarnCtx(ctx, "Payment provider unavailable, attempt left pending",
			logger.TransactionID(tx.ID.String()),
			logger.Provider(tx.Provider),
			logger.Err(err))
		return err
	}

	logger.WarnCtx(ctx, "Payment provider refused the payment request, attempt left pending",
		logger.TransactionID(tx.ID.String()),
		logger.Provider(tx.Provider),
		logger.Err(err))

	update := &models.TransitionUpdate{
		Status:     models.TransactionStatusPending,
		ResultDesc: optional(err.Error()),
		At:         uc.now(),
	}
	if result != nil {
		update.MerchantRequestID = optional(result.MerchantRequestID)
		update.CheckoutRequestID = optional(result.CheckoutRequestID)
		update.ResultCode = optional(result.ResponseCode)
		update.RawResponse = result.Raw
		if result.Message != "" {
			update.ResultDesc = optional(result.Message)
		}
	}
	if recordErr := uc.repo.RecordInitiationError(ctx, tx.ID, update); recordErr != nil {
		logger.ErrorCtx(ctx, "Failed to record refused payment request",
			logger.TransactionID(tx.ID.String()),
			logger.Err(recordErr))
	}
	return err
}

// CancelPayment cancels an attempt that has not settled yet
func (uc *paymentUC) CancelPayment(ctx context.Context, transactionID uuid.UUID, reason string) (*models.Transaction, error) {
	reason = utils.FirstNonEmpty(reason, "Cancelled by staff")
	tx, err := uc.repo.Transition(ctx, transactionID, &models.TransitionUpdate{
		Status:        models.TransactionStatusCancelled,
		FailureReason: &reason,
		At:            uc.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel payment %s: %w", transactionID, err)
	}

	logger.InfoCtx(ctx, "Payment cancelled",
		logger.TransactionID(tx.ID.String()),
		logger.String("reason", reason))
	uc.propagate(ctx, tx, nil)
	return tx, nil
}

// RefundPayment marks a completed payment as refunded on the ledger
func (uc *paymentUC) RefundPayment(ctx context.Context, transactionID uuid.UUID, reason string) (*models.Transaction, error) {
	reason = utils.FirstNonEmpty(reason, "Refunded by staff")
	tx, err := uc.repo.Transition(ctx, transactionID, &models.TransitionUpdate{
		Status:     models.TransactionStatusRefunded,
		ResultDesc: &reason,
		At:         uc.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment %s: %w", transactionID, err)
	}

	logger.InfoCtx(ctx, "Payment refunded",
		logger.TransactionID(tx.ID.String()),
		logger.String("reason", reason))
	uc.propagate(ctx, tx, nil)
	return tx, nil
}

// ConfirmCashPayment settles a cash attempt once staff have received the money
func (uc *paymentUC) ConfirmCashPayment(ctx context.Context, transactionID uuid.UUID, confirmation *models.CashConfirmation) (*models.ReconcileResult, error) {
	tx, err := uc.repo.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Provider != models.ProviderCash {
		return nil, fmt.Errorf("%w: payment %s is not a cash payment", models.ErrInvalidTransition, transactionID)
	}

	received := confirmation.ReceivedAmount
	if received.IsZero() {
		received = tx.ChargedAmount
	}
	if received.IsNegative() {
		return nil, models.ErrInvalidAmount
	}

	paidAt := uc.now()
	outcome := &models.CallbackOutcome{
		Provider:       models.ProviderCash,
		CorrelationKey: tx.CorrelationKey(),
		OrderReference: tx.AccountReference,
		Success:        true,
		ResultCode:     "0",
		ResultDesc:     "Cash received by " + confirmation.ReceivedBy,
		ReceiptNumber:  utils.FirstNonEmpty(confirmation.Reference, tx.CorrelationKey()),
		Amount:         &received,
		PaidAt:         &paidAt,
		Shape:          models.PayloadShapeFlat,
		Raw:            marshalRaw(confirmation),
	}
	return uc.apply(ctx, tx, outcome)
}

// CancelOrderPayments cancels every open attempt of a cancelled order
func (uc *paymentUC) CancelOrderPayments(ctx context.Context, event *models.OrderCancelledEvent) (int, error) {
	txs, err := uc.repo.ListTransactionsByOrder(ctx, event.OrderID)
	if err != nil {
		return 0, err
	}

	reason := "Order cancelled"
	if event.Reason != "" {
		reason = "Order cancelled: " + event.Reason
	}

	cancelled := 0
	var errs error
	for _, tx := range txs {
		if tx.Status.IsTerminal() {
			continue
		}
		updated, err := uc.repo.Transition(ctx, tx.ID, &models.TransitionUpdate{
			Status:        models.TransactionStatusCancelled,
			FailureReason: &reason,
			At:            uc.now(),
		})
		if errors.Is(err, models.ErrInvalidTransition) {
			continue
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("transaction %s: %w", tx.ID, err))
			continue
		}
		cancelled++
		uc.propagate(ctx, updated, nil)
	}

	if errs != nil {
		return cancelled, fmt.Errorf("failed to cancel payments of order %s: %w", event.OrderID, errs)
	}
	return cancelled, nil
}

// GetTransaction returns a single ledger entry
func (uc *paymentUC) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	return uc.repo.GetTransactionByID(ctx, transactionID)
}

// ListOrderPayments returns every attempt made for an order
func (uc *paymentUC) ListOrderPayments(ctx context.Context, orderID string) ([]*models.Transaction, error) {
	return uc.repo.ListTransactionsByOrder(ctx, orderID)
}

// ListTenantPayments pages through a tenant's payment history
func (uc *paymentUC) ListTenantPayments(ctx context.Context, filter models.PaymentHistoryFilter) ([]*models.Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.repo.ListTransactionsByTenant(ctx, filter)
}

// GetPaymentStats aggregates a tenant's payments, defaulting to the last 30 days
func (uc *paymentUC) GetPaymentStats(ctx context.Context, tenantID string, from, to time.Time) (*models.PaymentStats, error) {
	if to.IsZero() {
		to = uc.now()
	}
	if from.IsZero() {
		from = to.Add(-defaultStatsWindow)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from %s is after to %s", models.ErrInvalidDateRange,
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return uc.repo.GetPaymentStats(ctx, tenantID, from, to)
}

func (uc *paymentUC) supportsCurrency(method models.PaymentMethod, currency string) bool {
	for _, c := range uc.cfg.Payments.SupportedCurrencies {
		if strings.EqualFold(c, currency) {
			return true
		}
	}
	if method == models.PaymentMethodCard || method == models.PaymentMethodWallet {
		for _, c := range cardCurrencies {
			if c == currency {
				return true
			}
		}
	}
	return false
}

func (uc *paymentUC) accountReference(req *models.InitiatePaymentRequest) string {
	if req.OrderNumber != "" {
		return uc.cfg.Payments.ReferencePrefix + req.OrderNumber
	}
	return req.OrderID
}

func (uc *paymentUC) callbackURL(provider string) string {
	base := strings.TrimRight(uc.cfg.Payments.CallbackBaseURL, "/")
	if base == "" {
		return ""
	}
	return base + "/api/v1/payments/callback/" + provider
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
