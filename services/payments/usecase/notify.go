package usecase

import (
	"context"

	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/internal/utils"
	"go.uber.org/multierr"
)

// propagate pushes a settled transaction to the order service and to subscribers.
// Every step is attempted; failures are logged and never undo the ledger write.
func (uc *paymentUC) propagate(ctx context.Context, tx *models.Transaction, outcome *models.CallbackOutcome) {
	var errs error

	update := &models.OrderPaymentUpdate{
		PaymentMethod: tx.Method,
		TransactionID: tx.ID,
	}
	if tx.ReceiptNumber != nil {
		update.Reference = *tx.ReceiptNumber
	}

	message := ""
	switch tx.Status {
	case models.TransactionStatusCompleted:
		message = "Payment completed successfully"
		update.PaymentStatus = models.OrderPaymentPaid
		update.PaidAt = tx.CompletedAt
		if outcome != nil && outcome.PaidAt != nil {
			update.PaidAt = outcome.PaidAt
		}

		if underpaid(tx) {
			message = "Payment received with a lower amount than charged, review required"
			update.PaymentStatus = models.OrderPaymentReview
			errs = multierr.Append(errs, uc.orders.SetOrderPaymentStatus(ctx, tx.OrderID, update))
			break
		}

		errs = multierr.Append(errs, uc.orders.SetOrderPaymentStatus(ctx, tx.OrderID, update))
		errs = multierr.Append(errs, uc.orders.AdvanceOrderWorkflow(ctx, tx.OrderID, &models.OrderWorkflowAdvance{
			FromPending: true,
			Reason:      "payment completed",
		}))

	case models.TransactionStatusFailed:
		desc := "unknown error"
		if tx.FailureReason != nil {
			desc = *tx.FailureReason
		}
		message = "Payment failed: " + desc
		update.PaymentStatus = models.OrderPaymentFailed
		update.RequirePending = true
		errs = multierr.Append(errs, uc.orders.SetOrderPaymentStatus(ctx, tx.OrderID, update))

	case models.TransactionStatusRefunded:
		message = "Payment refunded"
		update.PaymentStatus = models.OrderPaymentRefund
		errs = multierr.Append(errs, uc.orders.SetOrderPaymentStatus(ctx, tx.OrderID, update))

	case models.TransactionStatusCancelled:
		message = "Payment cancelled"
	}

	if err := uc.publish(ctx, tx, message); err != nil {
		errs = multierr.Append(errs, err)
	}

	for _, err := range multierr.Errors(errs) {
		logger.ErrorCtx(ctx, "Payment side effect failed",
			logger.TransactionID(tx.ID.String()),
			logger.String("order_id", tx.OrderID),
			logger.String("status", string(tx.Status)),
			logger.Err(err))
	}
}

// publish hands a status event to the broadcaster without waiting for delivery
func (uc *paymentUC) publish(ctx context.Context, tx *models.Transaction, message string) error {
	amount := tx.ChargedAmount
	if tx.PaidAmount.Valid {
		amount = tx.PaidAmount.Decimal
	}

	event := &models.PaymentStatusEvent{
		TransactionID: tx.ID,
		TenantID:      tx.TenantID,
		OrderID:       tx.OrderID,
		OrderNumber:   utils.FirstNonEmpty(tx.OrderNumber, tx.AccountReference),
		Status:        tx.Status,
		Amount:        &amount,
		Currency:      tx.Currency,
		Message:       message,
		Timestamp:     uc.now(),
	}
	if tx.MerchantRequestID != nil {
		event.MerchantRequestID = *tx.MerchantRequestID
	}
	if tx.CheckoutRequestID != nil {
		event.CheckoutRequestID = *tx.CheckoutRequestID
	}
	if tx.ReceiptNumber != nil {
		event.TransactionReference = *tx.ReceiptNumber
	}

	return uc.broadcaster.PublishPaymentStatus(ctx, event)
}

func underpaid(tx *models.Transaction) bool {
	return tx.PaidAmount.Valid && tx.PaidAmount.Decimal.LessThan(tx.ChargedAmount)
}
