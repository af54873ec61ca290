package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/internal/utils"
)

// HandleCallback verifies, normalizes, and reconciles one provider delivery, keeping an audit
// row for it whatever the result. Errors are for the operator; the caller always acknowledges.
func (uc *paymentUC) HandleCallback(ctx context.Context, providerName string, raw []byte) (*models.ReconcileResult, error) {
	provider, err := uc.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	event := &models.CallbackEvent{
		ID:         uuid.New(),
		Provider:   provider.Name(),
		Shape:      models.PayloadShapeUnrecognized,
		Payload:    models.RawPayload(raw),
		ReceivedAt: uc.now(),
	}

	if err := provider.VerifyCallback(raw); err != nil {
		event.Disposition = models.CallbackIgnored
		event.Detail = err.Error()
		uc.recordCallback(ctx, event)
		return nil, err
	}

	outcome := provider.ExtractCallback(raw)
	event.Shape = outcome.Shape
	event.CorrelationKey = outcome.CorrelationKey
	event.OrderReference = outcome.OrderReference

	key := outcome.ReplayKey()
	if key != "" {
		processed, err := uc.dedupe.IsProcessed(ctx, provider.Name(), key)
		if err != nil {
			logger.WarnCtx(ctx, "Callback replay check failed, reconciling against the ledger",
				logger.Provider(provider.Name()),
				logger.CorrelationKey(key),
				logger.Err(err))
		} else if processed {
			event.Disposition = models.CallbackDuplicate
			event.Detail = "replay of an already reconciled callback"
			uc.recordCallback(ctx, event)
			return &models.ReconcileResult{Duplicate: true}, nil
		}
	}

	result, err := uc.Reconcile(ctx, outcome)
	event.Disposition, event.Detail = disposition(result, err)
	if result != nil && result.TransactionID != uuid.Nil {
		id := result.TransactionID
		event.TransactionID = &id
	}
	uc.recordCallback(ctx, event)

	if err != nil {
		logger.ErrorCtx(ctx, "Callback could not be reconciled",
			logger.Provider(provider.Name()),
			logger.CorrelationKey(key),
			logger.String("order_reference", outcome.OrderReference),
			logger.String("disposition", string(event.Disposition)),
			logger.Err(err))
		return nil, err
	}

	if key != "" && result.Status.IsTerminal() {
		if err := uc.dedupe.MarkProcessed(ctx, provider.Name(), key); err != nil {
			logger.WarnCtx(ctx, "Failed to mark callback as processed",
				logger.Provider(provider.Name()),
				logger.CorrelationKey(key),
				logger.Err(err))
		}
	}
	return result, nil
}

// Reconcile matches an outcome to its ledger entry and applies it at most once
func (uc *paymentUC) Reconcile(ctx context.Context, outcome *models.CallbackOutcome) (*models.ReconcileResult, error) {
	if outcome == nil || !outcome.HasCorrelation() {
		return nil, models.ErrMissingCorrelationKey
	}

	tx, err := uc.lookup(ctx, outcome)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, tx, outcome)
}

// QueryPaymentStatus returns the ledger status, first asking the provider when the attempt is
// still open. Provider trouble never fails the query; the local status is returned instead.
func (uc *paymentUC) QueryPaymentStatus(ctx context.Context, transactionID uuid.UUID) (*models.PaymentStatusResponse, error) {
	tx, err := uc.repo.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	local := statusResponse(tx, "local")
	key := tx.CorrelationKey()
	if tx.Status.IsTerminal() || key == "" {
		return local, nil
	}

	provider, err := uc.providers.Get(tx.Provider)
	if err != nil {
		logger.WarnCtx(ctx, "No adapter for stored provider", logger.TransactionID(tx.ID.String()), logger.Err(err))
		return local, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	outcome, err := provider.QueryStatus(queryCtx, key)
	if err != nil {
		logger.WarnCtx(ctx, "Provider status query failed, returning local status",
			logger.TransactionID(tx.ID.String()),
			logger.Provider(tx.Provider),
			logger.Err(err))
		return local, nil
	}
	if outcome == nil {
		return local, nil
	}
	if outcome.CorrelationKey == "" {
		outcome.CorrelationKey = key
	}

	result, err := uc.apply(ctx, tx, outcome)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to apply provider status",
			logger.TransactionID(tx.ID.String()),
			logger.Err(err))
		return local, nil
	}

	resp := statusResponse(tx, "provider")
	resp.Status = result.Status
	resp.ReceiptNumber = utils.FirstNonEmpty(outcome.ReceiptNumber, outcome.GatewayTransactionID, resp.ReceiptNumber)
	resp.ResultDesc = utils.FirstNonEmpty(outcome.ResultDesc, resp.ResultDesc)
	return resp, nil
}

// lookup tries every identifier the outcome carries, most specific first
func (uc *paymentUC) lookup(ctx context.Context, outcome *models.CallbackOutcome) (*models.Transaction, error) {
	type finder struct {
		key  string
		find func(context.Context, string) (*models.Transaction, error)
	}

	finders := []finder{
		{outcome.CorrelationKey, uc.repo.GetTransactionByCheckoutRequestID},
		{outcome.MerchantRequestID, uc.repo.GetTransactionByMerchantRequestID},
		{outcome.GatewayTransactionID, uc.repo.GetTransactionByGatewayTransactionID},
		{outcome.ReceiptNumber, uc.repo.GetTransactionByGatewayTransactionID},
		{outcome.OrderReference, uc.repo.GetLatestTransactionByReference},
	}
	if prefix := uc.cfg.Payments.ReferencePrefix; prefix != "" && strings.HasPrefix(outcome.OrderReference, prefix) {
		finders = append(finders, finder{strings.TrimPrefix(outcome.OrderReference, prefix), uc.repo.GetLatestTransactionByReference})
	}

	for _, f := range finders {
		if f.key == "" {
			continue
		}
		tx, err := f.find(ctx, f.key)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, models.ErrTransactionNotFound) {
			return nil, fmt.Errorf("failed to look up transaction: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: correlation %q, merchant request %q, gateway transaction %q, reference %q", models.ErrTransactionNotFound,
		outcome.CorrelationKey, outcome.MerchantRequestID, outcome.GatewayTransactionID, outcome.OrderReference)
}

// apply performs the single compare-and-swap that settles tx, then the side effects
func (uc *paymentUC) apply(ctx context.Context, tx *models.Transaction, outcome *models.CallbackOutcome) (*models.ReconcileResult, error) {
	result := &models.ReconcileResult{
		TransactionID:  tx.ID,
		PreviousStatus: tx.Status,
		Status:         tx.Status,
		ReviewRequired: tx.ReviewRequired,
	}

	if tx.Status.IsTerminal() {
		result.Duplicate = true
		logger.InfoCtx(ctx, models.ErrDuplicateCallback.Error(),
			logger.TransactionID(tx.ID.String()),
			logger.String("status", string(tx.Status)))
		return result, nil
	}
	if outcome.Pending {
		return result, nil
	}

	update := uc.settlement(tx, outcome)
	updated, err := uc.repo.Transition(ctx, tx.ID, update)
	if errors.Is(err, models.ErrInvalidTransition) {
		// A concurrent delivery won the swap
		result.Duplicate = true
		if current, getErr := uc.repo.GetTransactionByID(ctx, tx.ID); getErr == nil {
			result.Status = current.Status
			result.ReviewRequired = current.ReviewRequired
		}
		logger.InfoCtx(ctx, "Transaction settled concurrently, outcome not applied",
			logger.TransactionID(tx.ID.String()),
			logger.String("status", string(result.Status)))
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment outcome: %w", err)
	}

	result.Applied = true
	result.Status = updated.Status
	result.ReviewRequired = updated.ReviewRequired

	logger.InfoCtx(ctx, "Payment outcome applied",
		logger.TransactionID(updated.ID.String()),
		logger.Provider(updated.Provider),
		logger.String("from", string(tx.Status)),
		logger.String("to", string(updated.Status)),
		logger.Bool("review_required", updated.ReviewRequired))

	uc.propagate(ctx, updated, outcome)
	return result, nil
}

// settlement builds the ledger update for a decided outcome
func (uc *paymentUC) settlement(tx *models.Transaction, outcome *models.CallbackOutcome) *models.TransitionUpdate {
	update := &models.TransitionUpdate{
		ResultCode:  optional(outcome.ResultCode),
		ResultDesc:  optional(outcome.ResultDesc),
		RawResponse: outcome.Raw,
		At:          uc.now(),
	}
	if tx.CheckoutRequestID == nil {
		update.CheckoutRequestID = optional(outcome.CorrelationKey)
	}
	if tx.MerchantRequestID == nil {
		update.MerchantRequestID = optional(outcome.MerchantRequestID)
	}
	if tx.GatewayTransactionID == nil {
		update.GatewayTransactionID = optional(outcome.GatewayTransactionID)
	}

	if !outcome.Success {
		update.Status = models.TransactionStatusFailed
		reason := utils.FirstNonEmpty(outcome.ResultDesc, outcome.Status, "Payment failed")
		update.FailureReason = &reason
		return update
	}

	update.Status = models.TransactionStatusCompleted
	update.ReceiptNumber = optional(utils.FirstNonEmpty(outcome.ReceiptNumber, outcome.GatewayTransactionID))
	if outcome.Amount != nil {
		paid := *outcome.Amount
		update.PaidAmount = &paid
		update.ReviewRequired = !paid.Equal(tx.ChargedAmount)
	}
	return update
}

func disposition(result *models.ReconcileResult, err error) (models.CallbackDisposition, string) {
	switch {
	case errors.Is(err, models.ErrMissingCorrelationKey):
		return models.CallbackMissingKey, err.Error()
	case errors.Is(err, models.ErrTransactionNotFound):
		return models.CallbackNotFound, err.Error()
	case err != nil:
		return models.CallbackError, err.Error()
	case result.Duplicate:
		return models.CallbackDuplicate, string(result.Status)
	case result.Applied:
		return models.CallbackApplied, string(result.Status)
	default:
		return models.CallbackIgnored, "outcome not decided yet"
	}
}

func (uc *paymentUC) recordCallback(ctx context.Context, event *models.CallbackEvent) {
	if err := uc.repo.RecordCallbackEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, "Failed to record callback event",
			logger.Provider(event.Provider),
			logger.CorrelationKey(event.CorrelationKey),
			logger.Err(err))
	}
}

func statusResponse(tx *models.Transaction, source string) *models.PaymentStatusResponse {
	resp := &models.PaymentStatusResponse{
		TransactionID: tx.ID,
		OrderID:       tx.OrderID,
		Status:        tx.Status,
		Source:        source,
	}
	if tx.ReceiptNumber != nil {
		resp.ReceiptNumber = *tx.ReceiptNumber
	}
	if tx.ResultDesc != nil {
		resp.ResultDesc = *tx.ResultDesc
	}
	return resp
}

func marshalRaw(v interface{}) models.RawPayload {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return models.RawPayload(data)
}
