package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/zeduno/paygate/internal/pkg/models"
)

const transactionColumns = `id, tenant_id, order_id, order_number, method, provider,
	amount, charged_amount, currency, status,
	customer_phone, customer_name, customer_email, account_reference,
	merchant_request_id, checkout_request_id, gateway_transaction_id, receipt_number,
	result_code, result_desc, failure_reason, paid_amount, review_required, raw_response,
	initiated_at, completed_at, failed_at, cancelled_at, refunded_at, created_at, updated_at`

// terminalTimestamp names the column stamped once when a status is entered
var terminalTimestamp = map[models.TransactionStatus]string{
	models.TransactionStatusCompleted: "completed_at",
	models.TransactionStatusFailed:    "failed_at",
	models.TransactionStatusCancelled: "cancelled_at",
	models.TransactionStatusRefunded:  "refunded_at",
}

// PaymentRepo is the Postgres transaction ledger
type PaymentRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewPaymentRepository creates the ledger repository
func NewPaymentRepository(cfg *models.Config, db *sqlx.DB) *PaymentRepo {
	return &PaymentRepo{
		cfg: cfg,
		db:  db,
	}
}

// CreateTransaction inserts a new ledger entry
func (r *PaymentRepo) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO payment_transactions (
			id, tenant_id, order_id, order_number, method, provider,
			amount, charged_amount, currency, status,
			customer_phone, customer_name, customer_email, account_reference,
			initiated_at, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :order_id, :order_number, :method, :provider,
			:amount, :charged_amount, :currency, :status,
			:customer_phone, :customer_name, :customer_email, :account_reference,
			:initiated_at, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, tx); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves a transaction by id
func (r *PaymentRepo) GetTransactionByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM payment_transactions WHERE id = $1`, id)
}

// GetTransactionByCheckoutRequestID retrieves the transaction a provider checkout id belongs to
func (r *PaymentRepo) GetTransactionByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*models.Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM payment_transactions WHERE checkout_request_id = $1`, checkoutRequestID)
}

// GetTransactionByMerchantRequestID retrieves the latest transaction for a merchant request id
func (r *PaymentRepo) GetTransactionByMerchantRequestID(ctx context.Context, merchantRequestID string) (*models.Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM payment_transactions
		WHERE merchant_request_id = $1 ORDER BY created_at DESC LIMIT 1`, merchantRequestID)
}

// GetTransactionByGatewayTransactionID retrieves the transaction a provider receipt or transaction id belongs to
func (r *PaymentRepo) GetTransactionByGatewayTransactionID(ctx context.Context, gatewayTransactionID string) (*models.Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM payment_transactions
		WHERE gateway_transaction_id = $1 OR receipt_number = $1 ORDER BY created_at DESC LIMIT 1`, gatewayTransactionID)
}

// GetLatestTransactionByReference matches the account reference sent to the provider. Open
// attempts win, processing before pending; when open attempts of different orders share the
// reference nothing is matched. Without an open attempt the newest settled one is returned.
func (r *PaymentRepo) GetLatestTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var open []*models.Transaction
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions
		WHERE account_reference = $1 AND status IN ('pending', 'processing')
		ORDER BY (status = 'processing') DESC, created_at DESC`
	if err := r.db.SelectContext(ctx, &open, query, reference); err != nil {
		return nil, fmt.Errorf("failed to match transaction reference: %w", err)
	}

	if len(open) == 0 {
		return r.getOne(ctx, `SELECT `+transactionColumns+` FROM payment_transactions
			WHERE account_reference = $1 ORDER BY created_at DESC LIMIT 1`, reference)
	}

	first := open[0]
	for _, tx := range open[1:] {
		if tx.TenantID != first.TenantID || tx.OrderID != first.OrderID {
			return nil, fmt.Errorf("%w: %q matches %d open attempts", models.ErrAmbiguousReference, reference, len(open))
		}
	}
	return first, nil
}

// RecordInitiationError keeps the provider's refusal on an attempt that is still pending
func (r *PaymentRepo) RecordInitiationError(ctx context.Context, id uuid.UUID, update *models.TransitionUpdate) error {
	at := update.At
	if at.IsZero() {
		at = time.Now()
	}

	query := `
		UPDATE payment_transactions SET
			merchant_request_id = COALESCE($2, merchant_request_id),
			checkout_request_id = COALESCE($3, checkout_request_id),
			result_code = COALESCE($4, result_code),
			result_desc = COALESCE($5, result_desc),
			raw_response = COALESCE($6, raw_response),
			updated_at = $7
		WHERE id = $1 AND status = 'pending'`

	var raw interface{}
	if len(update.RawResponse) > 0 {
		raw = update.RawResponse
	}
	res, err := r.db.ExecContext(ctx, query, id, update.MerchantRequestID, update.CheckoutRequestID,
		update.ResultCode, update.ResultDesc, raw, at)
	if err != nil {
		return fmt.Errorf("failed to record initiation error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s is no longer pending", models.ErrInvalidTransition, id)
	}
	return nil
}

// Transition applies update only if the transaction currently holds one of the
// predecessor statuses of update.Status, and returns the updated row
func (r *PaymentRepo) Transition(ctx context.Context, id uuid.UUID, update *models.TransitionUpdate) (*models.Transaction, error) {
	predecessors := update.Status.Predecessors()
	if len(predecessors) == 0 {
		return nil, fmt.Errorf("%w: nothing transitions to %s", models.ErrInvalidTransition, update.Status)
	}

	at := update.At
	if at.IsZero() {
		at = time.Now()
	}

	sets := []string{"status = ?", "updated_at = ?"}
	args := []interface{}{update.Status, at}

	optional := []struct {
		column string
		value  *string
	}{
		{"merchant_request_id", update.MerchantRequestID},
		{"checkout_request_id", update.CheckoutRequestID},
		{"gateway_transaction_id", update.GatewayTransactionID},
		{"receipt_number", update.ReceiptNumber},
		{"result_code", update.ResultCode},
		{"result_desc", update.ResultDesc},
		{"failure_reason", update.FailureReason},
	}
	for _, o := range optional {
		if o.value != nil {
			sets = append(sets, o.column+" = ?")
			args = append(args, *o.value)
		}
	}
	if update.PaidAmount != nil {
		sets = append(sets, "paid_amount = ?")
		args = append(args, update.PaidAmount.String())
	}
	if update.ReviewRequired {
		sets = append(sets, "review_required = TRUE")
	}
	if len(update.RawResponse) > 0 {
		sets = append(sets, "raw_response = ?")
		args = append(args, update.RawResponse)
	}
	if column, ok := terminalTimestamp[update.Status]; ok {
		sets = append(sets, fmt.Sprintf("%s = COALESCE(%s, ?)", column, column))
		args = append(args, at)
	}

	query := fmt.Sprintf(`UPDATE payment_transactions SET %s WHERE id = ? AND status IN (?) RETURNING %s`,
		strings.Join(sets, ", "), transactionColumns)
	args = append(args, id, predecessors)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build transition query: %w", err)
	}

	var tx models.Transaction
	if err := r.db.GetContext(ctx, &tx, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, id, update.Status)
		}
		return nil, fmt.Errorf("failed to transition transaction: %w", err)
	}
	return &tx, nil
}

// ListTransactionsByOrder lists every attempt for an order, newest first
func (r *PaymentRepo) ListTransactionsByOrder(ctx context.Context, orderID string) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE order_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &txs, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list order transactions: %w", err)
	}
	return txs, nil
}

// ListTransactionsByTenant pages through a tenant's history, optionally filtered by status
func (r *PaymentRepo) ListTransactionsByTenant(ctx context.Context, filter models.PaymentHistoryFilter) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &txs, query, filter.TenantID, string(filter.Status), filter.Limit, filter.Offset); err != nil {
		return nil, fmt.Errorf("failed to list tenant transactions: %w", err)
	}
	return txs, nil
}

// GetPaymentStats aggregates a tenant's transactions created in [from, to)
func (r *PaymentRepo) GetPaymentStats(ctx context.Context, tenantID string, from, to time.Time) (*models.PaymentStats, error) {
	query := `
		SELECT
			$1::text AS tenant_id,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status IN ('completed', 'refunded')) AS successful,
			COUNT(*) FILTER (WHERE status IN ('failed', 'cancelled')) AS failed,
			COUNT(*) FILTER (WHERE status IN ('pending', 'processing')) AS pending,
			COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(COALESCE(paid_amount, amount)) FILTER (WHERE status = 'completed'), 0) AS successful_amount
		FROM payment_transactions
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3`

	var stats models.PaymentStats
	if err := r.db.GetContext(ctx, &stats, query, tenantID, from, to); err != nil {
		return nil, fmt.Errorf("failed to aggregate payment stats: %w", err)
	}
	stats.From = from
	stats.To = to
	return &stats, nil
}

// RecordCallbackEvent appends a callback delivery to the audit log
func (r *PaymentRepo) RecordCallbackEvent(ctx context.Context, event *models.CallbackEvent) error {
	query := `
		INSERT INTO payment_callback_events (
			id, provider, correlation_key, order_reference, shape, disposition,
			transaction_id, detail, payload, received_at
		) VALUES (
			:id, :provider, :correlation_key, :order_reference, :shape, :disposition,
			:transaction_id, :detail, :payload, :received_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to record callback event: %w", err)
	}
	return nil
}

func (r *PaymentRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.GetContext(ctx, &tx, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}
