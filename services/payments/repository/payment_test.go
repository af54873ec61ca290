package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeduno/paygate/internal/pkg/models"
)

func setupMockDB(t *testing.T) (*PaymentRepo, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewPaymentRepository(&models.Config{}, db), mock
}

func transactionRows(id uuid.UUID, status models.TransactionStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "order_id", "order_number", "method", "provider",
		"amount", "charged_amount", "currency", "status", "account_reference",
		"checkout_request_id", "review_required", "initiated_at", "created_at", "updated_at",
	}).AddRow(
		id.String(), "tenant-1", "order-1", "1001", "mpesa", "zed",
		"1499.40", "1500", "KES", string(status), "BT-1001",
		"CHK-1", false, now, now, now,
	)
}

func TestCreateTransaction(t *testing.T) {
	repo, mock := setupMockDB(t)
	phone := "254712345678"
	now := time.Now()
	tx := &models.Transaction{
		ID:               uuid.New(),
		TenantID:         "tenant-1",
		OrderID:          "order-1",
		OrderNumber:      "1001",
		Method:           models.PaymentMethodMpesa,
		Provider:         models.ProviderZed,
		Amount:           decimal.RequireFromString("1499.40"),
		ChargedAmount:    decimal.NewFromInt(1500),
		Currency:         "KES",
		Status:           models.TransactionStatusPending,
		CustomerPhone:    &phone,
		AccountReference: "BT-1001",
		InitiatedAt:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment_transactions")).
		WithArgs(tx.ID, "tenant-1", "order-1", "1001", models.PaymentMethodMpesa, models.ProviderZed,
			tx.Amount, tx.ChargedAmount, "KES", models.TransactionStatusPending,
			&phone, nil, nil, "BT-1001", now, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateTransaction(context.Background(), tx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionByCheckoutRequestID(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_transactions WHERE checkout_request_id = $1")).
		WithArgs("CHK-1").
		WillReturnRows(transactionRows(id, models.TransactionStatusProcessing))

	tx, err := repo.GetTransactionByCheckoutRequestID(context.Background(), "CHK-1")

	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, models.TransactionStatusProcessing, tx.Status)
	assert.True(t, decimal.RequireFromString("1499.40").Equal(tx.Amount))
	require.NotNil(t, tx.CheckoutRequestID)
	assert.Equal(t, "CHK-1", *tx.CheckoutRequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE merchant_request_id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetTransactionByMerchantRequestID(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func referenceRows(rows ...[3]string) *sqlmock.Rows {
	now := time.Now()
	out := sqlmock.NewRows([]string{
		"id", "tenant_id", "order_id", "order_number", "method", "provider",
		"amount", "charged_amount", "currency", "status", "account_reference",
		"review_required", "initiated_at", "created_at", "updated_at",
	})
	for _, r := range rows {
		out.AddRow(uuid.NewString(), r[0], r[1], "1001", "mpesa", "zed",
			"1500", "1500", "KES", r[2], "BT-1001", false, now, now, now)
	}
	return out
}

const openByReference = "WHERE account_reference = $1 AND status IN ('pending', 'processing') ORDER BY (status = 'processing') DESC, created_at DESC"

func TestGetLatestTransactionByReference_PrefersOpenAttempt(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(openByReference)).
		WithArgs("BT-1001").
		WillReturnRows(transactionRows(id, models.TransactionStatusPending))

	tx, err := repo.GetLatestTransactionByReference(context.Background(), "BT-1001")

	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestTransactionByReference_SameOrderTakesFirst(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(openByReference)).
		WithArgs("BT-1001").
		WillReturnRows(referenceRows(
			[3]string{"tenant-1", "order-1", "processing"},
			[3]string{"tenant-1", "order-1", "pending"},
		))

	tx, err := repo.GetLatestTransactionByReference(context.Background(), "BT-1001")

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusProcessing, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestTransactionByReference_AmbiguousAcrossTenants(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(openByReference)).
		WithArgs("BT-1001").
		WillReturnRows(referenceRows(
			[3]string{"tenant-1", "order-1", "pending"},
			[3]string{"tenant-2", "order-7", "pending"},
		))

	tx, err := repo.GetLatestTransactionByReference(context.Background(), "BT-1001")

	assert.Nil(t, tx)
	assert.ErrorIs(t, err, models.ErrAmbiguousReference)
	assert.ErrorIs(t, err, models.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestTransactionByReference_FallsBackToSettled(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(openByReference)).
		WithArgs("BT-1001").
		WillReturnRows(referenceRows())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE account_reference = $1 ORDER BY created_at DESC LIMIT 1")).
		WithArgs("BT-1001").
		WillReturnRows(transactionRows(id, models.TransactionStatusCompleted))

	tx, err := repo.GetLatestTransactionByReference(context.Background(), "BT-1001")

	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordInitiationError(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "pending attempt", affected: 1},
		{name: "attempt already moved on", affected: 0, wantErr: models.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupMockDB(t)
			id := uuid.New()
			code := "400"
			desc := "Invalid phone for paybill"
			at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

			mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'pending'")).
				WithArgs(id, nil, nil, code, desc, nil, at).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.RecordInitiationError(context.Background(), id, &models.TransitionUpdate{
				Status:     models.TransactionStatusPending,
				ResultCode: &code,
				ResultDesc: &desc,
				At:         at,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransition_CompareAndSwap(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()
	receipt := "QK12AB"
	paid := decimal.NewFromInt(1500)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE payment_transactions SET status = ?, updated_at = ?, receipt_number = ?, paid_amount = ?, raw_response = ?, completed_at = COALESCE(completed_at, ?) WHERE id = ? AND status IN (?, ?) RETURNING")).
		WithArgs(models.TransactionStatusCompleted, at, receipt, "1500", sqlmock.AnyArg(), at, sqlmock.AnyArg(),
			models.TransactionStatusPending, models.TransactionStatusProcessing).
		WillReturnRows(transactionRows(id, models.TransactionStatusCompleted))

	tx, err := repo.Transition(context.Background(), id, &models.TransitionUpdate{
		Status:        models.TransactionStatusCompleted,
		ReceiptNumber: &receipt,
		PaidAmount:    &paid,
		RawResponse:   models.RawPayload(`{"resultCode":0}`),
		At:            at,
	})

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_LostRace(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()
	reason := "Request cancelled by user"

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payment_transactions SET status = ?")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Transition(context.Background(), id, &models.TransitionUpdate{
		Status:        models.TransactionStatusFailed,
		FailureReason: &reason,
		At:            time.Now(),
	})

	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_RefundOnlyFromCompleted(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("refunded_at = COALESCE(refunded_at, ?) WHERE id = ? AND status IN (?) RETURNING")).
		WithArgs(models.TransactionStatusRefunded, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), models.TransactionStatusCompleted).
		WillReturnRows(transactionRows(id, models.TransactionStatusRefunded))

	tx, err := repo.Transition(context.Background(), id, &models.TransitionUpdate{Status: models.TransactionStatusRefunded})

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRefunded, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_ToPendingIsNeverAllowed(t *testing.T) {
	repo, mock := setupMockDB(t)

	_, err := repo.Transition(context.Background(), uuid.New(), &models.TransitionUpdate{Status: models.TransactionStatusPending})

	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactionsByTenant(t *testing.T) {
	repo, mock := setupMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE tenant_id = $1 AND ($2 = '' OR status = $2)")).
		WithArgs("tenant-1", "completed", 20, 40).
		WillReturnRows(transactionRows(id, models.TransactionStatusCompleted))

	txs, err := repo.ListTransactionsByTenant(context.Background(), models.PaymentHistoryFilter{
		TenantID: "tenant-1",
		Status:   models.TransactionStatusCompleted,
		Limit:    20,
		Offset:   40,
	})

	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, id, txs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPaymentStats(t *testing.T) {
	repo, mock := setupMockDB(t)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) AS total")).
		WithArgs("tenant-1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "total", "successful", "failed", "pending", "total_amount", "successful_amount"}).
			AddRow("tenant-1", 10, 7, 2, 1, "15000.00", "10500.00"))

	stats, err := repo.GetPaymentStats(context.Background(), "tenant-1", from, to)

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(7), stats.Successful)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(1), stats.Pending)
	assert.True(t, decimal.RequireFromString("10500").Equal(stats.SuccessfulAmount))
	assert.Equal(t, from, stats.From)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordCallbackEvent(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment_callback_events")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordCallbackEvent(context.Background(), &models.CallbackEvent{
		ID:          uuid.New(),
		Provider:    models.ProviderZed,
		Shape:       models.PayloadShapeUnrecognized,
		Disposition: models.CallbackMissingKey,
		Payload:     models.RawPayload(`garbage`),
		ReceivedAt:  time.Now(),
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
