package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/services/payments/mocks"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type testDeps struct {
	repo        *mocks.MockPaymentRepo
	dedupe      *mocks.MockCallbackDedupe
	registry    *mocks.MockProviderRegistry
	provider    *mocks.MockProvider
	orders      *mocks.MockOrderCoupler
	broadcaster *mocks.MockBroadcaster
	uc          *paymentUC
}

func testConfig() *models.Config {
	return &models.Config{
		Payments: models.PaymentsConfig{
			CallbackBaseURL:     "https://pay.example.com",
			GatewayTimeout:      5,
			ReferencePrefix:     "BT-",
			SupportedCurrencies: []string{"KES", "UGX", "TZS", "RWF", "BIF", "CDF", "SSP"},
		},
	}
}

func setupUC(t *testing.T) *testDeps {
	ctrl := gomock.NewController(t)

	d := &testDeps{
		repo:        mocks.NewMockPaymentRepo(ctrl),
		dedupe:      mocks.NewMockCallbackDedupe(ctrl),
		registry:    mocks.NewMockProviderRegistry(ctrl),
		provider:    mocks.NewMockProvider(ctrl),
		orders:      mocks.NewMockOrderCoupler(ctrl),
		broadcaster: mocks.NewMockBroadcaster(ctrl),
	}
	d.provider.EXPECT().Name().Return(models.ProviderZed).AnyTimes()

	uc, err := NewPaymentUC(testConfig(), d.repo, d.dedupe, d.registry, d.orders, d.broadcaster)
	require.NoError(t, err)
	d.uc = uc.(*paymentUC)
	d.uc.now = func() time.Time { return fixedNow }
	return d
}

func processingTx() *models.Transaction {
	checkout := "ws_CO_123"
	merchant := "29115-34620561-1"
	return &models.Transaction{
		ID:                uuid.New(),
		TenantID:          "tenant-1",
		OrderID:           "order-1",
		OrderNumber:       "1001",
		Method:            models.PaymentMethodMpesa,
		Provider:          models.ProviderZed,
		Amount:            decimal.NewFromInt(500),
		ChargedAmount:     decimal.NewFromInt(500),
		Currency:          "KES",
		Status:            models.TransactionStatusProcessing,
		AccountReference:  "BT-1001",
		CheckoutRequestID: &checkout,
		MerchantRequestID: &merchant,
	}
}

// settled returns a copy of tx as the ledger would hold it after update
func settled(tx *models.Transaction, update *models.TransitionUpdate) *models.Transaction {
	out := *tx
	out.Status = update.Status
	out.ReceiptNumber = update.ReceiptNumber
	out.FailureReason = update.FailureReason
	out.ReviewRequired = update.ReviewRequired
	if update.PaidAmount != nil {
		out.PaidAmount = decimal.NullDecimal{Decimal: *update.PaidAmount, Valid: true}
	}
	at := update.At
	switch update.Status {
	case models.TransactionStatusCompleted:
		out.CompletedAt = &at
	case models.TransactionStatusFailed:
		out.FailedAt = &at
	}
	return &out
}

func successOutcome(amount int64) *models.CallbackOutcome {
	paid := decimal.NewFromInt(amount)
	return &models.CallbackOutcome{
		Provider:          models.ProviderZed,
		CorrelationKey:    "ws_CO_123",
		MerchantRequestID: "29115-34620561-1",
		Success:           true,
		ResultCode:        "0",
		ResultDesc:        "The service request is processed successfully.",
		ReceiptNumber:     "NLJ7RT61SV",
		Amount:            &paid,
		Shape:             models.PayloadShapeEnvelope,
		Raw:               models.RawPayload(`{"Body":{}}`),
	}
}

func TestInitiatePayment_LeavesAttemptProcessing(t *testing.T) {
	d := setupUC(t)

	req := &models.InitiatePaymentRequest{
		TenantID:    "tenant-1",
		OrderID:     "order-1",
		OrderNumber: "1001",
		Method:      models.PaymentMethodMpesa,
		Amount:      decimal.NewFromInt(500),
		Currency:    "kes",
		Phone:       "0712345678",
	}

	var created *models.Transaction
	d.registry.EXPECT().Resolve("tenant-1", models.PaymentMethodMpesa, "").Return(d.provider, nil)
	d.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			assert.Equal(t, models.TransactionStatusPending, tx.Status)
			assert.Equal(t, "KES", tx.Currency)
			assert.Equal(t, "BT-1001", tx.AccountReference)
			require.NotNil(t, tx.CustomerPhone)
			assert.Equal(t, "254712345678", *tx.CustomerPhone)
			created = tx
			return nil
		})
	d.provider.EXPECT().Initiate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, r *models.InitiateRequest) (*models.InitiateResult, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			assert.Equal(t, "254712345678", r.Phone)
			assert.Equal(t, "https://pay.example.com/api/v1/payments/callback/zed", r.CallbackURL)
			return &models.InitiateResult{
				Accepted:          true,
				MerchantRequestID: "29115-34620561-1",
				CheckoutRequestID: "ws_CO_123",
				ResponseCode:      "200",
				Message:           "Please check your phone",
				ChargedAmount:     decimal.NewFromInt(500),
			}, nil
		})
	d.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID, update *models.TransitionUpdate) (*models.Transaction, error) {
			assert.Equal(t, created.ID, id)
			assert.Equal(t, models.TransactionStatusProcessing, update.Status)
			require.NotNil(t, update.CheckoutRequestID)
			assert.Equal(t, "ws_CO_123", *update.CheckoutRequestID)
			out := *created
			out.Status = update.Status
			out.CheckoutRequestID = update.CheckoutRequestID
			return &out, nil
		})
	d.broadcaster.EXPECT().PublishPaymentStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.PaymentStatusEvent) error {
			assert.Equal(t, models.TransactionStatusProcessing, e.Status)
			assert.Equal(t, "ws_CO_123", e.CheckoutRequestID)
			return nil
		})

	resp, err := d.uc.InitiatePayment(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusProcessing, resp.Status)
	assert.Equal(t, "ws_CO_123", resp.CheckoutRequestID)
	assert.False(t, resp.Status.IsTerminal())
}

func TestInitiatePayment_RoundsMpesaAmountUp(t *testing.T) {
	d := setupUC(t)

	d.registry.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(d.provider, nil)
	d.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			assert.True(t, decimal.RequireFromString("1499.40").Equal(tx.Amount))
			assert.True(t, decimal.NewFromInt(1500).Equal(tx.ChargedAmount))
			return nil
		})
	d.provider.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(nil, models.ErrUpstreamUnavailable)

	_, err := d.uc.InitiatePayment(context.Background(), &models.InitiatePaymentRequest{
		TenantID: "tenant-1",
		OrderID:  "order-1",
		Method:   models.PaymentMethodMpesa,
		Amount:   decimal.RequireFromString("1499.40"),
		Currency: "KES",
		Phone:    "+254 712 345 678",
	})

	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestInitiatePayment_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.InitiatePaymentRequest
		wantErr error
	}{
		{
			name:    "invalid phone",
			req:     &models.InitiatePaymentRequest{Method: models.PaymentMethodMpesa, Amount: decimal.NewFromInt(10), Currency: "KES", Phone: "12345"},
			wantErr: models.ErrInvalidPhoneNumber,
		},
		{
			name:    "unsupported currency for mobile money",
			req:     &models.InitiatePaymentRequest{Method: models.PaymentMethodMpesa, Amount: decimal.NewFromInt(10), Currency: "USD", Phone: "0712345678"},
			wantErr: models.ErrUnsupportedCurrency,
		},
		{
			name:    "zero amount",
			req:     &models.InitiatePaymentRequest{Method: models.PaymentMethodMpesa, Amount: decimal.Zero, Currency: "KES", Phone: "0712345678"},
			wantErr: models.ErrInvalidAmount,
		},
		{
			name:    "unknown method",
			req:     &models.InitiatePaymentRequest{Method: "barter", Amount: decimal.NewFromInt(10), Currency: "KES"},
			wantErr: models.ErrUnknownProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupUC(t)

			_, err := d.uc.InitiatePayment(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInitiatePayment_CardAllowsUSD(t *testing.T) {
	d := setupUC(t)

	d.registry.EXPECT().Resolve("tenant-1", models.PaymentMethodCard, "").Return(d.provider, nil)
	d.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
			assert.True(t, decimal.RequireFromString("19.99").Equal(tx.ChargedAmount))
			return nil
		})
	d.provider.EXPECT().Initiate(gomock.Any(), gomock.Any()).
		Return(nil, models.ErrUpstreamUnavailable)

	_, err := d.uc.InitiatePayment(context.Background(), &models.InitiatePaymentRequest{
		TenantID: "tenant-1",
		OrderID:  "order-1",
		Method:   models.PaymentMethodCard,
		Amount:   decimal.RequireFromString("19.99"),
		Currency: "USD",
	})

	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestInitiatePayment_UnavailableStaysPending(t *testing.T) {
	d := setupUC(t)

	d.registry.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(d.provider, nil)
	d.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	d.provider.EXPECT().Initiate(gomock.Any(), gomock.Any()).
		Return(nil, errors.Join(models.ErrUpstreamUnavailable, errors.New("connection refused")))
	d.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := d.uc.InitiatePayment(context.Background(), &models.InitiatePaymentRequest{
		TenantID: "tenant-1",
		OrderID:  "order-1",
		Method:   models.PaymentMethodMpesa,
		Amount:   decimal.NewFromInt(500),
		Currency: "KES",
		Phone:    "0712345678",
	})

	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestInitiatePayment_RefusedPushLeavesAttemptPending(t *testing.T) {
	tests := []struct {
		name     string
		result   *models.InitiateResult
		err      error
		wantDesc string
		wantCode *string
	}{
		{
			name:     "provider rejected the push",
			result:   &models.InitiateResult{ResponseCode: "400", Message: "Invalid phone for paybill"},
			err:      models.ErrUpstreamRejected,
			wantDesc: "Invalid phone for paybill",
		},
		{
			name:     "token exchange failed",
			err:      fmt.Errorf("daraja: %w", models.ErrAuthenticationFailed),
			wantDesc: "daraja: provider authentication failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupUC(t)

			var createdID uuid.UUID
			d.registry.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(d.provider, nil)
			d.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, tx *models.Transaction) error {
					createdID = tx.ID
					return nil
				})
			d.provider.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(tt.result, tt.err)
			d.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			d.repo.EXPECT().RecordInitiationError(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, id uuid.UUID, update *models.TransitionUpdate) error {
					assert.Equal(t, createdID, id)
					assert.Equal(t, models.TransactionStatusPending, update.Status)
					assert.Nil(t, update.FailureReason)
					require.NotNil(t, update.ResultDesc)
					assert.Equal(t, tt.wantDesc, *update.ResultDesc)
					return nil
				})
			d.orders.EXPECT().SetOrderPaymentStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			d.orders.EXPECT().AdvanceOrderWorkflow(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			d.broadcaster.EXPECT().PublishPaymentStatus(gomock.Any(), gomock.Any()).Times(0)

			resp, err := d.uc.InitiatePayment(context.Background(), &models.InitiatePaymentRequest{
				TenantID: "tenant-1",
				OrderID:  "order-1",
				Method:   models.PaymentMethodMpesa,
				Amount:   decimal.NewFromInt(500),
				Currency: "KES",
				Phone:    "0712345678",
			})

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCancelPayment(t *testing.T) {
	d := setupUC(t)
	tx := processingTx()

	d.repo.EXPECT().Transition(gomock.Any(), tx.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, update *models.TransitionUpdate) (*models.Transaction, error) {
			assert.Equal(t, models.TransactionStatusCancelled, update.Status)
			return settled(tx, update), nil
		})
	d.broadcaster.EXPECT().PublishPaymentStatus(gomock.Any(), gomock.Any()).Return(nil)

	got, err := d.uc.CancelPayment(context.Background(), tx.ID, "")

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCancelled, got.Status)
}

func TestRefundPayment_NotCompleted(t *testing.T) {
	d := setupUC(t)
	id := uuid.New()

	d.repo.EXPECT().Transition(gomock.Any(), id, gomock.Any()).Return(nil, models.ErrInvalidTransition)

	_, err := d.uc.RefundPayment(context.Background(), id, "customer complaint")

	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestConfirmCashPayment(t *testing.T) {
	d := setupUC(t)
	tx := processingTx()
	tx.Provider = models.ProviderCash
	tx.Method = models.PaymentMethodCash
	cashRef := "CASH-1"
	tx.CheckoutRequestID = &cashRef

	d.repo.EXPECT().GetTransactionByID(gomock.Any(), tx.ID).Return(tx, nil)
	d.repo.EXPECT().Transition(gomock.Any(), tx.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, update *models.TransitionUpdate) (*models.Transaction, error) {
			assert.Equal(t, models.TransactionStatusCompleted, update.Status)
			assert.False(t, update.ReviewRequired)
			require.NotNil(t, update.ReceiptNumber)
			assert.Equal(t, "CASH-1", *update.ReceiptNumber)
			return settled(tx, update), nil
		})
	d.orders.EXPECT().SetOrderPaymentStatus(gomock.Any(), "order-1", gomock.Any()).Return(nil)
	d.orders.EXPECT().AdvanceOrderWorkflow(gomock.Any(), "order-1", gomock.Any()).Return(nil)
	d.broadcaster.EXPECT().PublishPaymentStatus(gomock.Any(), gomock.Any()).Return(nil)

	result, err := d.uc.ConfirmCashPayment(context.Background(), tx.ID, &models.CashConfirmation{ReceivedBy: "cashier-7"})

	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, models.TransactionStatusCompleted, result.Status)
}

func TestConfirmCashPayment_RejectsNonCash(t *testing.T) {
	d := setupUC(t)
	tx := processingTx()

	d.repo.EXPECT().GetTransactionByID(gomock.Any(), tx.ID).Return(tx, nil)

	_, err := d.uc.ConfirmCashPayment(context.Background(), tx.ID, &models.CashConfirmation{ReceivedBy: "cashier-7"})

	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestCancelOrderPayments(t *testing.T) {
	d := setupUC(t)
	open := processingTx()
	done := processingTx()
	done.Status = models.TransactionStatusCompleted
	raced := processingTx()

	d.repo.EXPECT().ListTransactionsByOrder(gomock.Any(), "order-1").
		Return([]*models.Transaction{open, done, raced}, nil)
	d.repo.EXPECT().Transition(gomock.Any(), open.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, update *models.TransitionUpdate) (*models.Transaction, error) {
			require.NotNil(t, update.FailureReason)
			assert.Equal(t, "Order cancelled: guest left", *update.FailureReason)
			return settled(open, update), nil
		})
	d.repo.EXPECT().Transition(gomock.Any(), raced.ID, gomock.Any()).Return(nil, models.ErrInvalidTransition)
	d.broadcaster.EXPECT().PublishPaymentStatus(gomock.Any(), gomock.Any()).Return(nil)

	n, err := d.uc.CancelOrderPayments(context.Background(), &models.OrderCancelledEvent{OrderID: "order-1", Reason: "guest left"})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListTenantPayments_ClampsPaging(t *testing.T) {
	d := setupUC(t)

	d.repo.EXPECT().ListTransactionsByTenant(gomock.Any(), models.PaymentHistoryFilter{
		TenantID: "tenant-1",
		Limit:    maxHistoryLimit,
		Offset:   0,
	}).Return([]*models.Transaction{}, nil)

	_, err := d.uc.ListTenantPayments(context.Background(), models.PaymentHistoryFilter{
		TenantID: "tenant-1",
		Limit:    5000,
		Offset:   -3,
	})

	assert.NoError(t, err)
}

func TestGetPaymentStats_DefaultWindow(t *testing.T) {
	d := setupUC(t)

	d.repo.EXPECT().GetPaymentStats(gomock.Any(), "tenant-1", fixedNow.Add(-defaultStatsWindow), fixedNow).
		Return(&models.PaymentStats{TenantID: "tenant-1", Total: 3}, nil)

	stats, err := d.uc.GetPaymentStats(context.Background(), "tenant-1", time.Time{}, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
}

func TestGetPaymentStats_InvalidRange(t *testing.T) {
	d := setupUC(t)

	_, err := d.uc.GetPaymentStats(context.Background(), "tenant-1", fixedNow, fixedNow.Add(-time.Hour))

	assert.ErrorIs(t, err, models.ErrInvalidDateRange)
}
