package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zeduno/paygate/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/zeduno/paygate/services/payments PaymentUC

// PaymentUC defines the payment orchestration and reconciliation logic
type PaymentUC interface {
	// Initiation
	InitiatePayment(ctx context.Context, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error)

	// Reconciliation
	HandleCallback(ctx context.Context, provider string, raw []byte) (*models.ReconcileResult, error)
	Reconcile(ctx context.Context, outcome *models.CallbackOutcome) (*models.ReconcileResult, error)
	QueryPaymentStatus(ctx context.Context, transactionID uuid.UUID) (*models.PaymentStatusResponse, error)

	// Manual transitions
	CancelPayment(ctx context.Context, transactionID uuid.UUID, reason string) (*models.Transaction, error)
	RefundPayment(ctx context.Context, transactionID uuid.UUID, reason string) (*models.Transaction, error)
	ConfirmCashPayment(ctx context.Context, transactionID uuid.UUID, confirmation *models.CashConfirmation) (*models.ReconcileResult, error)
	CancelOrderPayments(ctx context.Context, event *models.OrderCancelledEvent) (int, error)

	// Reads
	GetTransaction(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error)
	ListOrderPayments(ctx context.Context, orderID string) ([]*models.Transaction, error)
	ListTenantPayments(ctx context.Context, filter models.PaymentHistoryFilter) ([]*models.Transaction, error)
	GetPaymentStats(ctx context.Context, tenantID string, from, to time.Time) (*models.PaymentStats, error)
}
