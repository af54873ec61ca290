package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zeduno/paygate/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/zeduno/paygate/services/payments PaymentRepo,CallbackDedupe

// PaymentRepo defines the transaction ledger operations
type PaymentRepo interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)

	// Correlation lookups, each returning ErrTransactionNotFound when nothing matches
	GetTransactionByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*models.Transaction, error)
	GetTransactionByMerchantRequestID(ctx context.Context, merchantRequestID string) (*models.Transaction, error)
	GetTransactionByGatewayTransactionID(ctx context.Context, gatewayTransactionID string) (*models.Transaction, error)
	GetLatestTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error)

	// Transition moves a transaction to update.Status only if it currently holds one of the
	// allowed predecessor statuses. It returns ErrInvalidTransition when no row was changed.
	Transition(ctx context.Context, id uuid.UUID, update *models.TransitionUpdate) (*models.Transaction, error)

	// RecordInitiationError stores a refused push on a pending attempt without changing its status
	RecordInitiationError(ctx context.Context, id uuid.UUID, update *models.TransitionUpdate) error

	ListTransactionsByOrder(ctx context.Context, orderID string) ([]*models.Transaction, error)
	ListTransactionsByTenant(ctx context.Context, filter models.PaymentHistoryFilter) ([]*models.Transaction, error)
	GetPaymentStats(ctx context.Context, tenantID string, from, to time.Time) (*models.PaymentStats, error)

	// Callback audit
	RecordCallbackEvent(ctx context.Context, event *models.CallbackEvent) error
}

// CallbackDedupe remembers which callbacks were already reconciled
type CallbackDedupe interface {
	IsProcessed(ctx context.Context, provider, key string) (bool, error)
	MarkProcessed(ctx context.Context, provider, key string) error
}
