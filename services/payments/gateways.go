package payments

import (
	"context"

	"github.com/zeduno/paygate/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateways.go -package=mocks github.com/zeduno/paygate/services/payments Provider,ProviderRegistry,OrderCoupler,Broadcaster

// Provider is a payment gateway adapter
type Provider interface {
	Name() string
	Initiate(ctx context.Context, req *models.InitiateRequest) (*models.InitiateResult, error)
	// QueryStatus asks the provider for the current outcome; a nil outcome means still pending
	QueryStatus(ctx context.Context, correlationID string) (*models.CallbackOutcome, error)
	ExtractCallback(raw []byte) *models.CallbackOutcome
	// VerifyCallback returns ErrInvalidSignature when the payload was not signed by the provider
	VerifyCallback(raw []byte) error
}

// ProviderRegistry resolves adapters by name or by routing rules
type ProviderRegistry interface {
	Get(name string) (Provider, error)
	Resolve(tenantID string, method models.PaymentMethod, requested string) (Provider, error)
}

// OrderCoupler propagates payment results to the order service
type OrderCoupler interface {
	SetOrderPaymentStatus(ctx context.Context, orderID string, update *models.OrderPaymentUpdate) error
	AdvanceOrderWorkflow(ctx context.Context, orderID string, advance *models.OrderWorkflowAdvance) error
}

// Broadcaster pushes payment status events to live subscribers without blocking the caller
type Broadcaster interface {
	PublishPaymentStatus(ctx context.Context, event *models.PaymentStatusEvent) error
	Close()
}
