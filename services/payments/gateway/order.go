package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/zeduno/paygate/internal/pkg/models"
)

// APIKeyDoer is the subset of the internal service client the coupler needs
type APIKeyDoer interface {
	PatchJSON(ctx context.Context, endpoint string, body, result interface{}) error
	PostJSON(ctx context.Context, endpoint string, body, result interface{}) error
}

// OrderClient updates orders on the order service
type OrderClient struct {
	client APIKeyDoer
}

// NewOrderClient creates the order service coupler
func NewOrderClient(client APIKeyDoer) *OrderClient {
	return &OrderClient{client: client}
}

// SetOrderPaymentStatus records the payment outcome on the order
func (o *OrderClient) SetOrderPaymentStatus(ctx context.Context, orderID string, update *models.OrderPaymentUpdate) error {
	endpoint := fmt.Sprintf("/internal/orders/%s/payment-status", url.PathEscape(orderID))
	if err := o.client.PatchJSON(ctx, endpoint, update, nil); err != nil {
		return fmt.Errorf("failed to set order payment status: %w", err)
	}
	return nil
}

// AdvanceOrderWorkflow moves a paid order along its kitchen or booking workflow
func (o *OrderClient) AdvanceOrderWorkflow(ctx context.Context, orderID string, advance *models.OrderWorkflowAdvance) error {
	endpoint := fmt.Sprintf("/internal/orders/%s/workflow/advance", url.PathEscape(orderID))
	if err := o.client.PostJSON(ctx, endpoint, advance, nil); err != nil {
		return fmt.Errorf("failed to advance order workflow: %w", err)
	}
	return nil
}
