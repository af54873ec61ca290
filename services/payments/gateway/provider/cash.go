package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeduno/paygate/internal/pkg/models"
)

// Cash records payments settled at the till. Nothing leaves the process; staff confirm receipt.
type Cash struct{}

// NewCash creates the cash adapter
func NewCash() *Cash {
	return &Cash{}
}

// Name returns the provider name
func (c *Cash) Name() string {
	return models.ProviderCash
}

// Initiate accepts immediately with a synthetic correlation id
func (c *Cash) Initiate(ctx context.Context, req *models.InitiateRequest) (*models.InitiateResult, error) {
	if !req.Amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}
	return &models.InitiateResult{
		Accepted:          true,
		CheckoutRequestID: fmt.Sprintf("CASH-%s", uuid.NewString()),
		ResponseCode:      "0",
		Message:           "Awaiting cash confirmation",
		ChargedAmount:     req.Amount,
	}, nil
}

// QueryStatus always reports pending; only a staff confirmation settles cash
func (c *Cash) QueryStatus(ctx context.Context, correlationID string) (*models.CallbackOutcome, error) {
	return nil, nil
}

// ExtractCallback never recognizes a payload
func (c *Cash) ExtractCallback(raw []byte) *models.CallbackOutcome {
	return &models.CallbackOutcome{
		Provider: models.ProviderCash,
		Shape:    models.PayloadShapeUnrecognized,
		Raw:      models.RawPayload(append([]byte(nil), raw...)),
	}
}

// VerifyCallback rejects every payload; cash has no callbacks
func (c *Cash) VerifyCallback(raw []byte) error {
	return fmt.Errorf("%w: cash payments have no callbacks", models.ErrInvalidSignature)
}
