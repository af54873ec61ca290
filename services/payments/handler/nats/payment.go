package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/zeduno/paygate/internal/pkg/constants"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	natspkg "github.com/zeduno/paygate/internal/pkg/nats"
	"github.com/zeduno/paygate/services/payments"
)

// PaymentHandler consumes order service events that affect open payment attempts
type PaymentHandler struct {
	paymentUC  payments.PaymentUC
	natsClient *natspkg.Client
	subs       []*nats.Subscription
	cfg        *models.Config
	nrApp      *newrelic.Application
}

// NewPaymentHandler creates a new payments NATS handler
func NewPaymentHandler(
	paymentUC payments.PaymentUC,
	client *natspkg.Client,
	cfg *models.Config,
	nrApp *newrelic.Application,
) *PaymentHandler {
	return &PaymentHandler{
		paymentUC:  paymentUC,
		natsClient: client,
		subs:       make([]*nats.Subscription, 0),
		cfg:        cfg,
		nrApp:      nrApp,
	}
}

// InitNATSConsumers subscribes to order cancellations in the service queue group
func (h *PaymentHandler) InitNATSConsumers() error {
	logger.Info("Initializing NATS consumers for payments service",
		logger.String("subject", constants.SubjectOrderCancelled),
		logger.String("queue", constants.QueuePaymentsService))

	sub, err := h.natsClient.QueueSubscribe(constants.SubjectOrderCancelled, constants.QueuePaymentsService, h.handleOrderCancelledMsg)
	if err != nil {
		logger.Error("Failed to subscribe to order cancellations", logger.Err(err))
		return fmt.Errorf("failed to subscribe to %s: %w", constants.SubjectOrderCancelled, err)
	}
	h.subs = append(h.subs, sub)
	return nil
}

// Close removes every subscription
func (h *PaymentHandler) Close() {
	for _, sub := range h.subs {
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe",
				logger.String("subject", sub.Subject),
				logger.Err(err))
		}
	}
	h.subs = nil
}

func (h *PaymentHandler) handleOrderCancelledMsg(msg *nats.Msg) {
	txn := h.nrApp.StartTransaction("NATS.Payments.HandleOrderCancelled")
	defer txn.End()
	txn.AddAttribute("message.subject", msg.Subject)
	txn.AddAttribute("message.size", len(msg.Data))

	ctx := newrelic.NewContext(context.Background(), txn)

	if err := h.handleOrderCancelled(ctx, msg.Data); err != nil {
		txn.NoticeError(err)
		logger.ErrorCtx(ctx, "Error handling order cancelled event",
			logger.String("subject", msg.Subject),
			logger.Err(err))
	}
}

// handleOrderCancelled cancels the order's open payment attempts
func (h *PaymentHandler) handleOrderCancelled(ctx context.Context, data []byte) error {
	var event models.OrderCancelledEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal order cancelled event: %w", err)
	}
	if event.OrderID == "" {
		return fmt.Errorf("order cancelled event without orderId")
	}

	cancelled, err := h.paymentUC.CancelOrderPayments(ctx, &event)
	if err != nil {
		return fmt.Errorf("failed to cancel payments for order %s: %w", event.OrderID, err)
	}

	logger.InfoCtx(ctx, "Order cancelled, open payment attempts closed",
		logger.String("order_id", event.OrderID),
		logger.String("tenant_id", event.TenantID),
		logger.Int("cancelled", cancelled))
	return nil
}
