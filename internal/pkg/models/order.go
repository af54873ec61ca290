package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPaymentStatus is the payment status held on the order record
type OrderPaymentStatus string

const (
	OrderPaymentPending OrderPaymentStatus = "pending"
	OrderPaymentPaid    OrderPaymentStatus = "paid"
	OrderPaymentFailed  OrderPaymentStatus = "failed"
	OrderPaymentReview  OrderPaymentStatus = "review"
	OrderPaymentRefund  OrderPaymentStatus = "refunded"
)

// OrderPaymentUpdate is sent to the order service when a payment settles
type OrderPaymentUpdate struct {
	PaymentStatus  OrderPaymentStatus `json:"paymentStatus"`
	PaymentMethod  PaymentMethod      `json:"paymentMethod"`
	PaidAt         *time.Time         `json:"paidAt,omitempty"`
	TransactionID  uuid.UUID          `json:"transactionId"`
	Reference      string             `json:"reference,omitempty"`
	RequirePending bool               `json:"requirePending"`
}

// OrderWorkflowAdvance asks the order service to move a pending order forward
type OrderWorkflowAdvance struct {
	FromPending bool   `json:"fromPending"`
	Reason      string `json:"reason"`
}

// OrderCancelledEvent is consumed from the order service
type OrderCancelledEvent struct {
	OrderID  string `json:"orderId"`
	TenantID string `json:"tenantId"`
	Reason   string `json:"reason,omitempty"`
}

// PaymentStatusEvent is published to order and tenant subscribers on every status change
type PaymentStatusEvent struct {
	TransactionID        uuid.UUID         `json:"transactionId"`
	TenantID             string            `json:"tenantId"`
	OrderID              string            `json:"orderId"`
	OrderNumber          string            `json:"orderNumber"`
	Status               TransactionStatus `json:"status"`
	MerchantRequestID    string            `json:"merchantRequestId,omitempty"`
	CheckoutRequestID    string            `json:"checkoutRequestId,omitempty"`
	TransactionReference string            `json:"transactionReference,omitempty"`
	Amount               *decimal.Decimal  `json:"amount,omitempty"`
	Currency             string            `json:"currency,omitempty"`
	Message              string            `json:"message,omitempty"`
	Timestamp            time.Time         `json:"timestamp"`
}
