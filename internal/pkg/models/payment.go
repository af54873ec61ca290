package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InitiatePaymentRequest is the checkout request to start a payment for an order
type InitiatePaymentRequest struct {
	TenantID      string          `json:"tenantId" validate:"required"`
	OrderID       string          `json:"orderId" validate:"required"`
	OrderNumber   string          `json:"orderNumber"`
	Method        PaymentMethod   `json:"method" validate:"required,oneof=mpesa card wallet cash"`
	Provider      string          `json:"provider,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	Phone         string          `json:"phone,omitempty"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerEmail string          `json:"customerEmail,omitempty" validate:"omitempty,email"`
	Description   string          `json:"description,omitempty"`
}

// InitiateRequest is what a gateway adapter needs to push a payment to its provider
type InitiateRequest struct {
	TransactionID    uuid.UUID
	Phone            string
	Amount           decimal.Decimal
	Currency         string
	AccountReference string
	Description      string
	CallbackURL      string
	CustomerName     string
	CustomerEmail    string
}

// InitiateResult is the provider's synchronous answer to an initiation
type InitiateResult struct {
	Accepted          bool            `json:"accepted"`
	MerchantRequestID string          `json:"merchantRequestId,omitempty"`
	CheckoutRequestID string          `json:"checkoutRequestId,omitempty"`
	ResponseCode      string          `json:"responseCode,omitempty"`
	Message           string          `json:"message,omitempty"`
	RedirectURL       string          `json:"redirectUrl,omitempty"`
	ChargedAmount     decimal.Decimal `json:"chargedAmount"`
	Raw               RawPayload      `json:"-"`
}

// InitiatePaymentResponse is returned to the checkout caller
type InitiatePaymentResponse struct {
	TransactionID     uuid.UUID         `json:"transactionId"`
	Status            TransactionStatus `json:"status"`
	Provider          string            `json:"provider"`
	MerchantRequestID string            `json:"merchantRequestId,omitempty"`
	CheckoutRequestID string            `json:"checkoutRequestId,omitempty"`
	RedirectURL       string            `json:"redirectUrl,omitempty"`
	Message           string            `json:"message,omitempty"`
}

// PaymentStatusResponse answers a status query
type PaymentStatusResponse struct {
	TransactionID uuid.UUID         `json:"transactionId"`
	OrderID       string            `json:"orderId"`
	Status        TransactionStatus `json:"status"`
	ReceiptNumber string            `json:"receiptNumber,omitempty"`
	ResultDesc    string            `json:"resultDesc,omitempty"`
	Source        string            `json:"source"` // local or provider
}

// PaymentHistoryFilter selects a tenant's transactions
type PaymentHistoryFilter struct {
	TenantID string
	Status   TransactionStatus
	Limit    int
	Offset   int
}

// PaymentStats aggregates a tenant's transactions over a period
type PaymentStats struct {
	TenantID         string          `json:"tenantId" db:"tenant_id"`
	Total            int64           `json:"total" db:"total"`
	Successful       int64           `json:"successful" db:"successful"`
	Failed           int64           `json:"failed" db:"failed"`
	Pending          int64           `json:"pending" db:"pending"`
	TotalAmount      decimal.Decimal `json:"totalAmount" db:"total_amount"`
	SuccessfulAmount decimal.Decimal `json:"successfulAmount" db:"successful_amount"`
	From             time.Time       `json:"from" db:"-"`
	To               time.Time       `json:"to" db:"-"`
}

// CashConfirmation is submitted by staff when a cash payment is received
type CashConfirmation struct {
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	ReceivedBy     string          `json:"receivedBy" validate:"required"`
	Reference      string          `json:"reference,omitempty"`
}

// PaymentActionRequest carries the reason for a cancel or refund
type PaymentActionRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}
