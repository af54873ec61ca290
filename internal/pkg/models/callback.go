package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayloadShape identifies which callback family a payload was recognised as
type PayloadShape string

const (
	PayloadShapeEnvelope     PayloadShape = "envelope"
	PayloadShapeFlat         PayloadShape = "flat"
	PayloadShapeUnrecognized PayloadShape = "unrecognized"
)

// CallbackOutcome is the canonical reading of a provider callback or status query
type CallbackOutcome struct {
	Provider             string           `json:"provider"`
	CorrelationKey       string           `json:"correlationKey,omitempty"`
	MerchantRequestID    string           `json:"merchantRequestId,omitempty"`
	GatewayTransactionID string           `json:"gatewayTransactionId,omitempty"`
	OrderReference       string           `json:"orderReference,omitempty"`
	Success              bool             `json:"success"`
	Pending              bool             `json:"pending"`
	ResultCode           string           `json:"resultCode,omitempty"`
	ResultDesc           string           `json:"resultDesc,omitempty"`
	Status               string           `json:"status,omitempty"`
	ReceiptNumber        string           `json:"receiptNumber,omitempty"`
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	PaidAt               *time.Time       `json:"paidAt,omitempty"`
	Phone                string           `json:"phone,omitempty"`
	Shape                PayloadShape     `json:"shape"`
	Raw                  RawPayload       `json:"-"`
}

// HasCorrelation reports whether the outcome carries anything a ledger entry can be matched on
func (o *CallbackOutcome) HasCorrelation() bool {
	return o.CorrelationKey != "" || o.MerchantRequestID != "" || o.GatewayTransactionID != "" || o.OrderReference != ""
}

// ReplayKey is the per-attempt identifier a delivery can be deduplicated on. Order references
// are shared by every attempt on an order and never qualify.
func (o *CallbackOutcome) ReplayKey() string {
	if o.CorrelationKey != "" {
		return o.CorrelationKey
	}
	return o.MerchantRequestID
}

// ReconcileResult describes what Reconcile did with an outcome
type ReconcileResult struct {
	TransactionID  uuid.UUID         `json:"transactionId"`
	PreviousStatus TransactionStatus `json:"previousStatus"`
	Status         TransactionStatus `json:"status"`
	Applied        bool              `json:"applied"`
	Duplicate      bool              `json:"duplicate"`
	ReviewRequired bool              `json:"reviewRequired"`
}

// CallbackDisposition is what happened to a recorded callback delivery
type CallbackDisposition string

const (
	CallbackApplied    CallbackDisposition = "applied"
	CallbackDuplicate  CallbackDisposition = "duplicate"
	CallbackNotFound   CallbackDisposition = "not_found"
	CallbackMissingKey CallbackDisposition = "missing_key"
	CallbackIgnored    CallbackDisposition = "ignored"
	CallbackError      CallbackDisposition = "error"
)

// CallbackEvent is the audit row kept for every callback delivery
type CallbackEvent struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	Provider       string              `json:"provider" db:"provider"`
	CorrelationKey string              `json:"correlationKey" db:"correlation_key"`
	OrderReference string              `json:"orderReference" db:"order_reference"`
	Shape          PayloadShape        `json:"shape" db:"shape"`
	Disposition    CallbackDisposition `json:"disposition" db:"disposition"`
	TransactionID  *uuid.UUID          `json:"transactionId,omitempty" db:"transaction_id"`
	Detail         string              `json:"detail" db:"detail"`
	Payload        RawPayload          `json:"payload" db:"payload"`
	ReceivedAt     time.Time           `json:"receivedAt" db:"received_at"`
}

// CallbackAck is the body every provider callback is answered with
type CallbackAck struct {
	ResultCode string `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// AcceptedCallbackAck is the acknowledgement providers expect to stop retrying
var AcceptedCallbackAck = CallbackAck{ResultCode: "0", ResultDesc: "Accepted"}
