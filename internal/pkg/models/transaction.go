package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the status of a payment transaction
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
	TransactionStatusRefunded   TransactionStatus = "refunded"
)

// transitions lists the statuses a transaction must currently hold for a move to the key status.
// Completion and failure accept pending because a callback may land before the initiation response.
var transitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusProcessing: {TransactionStatusPending},
	TransactionStatusCompleted:  {TransactionStatusPending, TransactionStatusProcessing},
	TransactionStatusFailed:     {TransactionStatusPending, TransactionStatusProcessing},
	TransactionStatusCancelled:  {TransactionStatusPending, TransactionStatusProcessing},
	TransactionStatusRefunded:   {TransactionStatusCompleted},
}

// Predecessors returns the statuses from which the given status may be entered
func (s TransactionStatus) Predecessors() []TransactionStatus {
	return transitions[s]
}

// CanTransitionTo reports whether a transaction in status s may move to next
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, p := range transitions[next] {
		if p == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no callback can move the transaction anymore.
// Completed is terminal for reconciliation even though a refund may follow.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled, TransactionStatusRefunded:
		return true
	}
	return false
}

// IsValid reports whether s is a known status
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusProcessing, TransactionStatusCompleted,
		TransactionStatusFailed, TransactionStatusCancelled, TransactionStatusRefunded:
		return true
	}
	return false
}

// PaymentMethod is the instrument a customer pays with
type PaymentMethod string

const (
	PaymentMethodMpesa  PaymentMethod = "mpesa"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCash   PaymentMethod = "cash"
)

// IsValid reports whether m is a supported payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodMpesa, PaymentMethodCard, PaymentMethodWallet, PaymentMethodCash:
		return true
	}
	return false
}

// Provider names
const (
	ProviderZed      = "zed"
	ProviderDaraja   = "daraja"
	ProviderMidtrans = "midtrans"
	ProviderCash     = "cash"
)

// Transaction is a single payment attempt on the ledger
type Transaction struct {
	ID                   uuid.UUID           `json:"id" db:"id"`
	TenantID             string              `json:"tenantId" db:"tenant_id"`
	OrderID              string              `json:"orderId" db:"order_id"`
	OrderNumber          string              `json:"orderNumber" db:"order_number"`
	Method               PaymentMethod       `json:"method" db:"method"`
	Provider             string              `json:"provider" db:"provider"`
	Amount               decimal.Decimal     `json:"amount" db:"amount"`
	ChargedAmount        decimal.Decimal     `json:"chargedAmount" db:"charged_amount"`
	Currency             string              `json:"currency" db:"currency"`
	Status               TransactionStatus   `json:"status" db:"status"`
	CustomerPhone        *string             `json:"customerPhone,omitempty" db:"customer_phone"`
	CustomerName         *string             `json:"customerName,omitempty" db:"customer_name"`
	CustomerEmail        *string             `json:"customerEmail,omitempty" db:"customer_email"`
	AccountReference     string              `json:"accountReference" db:"account_reference"`
	MerchantRequestID    *string             `json:"merchantRequestId,omitempty" db:"merchant_request_id"`
	CheckoutRequestID    *string             `json:"checkoutRequestId,omitempty" db:"checkout_request_id"`
	GatewayTransactionID *string             `json:"gatewayTransactionId,omitempty" db:"gateway_transaction_id"`
	ReceiptNumber        *string             `json:"receiptNumber,omitempty" db:"receipt_number"`
	ResultCode           *string             `json:"resultCode,omitempty" db:"result_code"`
	ResultDesc           *string             `json:"resultDesc,omitempty" db:"result_desc"`
	FailureReason        *string             `json:"failureReason,omitempty" db:"failure_reason"`
	PaidAmount           decimal.NullDecimal `json:"paidAmount" db:"paid_amount"`
	ReviewRequired       bool                `json:"reviewRequired" db:"review_required"`
	RawResponse          RawPayload          `json:"rawResponse,omitempty" db:"raw_response"`
	InitiatedAt          time.Time           `json:"initiatedAt" db:"initiated_at"`
	CompletedAt          *time.Time          `json:"completedAt,omitempty" db:"completed_at"`
	FailedAt             *time.Time          `json:"failedAt,omitempty" db:"failed_at"`
	CancelledAt          *time.Time          `json:"cancelledAt,omitempty" db:"cancelled_at"`
	RefundedAt           *time.Time          `json:"refundedAt,omitempty" db:"refunded_at"`
	CreatedAt            time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time           `json:"updatedAt" db:"updated_at"`
}

// CorrelationKey returns the provider identifier callbacks are matched on
func (t *Transaction) CorrelationKey() string {
	if t.CheckoutRequestID != nil {
		return *t.CheckoutRequestID
	}
	return ""
}

// TransitionUpdate carries the columns written together with a status change.
// Nil fields leave the stored value untouched.
type TransitionUpdate struct {
	Status               TransactionStatus
	MerchantRequestID    *string
	CheckoutRequestID    *string
	GatewayTransactionID *string
	ReceiptNumber        *string
	ResultCode           *string
	ResultDesc           *string
	FailureReason        *string
	PaidAmount           *decimal.Decimal
	ReviewRequired       bool
	RawResponse          RawPayload
	At                   time.Time
}

// RawPayload stores a provider payload verbatim in a jsonb column
type RawPayload []byte

// Value implements driver.Valuer
func (p RawPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	if !json.Valid(p) {
		quoted, err := json.Marshal(string(p))
		if err != nil {
			return nil, err
		}
		return string(quoted), nil
	}
	return string(p), nil
}

// Scan implements sql.Scanner
func (p *RawPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append((*p)[:0], v...)
	case string:
		*p = RawPayload(v)
	default:
		return fmt.Errorf("cannot scan %T into RawPayload", src)
	}
	return nil
}

// MarshalJSON emits the payload as embedded JSON, or as a string when it is not JSON
func (p RawPayload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(p) {
		return json.Marshal(string(p))
	}
	return p, nil
}

// UnmarshalJSON keeps the payload bytes as-is
func (p *RawPayload) UnmarshalJSON(data []byte) error {
	*p = append((*p)[:0], data...)
	return nil
}
