package normalizer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeduno/paygate/internal/pkg/models"
)

// EAT is the fixed East Africa Time zone M-Pesa timestamps are expressed in
var EAT = time.FixedZone("EAT", 3*60*60)

// Flat payload aliases, first non-empty wins
var (
	checkoutAliases = []string{"checkoutRequestId", "CheckoutRequestID", "checkout_request_id", "id"}
	merchantAliases = []string{"merchantRequestId", "MerchantRequestID"}
	codeAliases     = []string{"resultCode", "ResultCode", "status_code"}
	descAliases     = []string{"resultDesc", "ResultDesc", "message", "status_message"}
	amountAliases   = []string{"amount", "Amount", "gross_amount"}
	receiptAliases  = []string{"MpesaReceiptNumber", "mpesaReceiptNumber", "transactionReference"}
	gatewayAliases  = []string{"transactionId", "transaction_id"}
	dateAliases     = []string{"transactionDate", "TransactionDate", "settlement_time", "transaction_time"}
	phoneAliases    = []string{"phoneNumber", "PhoneNumber", "msisdn"}
	orderAliases    = []string{"orderId", "orderIds", "reference", "accountReference", "order_id"}
	statusAliases   = []string{"status", "transaction_status"}
)

var dateLayouts = []string{
	"20060102150405",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Fields is a decoded flat JSON object
type Fields map[string]interface{}

// String returns the field rendered as a string; arrays yield their first element
func (f Fields) String(key string) string {
	v, ok := f[key]
	if !ok {
		return ""
	}
	return stringify(v)
}

// First returns the first non-empty value among keys
func (f Fields) First(keys ...string) string {
	for _, k := range keys {
		if v := f.String(k); v != "" {
			return v
		}
	}
	return ""
}

func (f Fields) hasAny(keys ...string) bool {
	return f.First(keys...) != ""
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []interface{}:
		if len(t) == 0 {
			return ""
		}
		return stringify(t[0])
	default:
		return ""
	}
}

type envelope struct {
	Body *struct {
		StkCallback *stkCallback `json:"stkCallback"`
	} `json:"Body"`
}

type stkCallback struct {
	MerchantRequestID string      `json:"MerchantRequestID"`
	CheckoutRequestID string      `json:"CheckoutRequestID"`
	ResultCode        json.Number `json:"ResultCode"`
	ResultDesc        string      `json:"ResultDesc"`
	CallbackMetadata  *struct {
		Item []struct {
			Name  string      `json:"Name"`
			Value interface{} `json:"Value"`
		} `json:"Item"`
	} `json:"CallbackMetadata"`
}

// Normalize reads a provider payload into a CallbackOutcome. It never fails:
// payloads matching neither family come back with Shape unrecognized and Raw set.
func Normalize(provider string, raw []byte, rules Rules) *models.CallbackOutcome {
	out := &models.CallbackOutcome{
		Provider: provider,
		Shape:    models.PayloadShapeUnrecognized,
		Raw:      models.RawPayload(append([]byte(nil), raw...)),
	}

	fields, ok := decodeObject(raw)
	if !ok {
		return out
	}

	if cb := decodeEnvelope(raw); cb != nil {
		fillFromEnvelope(out, cb)
		rules.apply(out, Fields{})
		return out
	}

	if !fields.hasAny(checkoutAliases...) && !fields.hasAny(merchantAliases...) &&
		!fields.hasAny(codeAliases...) && !fields.hasAny(statusAliases...) && !fields.hasAny(orderAliases...) {
		return out
	}

	fillFromFlat(out, fields)
	rules.apply(out, fields)
	return out
}

// DecodeFields decodes a JSON object, preserving numbers verbatim
func DecodeFields(raw []byte) (Fields, bool) {
	return decodeObject(raw)
}

func decodeObject(raw []byte) (Fields, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields Fields
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func decodeEnvelope(raw []byte) *stkCallback {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil
	}
	if env.Body == nil || env.Body.StkCallback == nil {
		return nil
	}
	return env.Body.StkCallback
}

func fillFromEnvelope(out *models.CallbackOutcome, cb *stkCallback) {
	out.Shape = models.PayloadShapeEnvelope
	out.CorrelationKey = strings.TrimSpace(cb.CheckoutRequestID)
	out.MerchantRequestID = strings.TrimSpace(cb.MerchantRequestID)
	out.ResultCode = cb.ResultCode.String()
	out.ResultDesc = cb.ResultDesc

	if cb.CallbackMetadata == nil {
		return
	}
	meta := Fields{}
	for _, item := range cb.CallbackMetadata.Item {
		meta[item.Name] = item.Value
	}
	out.Amount = parseAmount(meta.String("Amount"))
	out.ReceiptNumber = meta.String("MpesaReceiptNumber")
	out.PaidAt = parseDate(meta.String("TransactionDate"))
	out.Phone = meta.String("PhoneNumber")
}

func fillFromFlat(out *models.CallbackOutcome, fields Fields) {
	out.Shape = models.PayloadShapeFlat
	out.CorrelationKey = fields.First(checkoutAliases...)
	out.MerchantRequestID = fields.First(merchantAliases...)
	out.ResultCode = fields.First(codeAliases...)
	out.ResultDesc = fields.First(descAliases...)
	out.Status = fields.First(statusAliases...)
	out.Amount = parseAmount(fields.First(amountAliases...))
	out.ReceiptNumber = fields.First(receiptAliases...)
	out.GatewayTransactionID = fields.First(gatewayAliases...)
	out.PaidAt = parseDate(fields.First(dateAliases...))
	out.Phone = fields.First(phoneAliases...)
	out.OrderReference = fields.First(orderAliases...)
}

func parseAmount(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		loc := EAT
		if layout == time.RFC3339 || layout == time.RFC3339Nano {
			loc = time.UTC
		}
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}
	return nil
}
