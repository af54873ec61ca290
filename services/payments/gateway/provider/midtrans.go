package provider

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/internal/utils"
	"github.com/zeduno/paygate/services/payments/normalizer"
)

// MidtransRules classify Midtrans notifications and status checks
var MidtransRules = normalizer.Rules{
	Success: []normalizer.Predicate{
		normalizer.StatusIn("settlement"),
		normalizer.All(normalizer.StatusIn("capture"), normalizer.FieldIn("fraud_status", "accept")),
	},
	Pending: []normalizer.Predicate{
		normalizer.StatusIn("pending", "authorize"),
		normalizer.All(normalizer.StatusIn("capture"), normalizer.FieldIn("fraud_status", "challenge")),
	},
}

// SnapAPI creates hosted payment pages
type SnapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// CoreAPI reads transaction status
type CoreAPI interface {
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// Midtrans takes card and wallet payments through Snap
type Midtrans struct {
	serverKey string
	snap      SnapAPI
	core      CoreAPI
}

// NewMidtrans creates the adapter with real Snap and Core API clients
func NewMidtrans(cfg models.MidtransConfig) *Midtrans {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(cfg.ServerKey, env)
	var coreClient coreapi.Client
	coreClient.New(cfg.ServerKey, env)

	return NewMidtransWithClients(cfg.ServerKey, &snapClient, &coreClient)
}

// NewMidtransWithClients creates the adapter around the given clients
func NewMidtransWithClients(serverKey string, snapAPI SnapAPI, coreAPI CoreAPI) *Midtrans {
	return &Midtrans{
		serverKey: serverKey,
		snap:      snapAPI,
		core:      coreAPI,
	}
}

// Name returns the provider name
func (m *Midtrans) Name() string {
	return models.ProviderMidtrans
}

// Initiate creates a Snap transaction. The Midtrans order id is the ledger transaction id,
// which is also the correlation key notifications come back with.
func (m *Midtrans) Initiate(ctx context.Context, req *models.InitiateRequest) (*models.InitiateResult, error) {
	amount, err := wholeUnits(req.Amount)
	if err != nil {
		return nil, err
	}
	orderID := req.TransactionID.String()

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    utils.FirstNonEmpty(req.AccountReference, orderID),
				Name:  utils.TruncateBytes(utils.FirstNonEmpty(req.Description, "Order "+req.AccountReference), 50),
				Price: amount,
				Qty:   1,
			},
		},
	}
	if req.CustomerName != "" || req.CustomerEmail != "" || req.Phone != "" {
		snapReq.CustomerDetail = &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.Phone,
		}
	}

	logger.Info("Creating Midtrans Snap transaction",
		logger.TransactionID(orderID),
		logger.Int64("amount", amount))

	type snapResult struct {
		resp *snap.Response
		err  *midtrans.Error
	}
	done := make(chan snapResult, 1)
	go func() {
		resp, mErr := m.snap.CreateTransaction(snapReq)
		done <- snapResult{resp: resp, err: mErr}
	}()

	var res snapResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: midtrans: %v", models.ErrUpstreamUnavailable, ctx.Err())
	}
	if res.err != nil {
		return nil, classifyMidtrans(res.err)
	}
	if res.resp == nil || res.resp.Token == "" {
		return nil, fmt.Errorf("%w: midtrans returned no snap token", models.ErrUpstreamRejected)
	}

	raw, _ := json.Marshal(res.resp)
	return &models.InitiateResult{
		Accepted:          true,
		MerchantRequestID: res.resp.Token,
		CheckoutRequestID: orderID,
		ResponseCode:      "201",
		Message:           "Complete the payment on the Midtrans page",
		RedirectURL:       res.resp.RedirectURL,
		ChargedAmount:     decimal.NewFromInt(amount),
		Raw:               models.RawPayload(raw),
	}, nil
}

// QueryStatus checks the transaction through the Core API
func (m *Midtrans) QueryStatus(ctx context.Context, correlationID string) (*models.CallbackOutcome, error) {
	type statusResult struct {
		resp *coreapi.TransactionStatusResponse
		err  *midtrans.Error
	}
	done := make(chan statusResult, 1)
	go func() {
		resp, mErr := m.core.CheckTransaction(correlationID)
		done <- statusResult{resp: resp, err: mErr}
	}()

	var res statusResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: midtrans: %v", models.ErrUpstreamUnavailable, ctx.Err())
	}
	if res.err != nil {
		return nil, classifyMidtrans(res.err)
	}
	if res.resp == nil {
		return nil, nil
	}

	raw, err := json.Marshal(res.resp)
	if err != nil {
		return nil, fmt.Errorf("%w: midtrans status: %v", models.ErrUpstreamRejected, err)
	}
	return decided(m.ExtractCallback(raw), correlationID), nil
}

// ExtractCallback normalizes a Midtrans HTTP notification
func (m *Midtrans) ExtractCallback(raw []byte) *models.CallbackOutcome {
	outcome := normalizer.Normalize(models.ProviderMidtrans, raw, MidtransRules)
	if outcome.CorrelationKey == "" {
		outcome.CorrelationKey = outcome.OrderReference
	}
	return outcome
}

// VerifyCallback checks signature_key = SHA512(order_id + status_code + gross_amount + server key)
func (m *Midtrans) VerifyCallback(raw []byte) error {
	fields, ok := normalizer.DecodeFields(raw)
	if !ok {
		return fmt.Errorf("%w: payload is not a JSON object", models.ErrInvalidSignature)
	}
	got := fields.String("signature_key")
	if got == "" || m.serverKey == "" {
		return fmt.Errorf("%w: missing signature", models.ErrInvalidSignature)
	}

	want := MidtransSignature(fields.String("order_id"), fields.String("status_code"), fields.String("gross_amount"), m.serverKey)
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return models.ErrInvalidSignature
	}
	return nil
}

// MidtransSignature computes the notification signature for the given fields
func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func classifyMidtrans(mErr *midtrans.Error) error {
	switch {
	case mErr.StatusCode == 401:
		return fmt.Errorf("%w: midtrans: %s", models.ErrAuthenticationFailed, mErr.Message)
	case mErr.StatusCode == 0 || mErr.StatusCode >= 500:
		return fmt.Errorf("%w: midtrans: %s", models.ErrUpstreamUnavailable, mErr.Message)
	default:
		return fmt.Errorf("%w: midtrans %d: %s", models.ErrUpstreamRejected, mErr.StatusCode, mErr.Message)
	}
}
