package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	httppkg "github.com/zeduno/paygate/internal/pkg/http"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/internal/utils"
	"github.com/zeduno/paygate/services/payments/normalizer"
)

const (
	zedInitiatePath = "/api/v1/payments/initiate_kcb_stk_push"
	zedQueryPath    = "/api/mpesa/query/"
	zedAuthHeader   = "X-Authorization"
	zedPaymentType  = "bookingTicket"
)

// ZedRules classify aggregator callbacks and status queries
var ZedRules = normalizer.Rules{
	Success: []normalizer.Predicate{
		normalizer.ResultCodeZero(),
		normalizer.StatusIn("success", "completed"),
		normalizer.DescriptionContains("processed successfully"),
		normalizer.HasReceipt(),
	},
	Pending: []normalizer.Predicate{
		normalizer.StatusIn("pending", "processing", "queued"),
		normalizer.DescriptionContains("being processed"),
	},
}

// JSONDoer sends JSON requests to an upstream
type JSONDoer interface {
	DoJSON(ctx context.Context, r httppkg.Request, out interface{}) (*httppkg.Response, error)
}

// Zed pushes M-Pesa STK prompts through the Zed Business aggregator
type Zed struct {
	cfg     models.ZedConfig
	baseURL string
	client  JSONDoer
}

// NewZed creates the aggregator adapter
func NewZed(cfg models.ZedConfig, client JSONDoer) *Zed {
	return &Zed{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}
}

type zedInitiateRequest struct {
	Amount         int64    `json:"amount"`
	Phone          string   `json:"phone"`
	Type           string   `json:"type"`
	ExternalOrigin string   `json:"externalOrigin"`
	OrderIDs       []string `json:"orderIds"`
	BatchID        string   `json:"batchId"`
}

type zedInitiateResponse struct {
	Status  flexString `json:"status"`
	Message string     `json:"message"`
	Data    *struct {
		ID                 flexString `json:"id"`
		RequestReferenceID flexString `json:"requestReferenceId"`
		Status             flexString `json:"status"`
		Message            string     `json:"message"`
	} `json:"data"`
}

// Name returns the provider name
func (z *Zed) Name() string {
	return models.ProviderZed
}

// Initiate sends the STK push request. The request is never retried.
func (z *Zed) Initiate(ctx context.Context, req *models.InitiateRequest) (*models.InitiateResult, error) {
	amount, err := wholeUnits(req.Amount)
	if err != nil {
		return nil, err
	}

	body := zedInitiateRequest{
		Amount:         amount,
		Phone:          req.Phone,
		Type:           zedPaymentType,
		ExternalOrigin: z.cfg.ExternalOrigin,
		OrderIDs:       []string{req.AccountReference},
		BatchID:        "",
	}

	logger.Info("Initiating STK push via Zed",
		logger.TransactionID(req.TransactionID.String()),
		logger.String("phone", utils.MaskPhoneNumber(req.Phone)),
		logger.Int64("amount", amount),
		logger.String("reference", req.AccountReference))

	var decoded zedInitiateResponse
	resp, err := z.client.DoJSON(ctx, httppkg.Request{
		Method: http.MethodPost,
		URL:    z.baseURL + zedInitiatePath,
		Header: map[string]string{zedAuthHeader: z.cfg.APIKey},
		Body:   body,
	}, &decoded)
	if err != nil {
		return nil, z.classify(err)
	}

	result := &models.InitiateResult{
		ChargedAmount: decimal.NewFromInt(amount),
		Message:       decoded.Message,
		Raw:           models.RawPayload(resp.Body),
	}
	if decoded.Data == nil {
		result.ResponseCode = decoded.Status.String()
		return result, fmt.Errorf("%w: zed response carried no data: %s", models.ErrUpstreamRejected, decoded.Message)
	}

	result.MerchantRequestID = decoded.Data.RequestReferenceID.String()
	result.CheckoutRequestID = decoded.Data.ID.String()
	result.ResponseCode = decoded.Data.Status.String()
	if decoded.Data.Message != "" {
		result.Message = decoded.Data.Message
	}

	if result.ResponseCode != "200" {
		return result, fmt.Errorf("%w: zed status %s: %s", models.ErrUpstreamRejected, result.ResponseCode, result.Message)
	}

	result.Accepted = true
	if result.Message == "" {
		result.Message = "Please check your phone and enter your M-Pesa PIN to complete the transaction"
	}
	return result, nil
}

// QueryStatus asks Zed for the state of a push
func (z *Zed) QueryStatus(ctx context.Context, correlationID string) (*models.CallbackOutcome, error) {
	resp, err := z.client.DoJSON(ctx, httppkg.Request{
		Method: http.MethodGet,
		URL:    z.baseURL + zedQueryPath + url.PathEscape(correlationID),
		Header: map[string]string{
			zedAuthHeader:   z.cfg.APIKey,
			"Authorization": "Bearer " + z.cfg.APIKey,
		},
		Idempotent: true,
	}, nil)
	if err != nil {
		return nil, z.classify(err)
	}

	payload := resp.Body
	if fields, ok := normalizer.DecodeFields(resp.Body); ok {
		if data, ok := fields["data"].(map[string]interface{}); ok {
			payload = marshalFields(data)
		}
	}

	outcome := normalizer.Normalize(models.ProviderZed, payload, ZedRules)
	return decided(outcome, correlationID), nil
}

// ExtractCallback normalizes an aggregator callback
func (z *Zed) ExtractCallback(raw []byte) *models.CallbackOutcome {
	return normalizer.Normalize(models.ProviderZed, raw, ZedRules)
}

// VerifyCallback accepts every payload; Zed callbacks are unsigned
func (z *Zed) VerifyCallback(raw []byte) error {
	return nil
}

func (z *Zed) classify(err error) error {
	var httpErr *httppkg.HTTPError
	if errors.As(err, &httpErr) && httpErr.IsUnauthorized() {
		return fmt.Errorf("%w: zed: %s", models.ErrAuthenticationFailed, upstreamMessage(err))
	}
	if errors.Is(err, models.ErrUpstreamRejected) {
		return fmt.Errorf("zed: %s: %w", upstreamMessage(err), err)
	}
	return fmt.Errorf("zed: %w", err)
}

// decided returns nil for outcomes that do not settle the payment yet
func decided(outcome *models.CallbackOutcome, correlationID string) *models.CallbackOutcome {
	if outcome.Shape == models.PayloadShapeUnrecognized || outcome.Pending {
		return nil
	}
	if !outcome.Success && outcome.ResultCode == "" && outcome.Status == "" {
		return nil
	}
	if outcome.CorrelationKey == "" {
		outcome.CorrelationKey = correlationID
	}
	return outcome
}
