package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	httppkg "github.com/zeduno/paygate/internal/pkg/http"
	"github.com/zeduno/paygate/internal/pkg/logger"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/internal/utils"
	"github.com/zeduno/paygate/services/payments/normalizer"
)

const (
	darajaTokenPath       = "/oauth/v1/generate?grant_type=client_credentials"
	darajaSTKPushPath     = "/mpesa/stkpush/v1/processrequest"
	darajaSTKQueryPath    = "/mpesa/stkpushquery/v1/query"
	darajaTransactionType = "CustomerPayBillOnline"
	darajaTimestampLayout = "20060102150405"
	darajaDefaultLifetime = 3600 * time.Second

	// Daraja field limits
	maxAccountReference = 12
	maxTransactionDesc  = 13
)

// Result codes Daraja uses while the customer has not answered the prompt
const (
	darajaStillProcessing = "4999"
	darajaBeingProcessed  = "500.001.1001"
)

// DarajaRules classify STK callbacks and queries; only result code 0 is a success
var DarajaRules = normalizer.Rules{
	Success: []normalizer.Predicate{normalizer.ResultCodeZero()},
	Pending: []normalizer.Predicate{normalizer.ResultCodeIn(darajaStillProcessing, darajaBeingProcessed)},
}

// Daraja pushes M-Pesa STK prompts through the Safaricom Daraja API
type Daraja struct {
	cfg         models.DarajaConfig
	baseURL     string
	callbackURL string
	client      JSONDoer
	tokens      *TokenCache
	now         func() time.Time
}

// NewDaraja creates the direct Daraja adapter with its own token cache
func NewDaraja(cfg models.DarajaConfig, client JSONDoer, callbackURL string) *Daraja {
	d := &Daraja{
		cfg:         cfg,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		callbackURL: callbackURL,
		client:      client,
		now:         time.Now,
	}
	d.tokens = NewTokenCache(d.fetchToken, DefaultTokenSafetyMargin)
	return d
}

type darajaTokenResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   flexString `json:"expires_in"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type stkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type darajaErrorBody struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Name returns the provider name
func (d *Daraja) Name() string {
	return models.ProviderDaraja
}

// Initiate sends the STK push. A push rejected for a stale token is retried once with a fresh token.
func (d *Daraja) Initiate(ctx context.Context, req *models.InitiateRequest) (*models.InitiateResult, error) {
	amount, err := wholeUnits(req.Amount)
	if err != nil {
		return nil, err
	}

	timestamp := d.timestamp()
	desc := req.Description
	if desc == "" {
		desc = "Payment"
	}
	body := stkPushRequest{
		BusinessShortCode: d.cfg.ShortCode,
		Password:          d.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   darajaTransactionType,
		Amount:            amount,
		PartyA:            req.Phone,
		PartyB:            d.cfg.ShortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       d.callbackURL,
		AccountReference:  utils.TruncateBytes(req.AccountReference, maxAccountReference),
		TransactionDesc:   utils.TruncateBytes(desc, maxTransactionDesc),
	}

	logger.Info("Initiating STK push via Daraja",
		logger.TransactionID(req.TransactionID.String()),
		logger.String("phone", utils.MaskPhoneNumber(req.Phone)),
		logger.Int64("amount", amount),
		logger.String("reference", body.AccountReference))

	var decoded stkPushResponse
	resp, err := d.authorized(ctx, httppkg.Request{
		Method: http.MethodPost,
		URL:    d.baseURL + darajaSTKPushPath,
		Body:   body,
	}, &decoded)
	if err != nil {
		return nil, err
	}

	result := &models.InitiateResult{
		MerchantRequestID: decoded.MerchantRequestID,
		CheckoutRequestID: decoded.CheckoutRequestID,
		ResponseCode:      decoded.ResponseCode,
		Message:           utils.FirstNonEmpty(decoded.CustomerMessage, decoded.ResponseDescription),
		ChargedAmount:     decimal.NewFromInt(amount),
		Raw:               models.RawPayload(resp.Body),
	}
	if decoded.ResponseCode != "0" {
		return result, fmt.Errorf("%w: daraja response code %s: %s", models.ErrUpstreamRejected, decoded.ResponseCode, decoded.ResponseDescription)
	}

	result.Accepted = true
	return result, nil
}

// QueryStatus asks Daraja for the state of an STK push
func (d *Daraja) QueryStatus(ctx context.Context, correlationID string) (*models.CallbackOutcome, error) {
	timestamp := d.timestamp()
	resp, err := d.authorized(ctx, httppkg.Request{
		Method: http.MethodPost,
		URL:    d.baseURL + darajaSTKQueryPath,
		Body: stkQueryRequest{
			BusinessShortCode: d.cfg.ShortCode,
			Password:          d.password(timestamp),
			Timestamp:         timestamp,
			CheckoutRequestID: correlationID,
		},
	}, nil)
	if err != nil {
		// Daraja answers 500 with errorCode 500.001.1001 until the customer responds
		var httpErr *httppkg.HTTPError
		if errors.As(err, &httpErr) && d.errorCode(httpErr.Body) == darajaBeingProcessed {
			return nil, nil
		}
		return nil, err
	}

	outcome := normalizer.Normalize(models.ProviderDaraja, resp.Body, DarajaRules)
	return decided(outcome, correlationID), nil
}

// ExtractCallback normalizes a Daraja STK callback
func (d *Daraja) ExtractCallback(raw []byte) *models.CallbackOutcome {
	return normalizer.Normalize(models.ProviderDaraja, raw, DarajaRules)
}

// VerifyCallback accepts every payload; Daraja callbacks are unsigned
func (d *Daraja) VerifyCallback(raw []byte) error {
	return nil
}

// authorized performs r with a bearer token, refreshing the token once if Daraja refuses it
func (d *Daraja) authorized(ctx context.Context, r httppkg.Request, out interface{}) (*httppkg.Response, error) {
	for attempt := 0; ; attempt++ {
		token, err := d.tokens.GetToken(ctx)
		if err != nil {
			return nil, err
		}
		r.Header = map[string]string{"Authorization": "Bearer " + token}

		resp, err := d.client.DoJSON(ctx, r, out)
		if err == nil {
			return resp, nil
		}

		var httpErr *httppkg.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsUnauthorized() {
			d.tokens.Invalidate()
			if attempt == 0 {
				logger.Warn("Daraja rejected access token, refreshing", logger.Int("status_code", httpErr.StatusCode))
				continue
			}
			return nil, fmt.Errorf("%w: daraja: %s", models.ErrAuthenticationFailed, upstreamMessage(err))
		}
		if errors.Is(err, models.ErrUpstreamRejected) {
			return resp, fmt.Errorf("daraja: %s: %w", upstreamMessage(err), err)
		}
		return resp, fmt.Errorf("daraja: %w", err)
	}
}

func (d *Daraja) fetchToken(ctx context.Context) (string, time.Duration, error) {
	var decoded darajaTokenResponse
	_, err := d.client.DoJSON(ctx, httppkg.Request{
		Method:     http.MethodGet,
		URL:        d.baseURL + darajaTokenPath,
		Username:   d.cfg.ConsumerKey,
		Password:   d.cfg.ConsumerSecret,
		Idempotent: true,
	}, &decoded)
	if err != nil {
		return "", 0, fmt.Errorf("daraja oauth: %w", err)
	}

	lifetime := darajaDefaultLifetime
	if secs, err := strconv.Atoi(decoded.ExpiresIn.String()); err == nil && secs > 0 {
		lifetime = time.Duration(secs) * time.Second
	}
	return decoded.AccessToken, lifetime, nil
}

func (d *Daraja) timestamp() string {
	return d.now().In(normalizer.EAT).Format(darajaTimestampLayout)
}

// password is base64(shortcode + passkey + timestamp)
func (d *Daraja) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(d.cfg.ShortCode + d.cfg.PassKey + timestamp))
}

func (d *Daraja) errorCode(body []byte) string {
	fields, ok := normalizer.DecodeFields(body)
	if !ok {
		return ""
	}
	return fields.String("errorCode")
}
