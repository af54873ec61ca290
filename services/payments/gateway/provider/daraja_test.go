package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeduno/paygate/internal/pkg/models"
)

type darajaStub struct {
	tokenCalls int32
	pushCalls  int32
	rejectNext int32
	pushBody   stkPushRequest
	queryReply func(w http.ResponseWriter)
}

func (s *darajaStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&s.tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "consumer", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "token-" + string(rune('0'+n)),
			"expires_in":   "3599",
		})
	})
	mux.HandleFunc(darajaSTKPushPath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.pushCalls, 1)
		if atomic.CompareAndSwapInt32(&s.rejectNext, 1, 0) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errorCode":"404.001.03","errorMessage":"Invalid Access Token"}`))
			return
		}
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer token-")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&s.pushBody))
		_, _ = w.Write([]byte(`{"MerchantRequestID":"29115-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"0","ResponseDescription":"Success. Request accepted for processing","CustomerMessage":"Success. Request accepted for processing"}`))
	})
	mux.HandleFunc(darajaSTKQueryPath, func(w http.ResponseWriter, r *http.Request) {
		s.queryReply(w)
	})
	return mux
}

func newDarajaAdapter(url string) *Daraja {
	d := NewDaraja(models.DarajaConfig{
		BaseURL:        url,
		ConsumerKey:    "consumer",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		PassKey:        "passkey",
	}, newTestClient(), "https://pay.example.com/api/v1/mpesa/direct/callback")
	d.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return d
}

func TestDaraja_InitiateAccepted(t *testing.T) {
	stub := &darajaStub{}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	d := newDarajaAdapter(server.URL)
	result, err := d.Initiate(context.Background(), &models.InitiateRequest{
		TransactionID:    uuid.New(),
		Phone:            "254712345678",
		Amount:           decimal.RequireFromString("100.01"),
		AccountReference: "BT-ORDER-000123456",
		Description:      "Room service dinner",
	})

	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, "ws_CO_1", result.CheckoutRequestID)
	assert.Equal(t, "29115-1", result.MerchantRequestID)
	assert.True(t, decimal.NewFromInt(101).Equal(result.ChargedAmount))

	body := stub.pushBody
	assert.Equal(t, "174379", body.BusinessShortCode)
	assert.Equal(t, "20240501123000", body.Timestamp)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("174379passkey20240501123000")), body.Password)
	assert.Equal(t, "CustomerPayBillOnline", body.TransactionType)
	assert.Equal(t, int64(101), body.Amount)
	assert.Equal(t, "254712345678", body.PartyA)
	assert.Equal(t, "174379", body.PartyB)
	assert.Equal(t, "254712345678", body.PhoneNumber)
	assert.Equal(t, "BT-ORDER-000", body.AccountReference)
	assert.Equal(t, "Room service ", body.TransactionDesc)
	assert.Equal(t, "https://pay.example.com/api/v1/mpesa/direct/callback", body.CallBackURL)
}

func TestDaraja_TokenReusedAcrossPushes(t *testing.T) {
	stub := &darajaStub{}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	d := newDarajaAdapter(server.URL)
	req := &models.InitiateRequest{TransactionID: uuid.New(), Phone: "254712345678", Amount: decimal.NewFromInt(10), AccountReference: "A"}

	for i := 0; i < 3; i++ {
		_, err := d.Initiate(context.Background(), req)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.tokenCalls))
	assert.Equal(t, int32(3), atomic.LoadInt32(&stub.pushCalls))
}

func TestDaraja_StaleTokenRefreshedOnce(t *testing.T) {
	stub := &darajaStub{rejectNext: 1}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	d := newDarajaAdapter(server.URL)
	result, err := d.Initiate(context.Background(), &models.InitiateRequest{
		TransactionID: uuid.New(), Phone: "254712345678", Amount: decimal.NewFromInt(10), AccountReference: "A",
	})

	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.tokenCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.pushCalls))
}

func TestDaraja_InitiateRejectedResponseCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"t","expires_in":"3599"}`))
	})
	mux.HandleFunc(darajaSTKPushPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"MerchantRequestID":"m","CheckoutRequestID":"c","ResponseCode":"1","ResponseDescription":"Rejected"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	d := newDarajaAdapter(server.URL)
	result, err := d.Initiate(context.Background(), &models.InitiateRequest{
		TransactionID: uuid.New(), Phone: "254712345678", Amount: decimal.NewFromInt(10), AccountReference: "A",
	})

	assert.ErrorIs(t, err, models.ErrUpstreamRejected)
	require.NotNil(t, result)
	assert.False(t, result.Accepted)
}

func TestDaraja_AuthenticationFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorMessage":"Invalid Authentication passed"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	d := newDarajaAdapter(server.URL)
	_, err := d.Initiate(context.Background(), &models.InitiateRequest{
		TransactionID: uuid.New(), Phone: "254712345678", Amount: decimal.NewFromInt(10), AccountReference: "A",
	})

	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
}

func TestDaraja_QueryStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		nilOut  bool
		success bool
	}{
		{name: "success", status: 200, body: `{"ResponseCode":"0","CheckoutRequestID":"ws_CO_1","ResultCode":"0","ResultDesc":"The service request is processed successfully."}`, success: true},
		{name: "cancelled", status: 200, body: `{"ResponseCode":"0","CheckoutRequestID":"ws_CO_1","ResultCode":"1032","ResultDesc":"Request cancelled by user"}`},
		{name: "still processing", status: 200, body: `{"ResponseCode":"0","CheckoutRequestID":"ws_CO_1","ResultCode":"4999","ResultDesc":"The transaction is still under processing"}`, nilOut: true},
		{name: "being processed error", status: 500, body: `{"requestId":"r","errorCode":"500.001.1001","errorMessage":"The transaction is being processed"}`, nilOut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &darajaStub{queryReply: func(w http.ResponseWriter) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}}
			server := httptest.NewServer(stub.handler(t))
			defer server.Close()

			out, err := newDarajaAdapter(server.URL).QueryStatus(context.Background(), "ws_CO_1")

			require.NoError(t, err)
			if tt.nilOut {
				assert.Nil(t, out)
				return
			}
			require.NotNil(t, out)
			assert.Equal(t, "ws_CO_1", out.CorrelationKey)
			assert.Equal(t, tt.success, out.Success)
		})
	}
}

func TestDaraja_QueryStatusUnavailable(t *testing.T) {
	stub := &darajaStub{queryReply: func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"errorCode":"503.001.01","errorMessage":"Service unavailable"}`))
	}}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	out, err := newDarajaAdapter(server.URL).QueryStatus(context.Background(), "ws_CO_1")

	assert.Nil(t, out)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}
