package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// AddAttribute adds a custom attribute to the current transaction
func AddAttribute(c echo.Context, key string, value interface{}) {
	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.AddAttribute(key, value)
	}
}

// NoticeError reports an error to New Relic
func NoticeError(c echo.Context, err error) {
	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.NoticeError(err)
	}
}

// SetTenantID tags the transaction with the tenant
func SetTenantID(c echo.Context, tenantID string) {
	AddAttribute(c, "tenant.id", tenantID)
}

// SetPaymentID tags the transaction with the payment transaction id
func SetPaymentID(c echo.Context, transactionID string) {
	AddAttribute(c, "payment.id", transactionID)
}

// SetProvider tags the transaction with the gateway provider
func SetProvider(c echo.Context, provider string) {
	AddAttribute(c, "payment.provider", provider)
}

// SetTransactionName sets the transaction name, used by NATS consumers
func SetTransactionName(ctx context.Context, name string) {
	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.SetName(name)
	}
}
