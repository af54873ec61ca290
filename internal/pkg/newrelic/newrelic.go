package newrelic

import (
	"context"
	"log"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/zeduno/paygate/internal/pkg/models"
)

// InitNewRelic returns a New Relic application, or nil when disabled or misconfigured.
// Called before the logger exists, so it reports through the standard log package.
func InitNewRelic(configs *models.Config) *newrelic.Application {
	if !configs.NewRelic.Enabled || configs.NewRelic.LicenseKey == "" {
		log.Println("New Relic is disabled or license key not provided")
		return nil
	}

	appName := configs.NewRelic.AppName
	if appName == "" {
		appName = configs.App.Name
	}

	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName(appName),
		newrelic.ConfigLicense(configs.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(configs.NewRelic.ForwardLogs),
	)
	if err != nil {
		log.Printf("Failed to initialize New Relic, continuing without it: %v", err)
		return nil
	}

	return nrApp
}

// FromContext extracts the New Relic transaction from a context
func FromContext(ctx context.Context) *newrelic.Transaction {
	return newrelic.FromContext(ctx)
}

// StartSegment starts a named segment when the context carries a transaction.
// The returned func ends it and is always safe to call.
func StartSegment(ctx context.Context, name string) func() {
	txn := FromContext(ctx)
	if txn == nil {
		return func() {}
	}
	seg := txn.StartSegment(name)
	return seg.End
}

// AddAttribute adds a custom attribute to the transaction in ctx
func AddAttribute(ctx context.Context, key string, value interface{}) {
	if txn := FromContext(ctx); txn != nil {
		txn.AddAttribute(key, value)
	}
}

// NoticeError reports an error on the transaction in ctx
func NoticeError(ctx context.Context, err error) {
	if txn := FromContext(ctx); txn != nil && err != nil {
		txn.NoticeError(err)
	}
}
