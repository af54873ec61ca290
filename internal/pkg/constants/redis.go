package constants

// Redis key formats
const (
	// Set once a callback has been reconciled so exact replays skip the ledger
	KeyCallbackProcessed = "payments:callback:%s:%s" // Format: payments:callback:{provider}:{correlation_key}
)
