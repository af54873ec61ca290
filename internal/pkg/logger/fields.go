package logger

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Field aliases zap.Field so callers import this package instead of zap
type Field = zap.Field

// String constructs a field that carries a string value
func String(key, val string) Field {
	return zap.String(key, val)
}

// Err constructs a field that carries an error
func Err(err error) Field {
	return zap.Error(err)
}

// Int constructs a field that carries an int value
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Int64 constructs a field that carries an int64 value
func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

// Uint32 constructs a field that carries a uint32 value
func Uint32(key string, val uint32) Field {
	return zap.Uint32(key, val)
}

// Bool constructs a field that carries a boolean value
func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

// Any constructs a field that carries an arbitrary value
func Any(key string, val interface{}) Field {
	return zap.Any(key, val)
}

// Duration constructs a field that carries a time.Duration value
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Decimal logs a money amount in its exact string form
func Decimal(key string, val decimal.Decimal) Field {
	return zap.String(key, val.String())
}

// TransactionID tags a log line with the ledger transaction it concerns
func TransactionID(id string) Field {
	return zap.String("transaction_id", id)
}

// Provider tags a log line with the payment provider it concerns
func Provider(name string) Field {
	return zap.String("provider", name)
}

// CorrelationKey tags a log line with the provider correlation id
func CorrelationKey(key string) Field {
	return zap.String("correlation_key", key)
}
