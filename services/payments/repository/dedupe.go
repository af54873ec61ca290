package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zeduno/paygate/internal/pkg/constants"
	"github.com/zeduno/paygate/internal/pkg/database"
)

// CallbackDedupe keeps a Redis marker per reconciled callback so exact replays skip the ledger
type CallbackDedupe struct {
	redis *database.RedisClient
	ttl   time.Duration
}

// NewCallbackDedupe creates the replay marker store
func NewCallbackDedupe(redis *database.RedisClient, ttl time.Duration) *CallbackDedupe {
	return &CallbackDedupe{
		redis: redis,
		ttl:   ttl,
	}
}

// IsProcessed reports whether the callback was already reconciled
func (d *CallbackDedupe) IsProcessed(ctx context.Context, provider, key string) (bool, error) {
	exists, err := d.redis.Exists(ctx, fmt.Sprintf(constants.KeyCallbackProcessed, provider, key))
	if err != nil {
		return false, fmt.Errorf("failed to check callback marker: %w", err)
	}
	return exists, nil
}

// MarkProcessed sets the marker; an existing marker is left untouched
func (d *CallbackDedupe) MarkProcessed(ctx context.Context, provider, key string) error {
	if _, err := d.redis.SetNX(ctx, fmt.Sprintf(constants.KeyCallbackProcessed, provider, key), time.Now().Unix(), d.ttl); err != nil {
		return fmt.Errorf("failed to set callback marker: %w", err)
	}
	return nil
}
