package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeduno/paygate/internal/pkg/models"
	"golang.org/x/sync/singleflight"
)

// DefaultTokenSafetyMargin is how long before expiry a token stops being handed out
const DefaultTokenSafetyMargin = 10 * time.Minute

// TokenFetcher exchanges credentials for an access token and its lifetime
type TokenFetcher func(ctx context.Context) (token string, lifetime time.Duration, err error)

// TokenCache holds one provider access token and refreshes it with at most one exchange in flight
type TokenCache struct {
	fetch  TokenFetcher
	margin time.Duration
	now    func() time.Time

	mu     sync.RWMutex
	token  string
	expiry time.Time

	group singleflight.Group
}

// NewTokenCache creates a cache around fetch
func NewTokenCache(fetch TokenFetcher, margin time.Duration) *TokenCache {
	return &TokenCache{
		fetch:  fetch,
		margin: margin,
		now:    time.Now,
	}
}

// GetToken returns the cached token while it is comfortably valid, refreshing otherwise
func (c *TokenCache) GetToken(ctx context.Context) (string, error) {
	if token, ok := c.cached(); ok {
		return token, nil
	}

	// The exchange outlives a cancelled caller so concurrent waiters still get the token
	ch := c.group.DoChan("token", func() (interface{}, error) {
		if token, ok := c.cached(); ok {
			return token, nil
		}
		return c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", models.ErrAuthenticationFailed, ctx.Err())
	}
}

// Invalidate drops the cached token, used when the provider rejects it
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiry = time.Time{}
	c.mu.Unlock()
}

func (c *TokenCache) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return "", false
	}
	return c.token, c.now().Before(c.expiry.Add(-c.margin))
}

func (c *TokenCache) refresh(ctx context.Context) (string, error) {
	token, lifetime, err := c.fetch(ctx)
	if err != nil {
		if errors.Is(err, models.ErrAuthenticationFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", models.ErrAuthenticationFailed, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty access token", models.ErrAuthenticationFailed)
	}

	c.mu.Lock()
	c.token = token
	c.expiry = c.now().Add(lifetime)
	c.mu.Unlock()

	return token, nil
}
