package provider

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeduno/paygate/internal/pkg/models"
)

func TestTokenCache_ReusesValidToken(t *testing.T) {
	var calls int32
	cache := NewTokenCache(func(ctx context.Context) (string, time.Duration, error) {
		atomic.AddInt32(&calls, 1)
		return "tok-1", time.Hour, nil
	}, DefaultTokenSafetyMargin)

	for i := 0; i < 3; i++ {
		token, err := cache.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTokenCache_RefreshesInsideSafetyMargin(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var calls int32
	cache := NewTokenCache(func(ctx context.Context) (string, time.Duration, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return "old", time.Hour, nil
		}
		return "new", time.Hour, nil
	}, 10*time.Minute)
	cache.now = func() time.Time { return now }

	token, err := cache.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", token)

	// 49 minutes later the token still has 11 minutes left
	now = now.Add(49 * time.Minute)
	token, err = cache.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", token)

	// 51 minutes in, only 9 minutes are left
	now = now.Add(2 * time.Minute)
	token, err = cache.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", token)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTokenCache_SingleExchangeUnderConcurrency(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	cache := NewTokenCache(func(ctx context.Context) (string, time.Duration, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", time.Hour, nil
	}, DefaultTokenSafetyMargin)

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := cache.GetToken(context.Background())
			assert.NoError(t, err)
			results[i] = token
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, token := range results {
		assert.Equal(t, "shared", token)
	}
}

func TestTokenCache_FailureLeavesCacheUnset(t *testing.T) {
	fail := true
	cache := NewTokenCache(func(ctx context.Context) (string, time.Duration, error) {
		if fail {
			return "", 0, errors.New("401 invalid credentials")
		}
		return "recovered", time.Hour, nil
	}, DefaultTokenSafetyMargin)

	_, err := cache.GetToken(context.Background())
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)

	fail = false
	token, err := cache.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "recovered", token)
}

func TestTokenCache_EmptyTokenIsAnError(t *testing.T) {
	cache := NewTokenCache(func(ctx context.Context) (string, time.Duration, error) {
		return "", time.Hour, nil
	}, DefaultTokenSafetyMargin)

	_, err := cache.GetToken(context.Background())
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
}

func TestTokenCache_Invalidate(t *testing.T) {
	var calls int32
	cache := NewTokenCache(func(ctx context.Context) (string, time.Duration, error) {
		atomic.AddInt32(&calls, 1)
		return "tok", time.Hour, nil
	}, DefaultTokenSafetyMargin)

	_, err := cache.GetToken(context.Background())
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.GetToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTokenCache_CallerDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	cache := NewTokenCache(func(ctx context.Context) (string, time.Duration, error) {
		<-release
		return "late", time.Hour, nil
	}, DefaultTokenSafetyMargin)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := cache.GetToken(ctx)
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
}
