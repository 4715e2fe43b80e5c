package mcp

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadesign/agentcore/errs"
)

func TestBackoffIsExponentialAndCapped(t *testing.T) {
	cfg := retryConfig{baseDelay: time.Second, maxDelay: 10 * time.Second, backoffMultiplier: 2.0}
	assert.Equal(t, time.Second, cfg.backoff(0))
	assert.Equal(t, 2*time.Second, cfg.backoff(1))
	assert.Equal(t, 4*time.Second, cfg.backoff(2))
	assert.Equal(t, 10*time.Second, cfg.backoff(10))
}

func TestDoWithRetrySucceedsAfterRetryableFailures(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 10 * time.Millisecond, backoffMultiplier: 2.0}
	attempts := 0
	err := doWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &httpStatusError{statusCode: http.StatusServiceUnavailable}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoWithRetryNeverRetriesReservedJSONRPCCodes(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 10 * time.Millisecond, backoffMultiplier: 2.0}
	attempts := 0
	err := doWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return &errs.MCPError{Code: -32601, Message: "method not found"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoWithRetryDoesNotRetryNonRetryableTransportError(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 10 * time.Millisecond, backoffMultiplier: 2.0}
	attempts := 0
	err := doWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return &httpStatusError{statusCode: http.StatusBadRequest}
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoWithRetryExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	cfg := retryConfig{maxRetries: 2, baseDelay: time.Millisecond, maxDelay: 10 * time.Millisecond, backoffMultiplier: 2.0}
	attempts := 0
	err := doWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return &httpStatusError{statusCode: http.StatusServiceUnavailable}
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoWithRetryHonorsRetryAfterOverBackoff(t *testing.T) {
	cfg := retryConfig{maxRetries: 1, baseDelay: time.Hour, maxDelay: time.Hour, backoffMultiplier: 2.0}
	attempts := 0
	start := time.Now()
	err := doWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return &httpStatusError{statusCode: http.StatusTooManyRequests, hasRetry: true, retryAfter: 5 * time.Millisecond}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoWithRetryAbortsOnCancellation(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Hour, maxDelay: time.Hour, backoffMultiplier: 2.0}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := doWithRetry(ctx, cfg, func(ctx context.Context) error {
		return &httpStatusError{statusCode: http.StatusServiceUnavailable}
	})
	require.Error(t, err)
	var cancelled *errs.Cancelled
	assert.ErrorAs(t, err, &cancelled)
}
