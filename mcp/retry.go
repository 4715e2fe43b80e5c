package mcp

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/goadesign/agentcore/errs"
)

// retryConfig mirrors §6.4's MCP retry strategy surface: exponential backoff
// capped at maxDelay, up to maxRetries additional attempts after the first.
type retryConfig struct {
	maxRetries        int
	baseDelay         time.Duration
	maxDelay          time.Duration
	backoffMultiplier float64
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxRetries:        3,
		baseDelay:         1 * time.Second,
		maxDelay:          30 * time.Second,
		backoffMultiplier: 2.0,
	}
}

// backoff computes the delay after failed attempt (0-indexed: the sleep before
// the 2nd try is attempt=0). base·2^attempt, capped at maxDelay (§4.8).
func (c retryConfig) backoff(attempt int) time.Duration {
	d := float64(c.baseDelay) * math.Pow(c.backoffMultiplier, float64(attempt))
	if d > float64(c.maxDelay) {
		d = float64(c.maxDelay)
	}
	return time.Duration(d)
}

// httpStatusError carries the HTTP status and any Retry-After hint for a
// non-2xx transport response.
type httpStatusError struct {
	statusCode int
	retryAfter time.Duration
	hasRetry   bool
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.statusCode)
}

// isRetryableTransport reports whether a non-2xx HTTP status should be
// retried: 429, 502, 503, 504.
func isRetryableTransport(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// doWithRetry runs fn, retrying on transport failures (isRetryableTransport)
// and honoring server Retry-After hints over the computed exponential
// backoff. It never retries a *errs.MCPError carrying one of the five
// reserved JSON-RPC codes (§4.8 step 4). Cancellation is checked before each
// sleep (§5).
func doWithRetry(ctx context.Context, cfg retryConfig, fn func(ctx context.Context) error) error {
	var lastErr error
	attempts := cfg.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var mcpErr *errs.MCPError
		if errors.As(err, &mcpErr) && isReservedErrorCode(mcpErr.Code) {
			return err
		}

		var statusErr *httpStatusError
		retryable := errors.As(err, &statusErr) && isRetryableTransport(statusErr.statusCode)
		if !retryable {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		delay := cfg.backoff(attempt)
		if statusErr != nil && statusErr.hasRetry {
			delay = statusErr.retryAfter
		}

		select {
		case <-ctx.Done():
			return &errs.Cancelled{}
		case <-time.After(delay):
		}
	}
	return lastErr
}
