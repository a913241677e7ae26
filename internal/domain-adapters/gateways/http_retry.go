package gateways

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
)

const (
	// Max retries for transient errors
	maxRetries = 3
	// Initial backoff duration
	initialBackoff = 1 * time.Second
	// Max backoff duration
	maxBackoff = 32 * time.Second

	userAgent = "extenscan/1.0"
)

// retryingClient wraps an http.Client with exponential backoff for transient failures
type retryingClient struct {
	client *http.Client
	sleep  func(ctx context.Context, d time.Duration) error
}

func newRetryingClient(timeout time.Duration) *retryingClient {
	return &retryingClient{
		client: &http.Client{Timeout: timeout},
		sleep:  sleepContext,
	}
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableError checks if an HTTP status code is retryable
func isRetryableError(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// calculateBackoff returns the backoff duration for a retry attempt
func calculateBackoff(attempt int) time.Duration {
	backoff := float64(initialBackoff) * math.Pow(2, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}
	return time.Duration(backoff)
}

// retryAfter reads a Retry-After header in seconds, capped at maxBackoff
func retryAfter(resp *http.Response) (time.Duration, bool) {
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, false
	}
	d := time.Duration(seconds) * time.Second
	if d > maxBackoff {
		d = maxBackoff
	}
	return d, true
}

// do executes the request built by newRequest, retrying network errors and
// transient statuses. newRequest is called once per attempt so request bodies
// can be replayed.
func (c *retryingClient) do(ctx context.Context, newRequest func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	wait := time.Duration(0)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
		wait = calculateBackoff(attempt)

		req, err := newRequest(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		if !isRetryableError(resp.StatusCode) || attempt == maxRetries {
			return resp, nil
		}

		if d, ok := retryAfter(resp); ok {
			wait = d
		}
		//nolint:errcheck,gosec // G104: Best effort close before retry
		resp.Body.Close()
		lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}
