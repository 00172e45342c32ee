package ingest

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Retry defaults for database sources.
const (
	retryAttempts = 3
	retryDelay    = 500 * time.Millisecond
)

// retry executes fn up to attempts times with exponential backoff.
// Only errors for which transient reports true are retried; others are
// returned immediately. Returns the last error if all attempts fail, or
// ctx.Err() if cancelled while waiting.
func retry(ctx context.Context, attempts int, delay time.Duration, transient func(error) bool, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !transient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// mongoTransient reports network failures and timeouts.
func mongoTransient(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}
