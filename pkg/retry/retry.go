package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Decision is the typed outcome of classifying a failed attempt.
type Decision int

const (
	// Stop means the failure is terminal; do not retry.
	Stop Decision = iota

	// Retry means the failure is transient and the call may be retried.
	Retry
)

// Config holds retry configuration. The delay before retry attempt n is
// BaseDelay * 2^n plus uniform jitter in [0, JitterMax), recomputed per
// attempt.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay scales the exponential backoff. Defaults to one second.
	BaseDelay time.Duration

	// JitterMax bounds the random jitter added to each delay. Defaults to
	// one second.
	JitterMax time.Duration

	// Classify decides whether a failure is transient. Defaults to
	// classifying errors marked with Transient as retryable and everything
	// else as terminal.
	Classify func(error) Decision
}

// DefaultConfig returns the retry policy shared by the upstream clients:
// two retries with 2^attempt second backoff plus up to a second of jitter.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		JitterMax:  time.Second,
	}
}

// transientError marks an error as transient for classification.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so the default classifier treats it as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is marked transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func (cfg Config) classify(err error) Decision {
	if cfg.Classify != nil {
		return cfg.Classify(err)
	}
	if IsTransient(err) {
		return Retry
	}
	return Stop
}

// Do executes fn, retrying transient failures up to cfg.MaxRetries times.
// Terminal failures and context cancellation return immediately. The returned
// error is the last failure observed.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.JitterMax <= 0 {
		cfg.JitterMax = time.Second
	}

	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("retry aborted: %w (last error: %v)", err, lastErr)
			}
			return fmt.Errorf("retry aborted: %w", err)
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if cfg.classify(err) == Stop {
			return err
		}
		if attempt == cfg.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
		}

		delay := backoffDelay(cfg, attempt+1)
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w (last error: %v)", ctx.Err(), lastErr)
		case <-time.After(delay):
		}
	}

	return lastErr
}

func backoffDelay(cfg Config, attempt int) time.Duration {
	delay := cfg.BaseDelay << uint(attempt)
	jitter := time.Duration(rand.Float64() * float64(cfg.JitterMax))
	return delay + jitter
}
