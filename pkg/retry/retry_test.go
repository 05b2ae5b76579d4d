package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		JitterMax:  time.Millisecond,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_TransientFailuresExhaustRetryBudget(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return Transient(errors.New("upstream 503"))
	})
	require.Error(t, err)
	// One initial attempt plus MaxRetries retries.
	assert.Equal(t, 3, attempts)
	assert.True(t, IsTransient(err))
}

func TestDo_TransientThenSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return Transient(errors.New("rate limited"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_TerminalFailureNotRetried(t *testing.T) {
	terminal := errors.New("bad request")
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return terminal
	})
	require.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Do(ctx, fastConfig(), func() error {
		attempts++
		cancel()
		return Transient(errors.New("flaky"))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDo_CustomClassifier(t *testing.T) {
	attempts := 0
	cfg := fastConfig()
	cfg.Classify = func(error) Decision { return Retry }

	err := Do(context.Background(), cfg, func() error {
		attempts++
		return errors.New("always retryable here")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestTransient_NilStaysNil(t *testing.T) {
	assert.NoError(t, Transient(nil))
	assert.False(t, IsTransient(nil))
}

func TestIsTransient_SurvivesWrapping(t *testing.T) {
	wrapped := Transient(errors.New("inner"))
	assert.True(t, IsTransient(wrapped))
}
