package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		Multiplier:  1.0,
		Retryable:   func(error) bool { return true },
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), quickPolicy(3), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoValRetriesUntilSuccess(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), quickPolicy(3), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", eris.New("flaky")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, calls)
}

func TestDoValExhaustsBudget(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), quickPolicy(3), func(context.Context) (int, error) {
		calls++
		return 0, eris.New("always fails")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	p := quickPolicy(5)
	p.Retryable = IsTransient

	calls := 0
	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		return eris.New("schema mismatch") // not transient
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, quickPolicy(10), func(context.Context) error {
		calls++
		cancel()
		return eris.New("fails after cancel")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFixedDelayRetriesAnyError(t *testing.T) {
	p := FixedDelay(3, time.Millisecond)

	calls := 0
	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		return eris.New("empty checklist") // not transient, still retried
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestOnRetryObservesAttempts(t *testing.T) {
	var attempts []int
	p := quickPolicy(3)
	p.OnRetry = func(attempt int, err error) {
		attempts = append(attempts, attempt)
	}

	_ = Do(context.Background(), p, func(context.Context) error {
		return eris.New("boom")
	})
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDelayComputation(t *testing.T) {
	p := Policy{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   300 * time.Millisecond,
		Multiplier: 2.0,
	}.normalized()
	p.Jitter = 0

	assert.Equal(t, 100*time.Millisecond, p.delay(0))
	assert.Equal(t, 200*time.Millisecond, p.delay(1))
	assert.Equal(t, 300*time.Millisecond, p.delay(2), "capped at MaxDelay")
	assert.Equal(t, 300*time.Millisecond, p.delay(10))
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(eris.New("bad schema")))
	assert.True(t, IsTransient(Transient(eris.New("slow down"), 429)))
	assert.True(t, IsTransient(eris.Wrap(Transient(eris.New("inner"), 503), "outer")))
	assert.True(t, IsTransient(eris.New("read tcp: connection reset by peer")))
	assert.True(t, IsTransient(eris.New("api_error: Overloaded")))
}

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, RetryableStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 422} {
		assert.False(t, RetryableStatus(code), "status %d", code)
	}
}
