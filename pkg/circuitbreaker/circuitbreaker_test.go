package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(cfg Config) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	cb := New("test", cfg)
	cb.now = clock.Now
	return cb, clock
}

func fail(context.Context) error { return errBoom }
func ok(context.Context) error   { return nil }

func TestCircuitBreaker_Trip(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3, Timeout: time.Second})
	ctx := context.Background()

	t.Run("连续失败达到阈值后熔断", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
		}
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("熔断期间不执行调用", func(t *testing.T) {
		called := false
		err := cb.Execute(ctx, func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrOpenState)
		assert.False(t, called)
	})
}

func TestCircuitBreaker_SuccessResetsConsecutive(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 2})
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	require.NoError(t, cb.Execute(ctx, ok))
	_ = cb.Execute(ctx, fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	var transitions []string
	cb, clock := newTestBreaker(Config{
		FailureThreshold: 1,
		Timeout:          5 * time.Second,
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(6 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	t.Run("探测成功后恢复", func(t *testing.T) {
		require.NoError(t, cb.Execute(ctx, ok))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败重新熔断", func(t *testing.T) {
		_ = cb.Execute(ctx, fail)
		clock.Advance(6 * time.Second)
		require.Equal(t, StateHalfOpen, cb.State())

		_ = cb.Execute(ctx, fail)
		assert.Equal(t, StateOpen, cb.State())
	})

	assert.Equal(t, []string{
		"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED",
		"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->OPEN",
	}, transitions)
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errMiss := errors.New("miss")
	cb, _ := newTestBreaker(Config{
		FailureThreshold: 1,
		IsSuccessful:     func(err error) bool { return err == nil || errors.Is(err, errMiss) },
	})

	err := cb.Execute(context.Background(), func(context.Context) error { return errMiss })
	assert.ErrorIs(t, err, errMiss)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_CanceledContextNotCounted(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_IntervalClearsCounts(t *testing.T) {
	cb, clock := newTestBreaker(Config{FailureThreshold: 2, Interval: time.Second})
	// New里用真实时间计算了expiry，这里按假时钟重置
	cb.expiry = clock.Now().Add(time.Second)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	clock.Advance(2 * time.Second)
	_ = cb.Execute(ctx, fail)

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := New("concurrent", Config{FailureThreshold: 1000})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(context.Background(), ok)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint32(50), cb.Counts().TotalSuccesses)
}
