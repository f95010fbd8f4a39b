// Package circuitbreaker 熔断器
//
// 用于保护对外部依赖（Redis会话/撤销存储）的调用：依赖连续失败时快速失败，
// 避免每个请求都卡在连接超时上。
//
// 状态流转：
//
//	CLOSED --(失败达到阈值)--> OPEN --(超时后)--> HALF_OPEN
//	HALF_OPEN --(探测成功)--> CLOSED
//	HALF_OPEN --(探测失败)--> OPEN
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态允许通过的探测请求数
	MaxRequests uint32
	// Interval 关闭状态下统计窗口长度，到期清零；0表示不清零
	Interval time.Duration
	// Timeout 打开状态持续时间，之后进入半开
	Timeout time.Duration
	// FailureThreshold 连续失败多少次后熔断（ReadyToTrip为空时使用）
	FailureThreshold uint32
	// ReadyToTrip 自定义熔断条件
	ReadyToTrip func(counts Counts) bool
	// IsSuccessful 判断一次调用是否算成功，默认err == nil
	// 例如redis.Nil（key不存在）不应计为失败
	IsSuccessful func(err error) bool
	// OnStateChange 状态变化回调（用于日志和指标）
	OnStateChange func(name string, from, to State)
}

// Counts 统计数据
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func (c *Counts) clear() {
	*c = Counts{}
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// CircuitBreaker 熔断器（并发安全）
type CircuitBreaker struct {
	name string
	cfg  Config
	now  func() time.Time

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增，丢弃跨代的结果
	counts     Counts
	expiry     time.Time
}

// ErrOpenState 熔断器打开（或半开探测名额已满）时返回
var ErrOpenState = errors.New("circuit breaker is open")

// New 创建熔断器，未设置的配置项使用默认值
func New(name string, cfg Config) *CircuitBreaker {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.ReadyToTrip == nil {
		threshold := cfg.FailureThreshold
		cfg.ReadyToTrip = func(c Counts) bool { return c.ConsecutiveFailures >= threshold }
	}
	if cfg.IsSuccessful == nil {
		cfg.IsSuccessful = func(err error) bool { return err == nil }
	}

	cb := &CircuitBreaker{
		name:  name,
		cfg:   cfg,
		now:   time.Now,
		state: StateClosed,
	}
	if cfg.Interval > 0 {
		cb.expiry = cb.now().Add(cfg.Interval)
	}
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute 在熔断器保护下执行fn
// 熔断打开时不调用fn，直接返回ErrOpenState
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn(ctx)
	// 调用方主动取消不代表依赖故障
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		cb.after(generation, true)
		return err
	}
	cb.after(generation, cb.cfg.IsSuccessful(err))
	return err
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.current(cb.now())
	switch {
	case state == StateOpen:
		return generation, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.cfg.MaxRequests:
		return generation, ErrOpenState
	}
	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) after(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, generation := cb.current(now)
	if generation != before {
		return
	}

	if success {
		cb.counts.success()
		if state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.cfg.MaxRequests {
			cb.transition(StateClosed, now)
		}
		return
	}

	cb.counts.failure()
	switch state {
	case StateClosed:
		if cb.cfg.ReadyToTrip(cb.counts) {
			cb.transition(StateOpen, now)
		}
	case StateHalfOpen:
		cb.transition(StateOpen, now)
	}
}

// current 根据时间推进状态（调用方持有锁）
func (cb *CircuitBreaker) current(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts.clear()
			cb.expiry = now.Add(cb.cfg.Interval)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.transition(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) transition(to State, now time.Time) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.generation++
	cb.counts.clear()

	switch to {
	case StateClosed:
		cb.expiry = time.Time{}
		if cb.cfg.Interval > 0 {
			cb.expiry = now.Add(cb.cfg.Interval)
		}
	case StateOpen:
		cb.expiry = now.Add(cb.cfg.Timeout)
	case StateHalfOpen:
		cb.expiry = time.Time{}
	}

	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.name, from, to)
	}
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	state, _ := cb.current(cb.now())
	return state
}

// Counts 当前统计数据的快照
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}
