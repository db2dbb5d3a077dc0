package dlt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerFetcher 带熔断器的数据获取器
//
// The breaker only short-circuits: a call is never repeated. While open, Fetch
// fails immediately with a FetchError instead of contacting the provider.
type BreakerFetcher struct {
	fetcher Fetcher

	mu      sync.RWMutex // 保护 breaker, Reset 会替换实例
	breaker *gobreaker.CircuitBreaker
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewBreakerFetcher 创建带熔断器的数据获取器
func NewBreakerFetcher(fetcher Fetcher, config *CircuitBreakerConfig, logger Logger) *BreakerFetcher {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}

	b := &BreakerFetcher{
		fetcher: fetcher,
		logger:  logger,
		config:  config,
	}
	if config.Enabled {
		b.breaker = gobreaker.NewCircuitBreaker(b.settings())
	}
	return b
}

func (b *BreakerFetcher) current() *gobreaker.CircuitBreaker {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.breaker
}

func (b *BreakerFetcher) settings() gobreaker.Settings {
	config := b.config
	return gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当请求数达到最小要求且失败率超过阈值时触发熔断
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// 解析错误说明上游可达, 不计入熔断
			return err == nil || IsParseError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange {
				b.logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
	}
}

// Fetch 通过熔断器执行一次获取
func (b *BreakerFetcher) Fetch(ctx context.Context, q Query) ([]RawRecord, error) {
	breaker := b.current()
	if breaker == nil {
		return b.fetcher.Fetch(ctx, q)
	}

	result, err := breaker.Execute(func() (any, error) {
		return b.fetcher.Fetch(ctx, q)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return nil, NewFetchError(ErrCodeCircuitBreakerOpen, "circuit breaker is open").
				WithDetails("provider calls are suspended after repeated failures").WithCause(err)
		}
		if errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, NewFetchError(ErrCodeCircuitBreakerOpen, "circuit breaker is half-open").
				WithDetails("probe request already in flight").WithCause(err)
		}
		return nil, err
	}

	records, _ := result.([]RawRecord)
	return records, nil
}

// State 获取熔断器状态
func (b *BreakerFetcher) State() string {
	breaker := b.current()
	if breaker == nil {
		return "disabled"
	}

	switch breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts 获取熔断器统计信息
func (b *BreakerFetcher) Counts() gobreaker.Counts {
	breaker := b.current()
	if breaker == nil {
		return gobreaker.Counts{}
	}
	return breaker.Counts()
}

// Reset 重置熔断器 (gobreaker 没有 Reset 方法, 重新创建实例)
func (b *BreakerFetcher) Reset() {
	b.mu.Lock()
	if b.breaker == nil {
		b.mu.Unlock()
		return
	}
	b.breaker = gobreaker.NewCircuitBreaker(b.settings())
	b.mu.Unlock()

	b.logger.Info("Circuit breaker '%s' has been reset", b.config.Name)
}

// Health 熔断器健康检查
func (b *BreakerFetcher) Health() map[string]any {
	result := map[string]any{
		"circuit_breaker_enabled": b.config.Enabled,
		"timestamp":               time.Now().Unix(),
	}

	if b.current() == nil {
		result["state"] = "disabled"
		result["healthy"] = true
		return result
	}

	state := b.State()
	counts := b.Counts()
	result["state"] = state
	result["requests"] = counts.Requests
	result["total_successes"] = counts.TotalSuccesses
	result["total_failures"] = counts.TotalFailures
	result["consecutive_failures"] = counts.ConsecutiveFailures
	result["healthy"] = state != "open"
	return result
}
