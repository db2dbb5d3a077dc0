package dlt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine runs the draw pipeline: fetch (through the TTL cache), normalize,
// split and aggregate. It also serves recommendations.
type Engine struct {
	fetcher Fetcher
	cache   Cache
	sampler *Sampler
	logger  Logger

	mu              sync.RWMutex // 保护配置的并发访问
	query           Query
	mapping         FieldMapping
	cacheTTL        time.Duration
	refreshInterval time.Duration

	performanceMonitor *PerformanceMonitor
	now                func() time.Time
}

// NewEngine creates an engine with default settings around the given fetcher.
// Caching is off until a cache is attached with SetCache.
func NewEngine(fetcher Fetcher) *Engine {
	e, _ := NewEngineWithConfig(fetcher, nil, DefaultConfig(), &DefaultLogger{})
	return e
}

// NewEngineWithConfig creates an engine from config; cache may be nil
func NewEngineWithConfig(fetcher Fetcher, cache Cache, config *Config, logger Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}

	e := &Engine{
		fetcher: fetcher,
		cache:   cache,
		sampler: NewSampler(),
		logger:  logger,

		performanceMonitor: NewPerformanceMonitor(),
		now:                time.Now,
	}
	if err := e.UpdateConfig(config); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineFromConfig wires the HTTP fetcher, circuit breaker and cache
// backend described by config
func NewEngineFromConfig(config *Config, logger Logger) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}
	if err := config.Validate(); err != nil {
		return nil, NewError(ErrCodeConfigInvalid, "invalid configuration").WithCause(err)
	}

	httpFetcher := NewHTTPFetcher(config.Source, logger)
	if config.Source.Provider == DefaultProvider {
		httpFetcher.SetParam("provinceId", "0")
		httpFetcher.SetParam("isVerify", "1")
	}

	var fetcher Fetcher = httpFetcher
	if config.CircuitBreaker != nil {
		fetcher = NewBreakerFetcher(httpFetcher, config.CircuitBreaker, logger)
	}

	cache, err := NewCacheFromConfig(config, logger)
	if err != nil {
		return nil, err
	}

	return NewEngineWithConfig(fetcher, cache, config, logger)
}

// UpdateConfig applies the source, cache and refresh settings of config
func (e *Engine) UpdateConfig(config *Config) error {
	source := config.Source
	if source == nil {
		source = DefaultSourceConfig()
	}
	mapping, err := LookupProvider(source.Provider)
	if err != nil {
		return err
	}

	ttl := time.Duration(0)
	if config.Cache != nil && config.Cache.Enabled {
		ttl = config.Cache.TTL
	}
	interval := DefaultRefreshInterval
	if config.Refresh != nil && config.Refresh.Interval > 0 {
		interval = config.Refresh.Interval
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.query = source.Query()
	e.mapping = mapping
	e.cacheTTL = ttl
	e.refreshInterval = interval
	return nil
}

// Query returns the query the engine fetches
func (e *Engine) Query() Query {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.query
}

// RefreshInterval returns the configured refresh period
func (e *Engine) RefreshInterval() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.refreshInterval
}

// SetCache attaches a cache with the given TTL; a nil cache disables caching
func (e *Engine) SetCache(cache Cache, ttl time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cache = cache
	e.cacheTTL = ttl
}

// SetSampler replaces the recommendation sampler
func (e *Engine) SetSampler(s *Sampler) {
	if s == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sampler = s
}

// SetLogger 设置日志记录器
func (e *Engine) SetLogger(logger Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger = logger
}

// GetLogger 获取日志记录器
func (e *Engine) GetLogger() Logger {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.logger
}

// FetchBatch returns the raw page for the engine's query, from the cache when
// a live entry exists. The boolean reports a cache hit.
func (e *Engine) FetchBatch(ctx context.Context) (*CachedBatch, bool, error) {
	return e.fetchBatch(ctx, false)
}

// fetchBatch skips the cache read when force is set; the fresh page is still cached
func (e *Engine) fetchBatch(ctx context.Context, force bool) (*CachedBatch, bool, error) {
	e.mu.RLock()
	q, cache, ttl, logger := e.query, e.cache, e.cacheTTL, e.logger
	e.mu.RUnlock()

	useCache := cache != nil && ttl > 0
	key := q.CacheKey()

	if useCache && !force {
		batch, err := cache.Get(ctx, key)
		switch {
		case err == nil:
			e.performanceMonitor.RecordCacheHit()
			logger.Debug("Cache hit for %s (fetched at %s)", key, batch.FetchedAt.Format(time.DateTime))
			return batch, true, nil
		case errors.Is(err, ErrCacheMiss):
			e.performanceMonitor.RecordCacheMiss()
		default:
			e.performanceMonitor.RecordCacheError()
			logger.Error("Cache read failed, fetching upstream: %v", err)
		}
	}

	start := time.Now()
	records, err := e.fetcher.Fetch(ctx, q)
	e.performanceMonitor.RecordFetch(err, time.Since(start))
	if err != nil {
		return nil, false, err
	}

	batch := &CachedBatch{Query: q, Records: records, FetchedAt: e.now()}
	if useCache {
		if err := cache.Set(ctx, key, batch, ttl); err != nil {
			e.performanceMonitor.RecordCacheError()
			logger.Error("Cache write failed: %v", err)
		}
	}
	return batch, false, nil
}

// Refresh builds a report from the cached page when one is live, fetching
// otherwise. It never returns an error: fetch and parse failures yield an
// empty report carrying the diagnostic message.
func (e *Engine) Refresh(ctx context.Context) *Report {
	return e.refresh(ctx, false)
}

// RefreshNow is Refresh without the cache read: the provider is always asked
// and the cache entry is replaced. Scheduled refreshes use it, since a cache
// TTL close to the refresh interval would otherwise serve the previous page.
func (e *Engine) RefreshNow(ctx context.Context) *Report {
	return e.refresh(ctx, true)
}

func (e *Engine) refresh(ctx context.Context, force bool) *Report {
	e.mu.RLock()
	mapping, interval, logger := e.mapping, e.refreshInterval, e.logger
	e.mu.RUnlock()

	report := &Report{
		ID:      uuid.NewString(),
		Query:   e.Query(),
		Records: []DrawRecord{},
		Draws:   []ParsedDraw{},
		Front:   FrequencyTable{},
		Back:    FrequencyTable{},
	}

	batch, fromCache, err := e.fetchBatch(ctx, force)
	if err != nil {
		logger.Error("Fetch failed: %v", err)
		report.Err = err
		report.ErrorCode = ErrorCodeOf(err)
		report.Message = failureMessage(err)
		return report
	}

	report.FetchedAt = batch.FetchedAt
	report.FromCache = fromCache
	report.NextRefresh = batch.FetchedAt.Add(interval)
	report.Records = Normalize(batch.Records, mapping)
	report.Draws = SplitRecords(report.Records)
	report.Front, report.Back = Aggregate(ValidSets(report.Draws))
	report.Issues = e.collectIssues(report.Draws, logger)

	if report.Empty() {
		report.Message = emptyMessage
	} else {
		report.Message = successMessage(len(report.Records), report.FetchedAt)
	}
	return report
}

func (e *Engine) collectIssues(draws []ParsedDraw, logger Logger) []RecordIssue {
	var issues []RecordIssue
	malformed, warnings := 0, 0

	for i, d := range draws {
		if d.Err != nil {
			malformed++
			logger.Warn("Draw %q excluded from statistics: %v", d.Record.ID, d.Err)
			issues = append(issues, RecordIssue{
				Index:    i,
				DrawID:   d.Record.ID,
				Error:    d.Err,
				ErrorMsg: d.Err.Error(),
				Excluded: true,
			})
			continue
		}
		for _, w := range d.Warnings {
			warnings++
			logger.Warn("Draw %q data quality: %s", d.Record.ID, w)
			issues = append(issues, RecordIssue{Index: i, DrawID: d.Record.ID, ErrorMsg: w})
		}
	}

	e.performanceMonitor.RecordRecords(len(draws), malformed, warnings)
	return issues
}

// Recommend returns one uniformly sampled number set
func (e *Engine) Recommend() (NumberSet, error) {
	e.mu.RLock()
	sampler := e.sampler
	e.mu.RUnlock()

	set, err := sampler.Recommend()
	if err != nil {
		return NumberSet{}, err
	}
	e.performanceMonitor.RecordRecommendation()
	return set, nil
}

// PerformanceMetrics 获取性能指标
func (e *Engine) PerformanceMetrics() PerformanceMetrics {
	return e.performanceMonitor.GetMetrics()
}

// ResetPerformanceMetrics 重置性能指标
func (e *Engine) ResetPerformanceMetrics() { e.performanceMonitor.Reset() }

// Health reports the fetcher's breaker state when it has one
func (e *Engine) Health() map[string]any {
	if b, ok := e.fetcher.(*BreakerFetcher); ok {
		return b.Health()
	}
	return map[string]any{"state": "disabled", "healthy": true}
}

// Close releases the cache backend
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cache == nil {
		return nil
	}
	err := e.cache.Close()
	e.cache = nil
	return err
}
