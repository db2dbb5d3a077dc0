package dlt

import (
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMetrics 流水线指标
type PerformanceMetrics struct {
	// 获取统计
	TotalFetches      int64 `json:"total_fetches"`      // 总获取次数 (含缓存命中)
	SuccessfulFetches int64 `json:"successful_fetches"` // 成功次数
	FailedFetches     int64 `json:"failed_fetches"`     // 失败次数
	ParseFailures     int64 `json:"parse_failures"`     // 响应结构错误次数

	// 缓存统计
	CacheHits   int64 `json:"cache_hits"`   // 缓存命中
	CacheMisses int64 `json:"cache_misses"` // 缓存未命中
	CacheErrors int64 `json:"cache_errors"` // 缓存后端错误

	// 数据质量
	RecordsProcessed int64 `json:"records_processed"` // 处理的记录数
	MalformedRecords int64 `json:"malformed_records"` // 无法拆分的记录数
	QualityWarnings  int64 `json:"quality_warnings"`  // 越界或重复号码告警

	// 推荐统计
	Recommendations int64 `json:"recommendations"`

	// 性能统计
	TotalFetchTime int64 `json:"total_fetch_time"` // 上游获取总时间(纳秒)

	// 时间戳
	StartTime      int64 `json:"start_time"`
	LastUpdateTime int64 `json:"last_update_time"`
}

// GetSuccessRate 获取成功率
func (pm *PerformanceMetrics) GetSuccessRate() float64 {
	total := atomic.LoadInt64(&pm.TotalFetches)
	if total == 0 {
		return 0.0
	}
	successful := atomic.LoadInt64(&pm.SuccessfulFetches)
	return float64(successful) / float64(total) * 100.0
}

// GetAverageFetchTime 获取平均上游获取时间
func (pm *PerformanceMetrics) GetAverageFetchTime() time.Duration {
	upstream := atomic.LoadInt64(&pm.TotalFetches) - atomic.LoadInt64(&pm.CacheHits)
	if upstream <= 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&pm.TotalFetchTime) / upstream)
}

// ================================================================================

// PerformanceMonitor 性能监控器
type PerformanceMonitor struct {
	metrics PerformanceMetrics
	mu      sync.RWMutex
	enabled bool
}

// NewPerformanceMonitor 创建新的性能监控器
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{enabled: true}
	pm.Reset()
	return pm
}

// Enable 启用性能监控
func (pm *PerformanceMonitor) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = true
}

// Disable 禁用性能监控
func (pm *PerformanceMonitor) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = false
}

// IsEnabled 检查是否启用了性能监控
func (pm *PerformanceMonitor) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.enabled
}

func (pm *PerformanceMonitor) add(counter *int64, delta int64) {
	if !pm.IsEnabled() {
		return
	}
	atomic.AddInt64(counter, delta)
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordFetch 记录一次上游获取
func (pm *PerformanceMonitor) RecordFetch(err error, duration time.Duration) {
	pm.add(&pm.metrics.TotalFetches, 1)
	pm.add(&pm.metrics.TotalFetchTime, int64(duration))
	switch {
	case err == nil:
		pm.add(&pm.metrics.SuccessfulFetches, 1)
	case IsParseError(err):
		pm.add(&pm.metrics.FailedFetches, 1)
		pm.add(&pm.metrics.ParseFailures, 1)
	default:
		pm.add(&pm.metrics.FailedFetches, 1)
	}
}

// RecordCacheHit 记录缓存命中, 命中同样计为一次成功获取
func (pm *PerformanceMonitor) RecordCacheHit() {
	pm.add(&pm.metrics.CacheHits, 1)
	pm.add(&pm.metrics.TotalFetches, 1)
	pm.add(&pm.metrics.SuccessfulFetches, 1)
}

// RecordCacheMiss 记录缓存未命中
func (pm *PerformanceMonitor) RecordCacheMiss() { pm.add(&pm.metrics.CacheMisses, 1) }

// RecordCacheError 记录缓存后端错误
func (pm *PerformanceMonitor) RecordCacheError() { pm.add(&pm.metrics.CacheErrors, 1) }

// RecordRecords 记录一批记录的拆分结果
func (pm *PerformanceMonitor) RecordRecords(total, malformed, warnings int) {
	pm.add(&pm.metrics.RecordsProcessed, int64(total))
	pm.add(&pm.metrics.MalformedRecords, int64(malformed))
	pm.add(&pm.metrics.QualityWarnings, int64(warnings))
}

// RecordRecommendation 记录一次推荐
func (pm *PerformanceMonitor) RecordRecommendation() { pm.add(&pm.metrics.Recommendations, 1) }

// GetMetrics 获取性能指标的副本
func (pm *PerformanceMonitor) GetMetrics() PerformanceMetrics {
	m := &pm.metrics
	return PerformanceMetrics{
		TotalFetches:      atomic.LoadInt64(&m.TotalFetches),
		SuccessfulFetches: atomic.LoadInt64(&m.SuccessfulFetches),
		FailedFetches:     atomic.LoadInt64(&m.FailedFetches),
		ParseFailures:     atomic.LoadInt64(&m.ParseFailures),
		CacheHits:         atomic.LoadInt64(&m.CacheHits),
		CacheMisses:       atomic.LoadInt64(&m.CacheMisses),
		CacheErrors:       atomic.LoadInt64(&m.CacheErrors),
		RecordsProcessed:  atomic.LoadInt64(&m.RecordsProcessed),
		MalformedRecords:  atomic.LoadInt64(&m.MalformedRecords),
		QualityWarnings:   atomic.LoadInt64(&m.QualityWarnings),
		Recommendations:   atomic.LoadInt64(&m.Recommendations),
		TotalFetchTime:    atomic.LoadInt64(&m.TotalFetchTime),
		StartTime:         atomic.LoadInt64(&m.StartTime),
		LastUpdateTime:    atomic.LoadInt64(&m.LastUpdateTime),
	}
}

// Reset 重置性能指标
func (pm *PerformanceMonitor) Reset() {
	m := &pm.metrics
	for _, counter := range []*int64{
		&m.TotalFetches, &m.SuccessfulFetches, &m.FailedFetches, &m.ParseFailures,
		&m.CacheHits, &m.CacheMisses, &m.CacheErrors,
		&m.RecordsProcessed, &m.MalformedRecords, &m.QualityWarnings,
		&m.Recommendations, &m.TotalFetchTime,
	} {
		atomic.StoreInt64(counter, 0)
	}
	now := time.Now().UnixNano()
	atomic.StoreInt64(&m.StartTime, now)
	atomic.StoreInt64(&m.LastUpdateTime, now)
}
