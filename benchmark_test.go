package dlt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// benchmarkRecords 生成 n 条 sporttery 格式的记录
func benchmarkRecords(n int) []RawRecord {
	records := make([]RawRecord, n)
	for i := range records {
		f := i%31 + 1
		records[i] = sporttery(
			fmt.Sprintf("%05d", 25000+i),
			fmt.Sprintf("%02d %02d %02d %02d %02d %02d %02d", f, f+1, f+2, f+3, f+4, i%11+1, i%11+2),
			"2025-01-02",
		)
	}
	return records
}

// BenchmarkSplitResult 号码拆分性能基准测试
func BenchmarkSplitResult(b *testing.B) {
	b.Run("合法结果", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, _, err := SplitResult("03 11 19 27 35 02 09"); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("格式错误", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _, _ = SplitResult("03 11 19 02 09")
		}
	})
}

// BenchmarkRecommend 推荐号码性能基准测试
func BenchmarkRecommend(b *testing.B) {
	b.Run("系统熵源", func(b *testing.B) {
		sampler := NewSampler()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := sampler.Recommend(); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("固定种子", func(b *testing.B) {
		sampler := NewSamplerWithGenerator(NewSeededGenerator(1))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := sampler.Recommend(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkRefresh 完整流水线 (不含网络) 性能基准测试
func BenchmarkRefresh(b *testing.B) {
	for _, size := range []int{30, 100, 1000} {
		b.Run(fmt.Sprintf("%d条记录", size), func(b *testing.B) {
			engine, err := NewEngineWithConfig(&stubFetcher{records: benchmarkRecords(size)}, nil,
				DefaultConfig(), NewSilentLogger())
			if err != nil {
				b.Fatal(err)
			}
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if report := engine.Refresh(ctx); report.Err != nil {
					b.Fatal(report.Err)
				}
			}
		})
	}
}

func TestPerformanceMetrics(t *testing.T) {
	metrics := &PerformanceMetrics{}

	t.Run("初始状态", func(t *testing.T) {
		assert.Equal(t, int64(0), metrics.TotalFetches)
		assert.Equal(t, 0.0, metrics.GetSuccessRate())
		assert.Equal(t, time.Duration(0), metrics.GetAverageFetchTime())
	})

	t.Run("成功率计算", func(t *testing.T) {
		metrics.TotalFetches = 100
		metrics.SuccessfulFetches = 85
		metrics.FailedFetches = 15

		assert.Equal(t, 85.0, metrics.GetSuccessRate())
	})

	t.Run("平均获取时间不含缓存命中", func(t *testing.T) {
		metrics.TotalFetches = 12
		metrics.CacheHits = 2
		metrics.TotalFetchTime = int64(100 * time.Millisecond)

		assert.Equal(t, 10*time.Millisecond, metrics.GetAverageFetchTime())
	})
}

func TestPerformanceMonitor(t *testing.T) {
	monitor := NewPerformanceMonitor()

	t.Run("启用和禁用", func(t *testing.T) {
		assert.True(t, monitor.IsEnabled())

		monitor.Disable()
		assert.False(t, monitor.IsEnabled())

		monitor.Enable()
		assert.True(t, monitor.IsEnabled())
	})

	t.Run("记录获取操作", func(t *testing.T) {
		monitor.Reset()

		monitor.RecordFetch(nil, 100*time.Millisecond)
		monitor.RecordFetch(NewFetchError(ErrCodeFetchTimeout, "request timed out"), 50*time.Millisecond)
		monitor.RecordFetch(NewParseError("missing field"), 20*time.Millisecond)
		monitor.RecordCacheHit()
		monitor.RecordCacheMiss()

		metrics := monitor.GetMetrics()
		assert.Equal(t, int64(4), metrics.TotalFetches)
		assert.Equal(t, int64(2), metrics.SuccessfulFetches)
		assert.Equal(t, int64(2), metrics.FailedFetches)
		assert.Equal(t, int64(1), metrics.ParseFailures)
		assert.Equal(t, int64(1), metrics.CacheHits)
		assert.Equal(t, int64(1), metrics.CacheMisses)
		assert.Equal(t, 50.0, metrics.GetSuccessRate())
		assert.Equal(t, int64(170*time.Millisecond), metrics.TotalFetchTime)
	})

	t.Run("记录数据质量", func(t *testing.T) {
		monitor.Reset()
		monitor.RecordRecords(30, 2, 3)

		metrics := monitor.GetMetrics()
		assert.Equal(t, int64(30), metrics.RecordsProcessed)
		assert.Equal(t, int64(2), metrics.MalformedRecords)
		assert.Equal(t, int64(3), metrics.QualityWarnings)
	})

	t.Run("禁用时不记录", func(t *testing.T) {
		monitor.Reset()
		monitor.Disable()
		defer monitor.Enable()

		monitor.RecordFetch(errors.New("boom"), time.Millisecond)
		monitor.RecordRecommendation()

		metrics := monitor.GetMetrics()
		assert.Equal(t, int64(0), metrics.TotalFetches)
		assert.Equal(t, int64(0), metrics.Recommendations)
	})
}

func TestPerformanceMonitor_Concurrent(t *testing.T) {
	monitor := NewPerformanceMonitor()

	const workers, perWorker = 10, 100
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				monitor.RecordFetch(nil, time.Microsecond)
				monitor.RecordRecommendation()
			}
		}()
	}
	wg.Wait()

	metrics := monitor.GetMetrics()
	assert.Equal(t, int64(workers*perWorker), metrics.TotalFetches)
	assert.Equal(t, int64(workers*perWorker), metrics.Recommendations)
}

func BenchmarkPerformanceMonitor_Concurrent(b *testing.B) {
	monitor := NewPerformanceMonitor()

	b.Run("并发记录操作", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				monitor.RecordFetch(nil, time.Microsecond*10)
				monitor.RecordCacheHit()
			}
		})
	})

	b.Run("并发获取指标", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = monitor.GetMetrics()
			}
		})
	})
}
