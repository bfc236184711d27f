package vsabench

import (
	"sync/atomic"
	"time"
)

// MetricsCollector observes a benchmark session.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordBenchmark is called after each benchmark. measurements is the
	// number it produced, err is nil if successful.
	RecordBenchmark(name string, measurements int, duration time.Duration, err error)

	// RecordSession is called once when the session ends.
	RecordSession(benchmarks int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBenchmark(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSession(int, time.Duration, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	BenchmarkCount   atomic.Int64
	BenchmarkErrors  atomic.Int64
	MeasurementCount atomic.Int64
	BenchTotalNanos  atomic.Int64
	SessionCount     atomic.Int64
	SessionErrors    atomic.Int64
}

// RecordBenchmark implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBenchmark(_ string, measurements int, duration time.Duration, err error) {
	b.BenchmarkCount.Add(1)
	b.MeasurementCount.Add(int64(measurements))
	b.BenchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BenchmarkErrors.Add(1)
	}
}

// RecordSession implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSession(_ int, _ time.Duration, err error) {
	b.SessionCount.Add(1)
	if err != nil {
		b.SessionErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BenchmarkCount:   b.BenchmarkCount.Load(),
		BenchmarkErrors:  b.BenchmarkErrors.Load(),
		MeasurementCount: b.MeasurementCount.Load(),
		BenchAvgNanos:    b.getAvgBenchNanos(),
		SessionCount:     b.SessionCount.Load(),
		SessionErrors:    b.SessionErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgBenchNanos() int64 {
	count := b.BenchmarkCount.Load()
	if count == 0 {
		return 0
	}
	return b.BenchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BenchmarkCount   int64
	BenchmarkErrors  int64
	MeasurementCount int64
	BenchAvgNanos    int64
	SessionCount     int64
	SessionErrors    int64
}
