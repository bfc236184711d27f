package stats

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// Quantile returns the nearest-rank quantile of an ascending slice: the
// element at index round((n-1)*q). It returns 0 for an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Round(float64(len(sorted)-1) * q))
	idx = min(max(idx, 0), len(sorted)-1)
	return sorted[idx]
}

// LatencySummary reports per-query latency in milliseconds.
type LatencySummary struct {
	Count int     `json:"count"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Mean  float64 `json:"mean"`
	QPS   float64 `json:"qps"`
}

// Latencies collects per-query wall-clock latencies.
type Latencies struct {
	ms []float64
}

// NewLatencies preallocates room for n samples.
func NewLatencies(n int) *Latencies {
	return &Latencies{ms: make([]float64, 0, n)}
}

// Add records one query latency.
func (l *Latencies) Add(d time.Duration) {
	l.ms = append(l.ms, float64(d)/float64(time.Millisecond))
}

// Len returns the number of samples.
func (l *Latencies) Len() int { return len(l.ms) }

// Summary sorts the samples and computes percentiles, mean and throughput.
// QPS is count divided by the summed latency in seconds (0 when that sum is 0).
func (l *Latencies) Summary() LatencySummary {
	sorted := slices.Clone(l.ms)
	slices.SortFunc(sorted, func(a, b float64) int {
		return cmpNaNEqual(a, b)
	})

	var sumMS float64
	for _, v := range sorted {
		sumMS += v
	}

	s := LatencySummary{
		Count: len(sorted),
		P50:   Quantile(sorted, 0.50),
		P95:   Quantile(sorted, 0.95),
		P99:   Quantile(sorted, 0.99),
		Mean:  sumMS / float64(max(len(sorted), 1)),
	}
	if totalS := sumMS / 1000; totalS > 0 {
		s.QPS = float64(len(sorted)) / totalS
	}
	return s
}

// cmpNaNEqual orders floats ascending, treating NaN as equal to anything.
func cmpNaNEqual(a, b float64) int {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	return cmp.Compare(a, b)
}
