package harness

import (
	"time"
)

// Measured is the result of one measured benchmark invocation.
type Measured struct {
	Iters       uint64  `json:"iters"`
	WarmupIters uint64  `json:"warmup_iters"`
	TotalNS     uint64  `json:"total_ns"`
	NSPerIter   float64 `json:"ns_per_iter"`
}

func newMeasured(iters, warmup uint64, elapsed time.Duration) Measured {
	total := uint64(max(elapsed, 0))
	return Measured{
		Iters:       iters,
		WarmupIters: warmup,
		TotalNS:     total,
		NSPerIter:   float64(total) / float64(max(iters, 1)),
	}
}

// Total returns the measured span as a duration.
func (m Measured) Total() time.Duration { return time.Duration(m.TotalNS) }

// OpsPerSecond returns iterations per second, 0 for an empty span.
func (m Measured) OpsPerSecond() float64 {
	if m.TotalNS == 0 {
		return 0
	}
	return float64(m.Iters) / (float64(m.TotalNS) / 1e9)
}

// Measure runs fn warmup times, then iters times under the clock. Every
// result goes through Sink so the calls cannot be optimised away.
func Measure[T any](iters, warmup uint64, fn func() T) Measured {
	for range warmup {
		Sink(fn())
	}

	start := time.Now()
	for range iters {
		Sink(fn())
	}
	return newMeasured(iters, warmup, time.Since(start))
}

// MeasureErr is Measure for fallible operations. The first error aborts the
// measurement and is returned.
func MeasureErr[T any](iters, warmup uint64, fn func() (T, error)) (Measured, error) {
	for range warmup {
		v, err := fn()
		if err != nil {
			return Measured{}, err
		}
		Sink(v)
	}

	start := time.Now()
	for range iters {
		v, err := fn()
		if err != nil {
			return Measured{}, err
		}
		Sink(v)
	}
	return newMeasured(iters, warmup, time.Since(start)), nil
}

// Span times a manually driven loop, for passes whose iteration count is
// only known at the end (e.g. one pass over a dataset).
type Span struct {
	start time.Time
}

// Start begins a span.
func Start() Span { return Span{start: time.Now()} }

// Stop ends the span, attributing it to ops iterations with no warmup.
func (s Span) Stop(ops uint64) Measured {
	return newMeasured(ops, 0, time.Since(s.start))
}
