// Package harness implements the warmup-then-measure timing protocol.
//
// Measure runs an operation warmup times without timing it, then iters times
// under a single wall-clock span, and reports the mean cost per iteration.
// There is no outlier rejection or variance estimate: the numbers are meant
// to be cheap and comparable across machines, not statistically rigorous.
//
//	cfg := harness.Config{Profile: harness.Quick, Seed: 0}
//	m := harness.Measure(cfg.Iters(), cfg.WarmupIters(), func() float64 {
//	    return engine.Cosine(a, b)
//	})
//	fmt.Println(m.NSPerIter)
package harness
