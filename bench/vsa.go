package bench

import (
	"context"

	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/report"
	"github.com/hupe1980/vsabench/sparse"
)

const vsaContext = "/bench/vsa"

// VSA measures the algebra on three fixed encoded vectors.
type VSA struct {
	Engine Engine
}

// Name implements the session benchmark contract.
func (s *VSA) Name() string { return "vsa" }

// Run measures bundle, bind, cosine and a three-way bundle.
func (s *VSA) Run(_ context.Context, cfg harness.Config) ([]report.Measurement, error) {
	e := s.Engine
	a := e.Encode([]byte("alpha"), vsaContext)
	b := e.Encode([]byte("beta"), vsaContext)
	c := e.Encode([]byte("gamma"), vsaContext)

	iters, warmup := cfg.Iters(), cfg.WarmupIters()
	extra := func() map[string]any { return map[string]any{"dim": e.Dimension()} }

	return []report.Measurement{
		report.FromMeasured("vsa.sparsevec.bundle", "ns/iter",
			harness.Measure(iters, warmup, func() sparse.Vec { return e.Bundle(a, b) }), extra()),
		report.FromMeasured("vsa.sparsevec.bind", "ns/iter",
			harness.Measure(iters, warmup, func() sparse.Vec { return e.Bind(a, b) }), extra()),
		report.FromMeasured("vsa.sparsevec.cosine", "ns/iter",
			harness.Measure(iters, warmup, func() float64 { return e.Cosine(a, b) }), extra()),
		report.FromMeasured("vsa.sparsevec.bundle_many_3", "ns/iter",
			harness.Measure(iters, warmup, func() sparse.Vec { return e.BundleN(a, b, c) }), extra()),
	}, nil
}
