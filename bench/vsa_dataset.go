package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/report"
	"github.com/hupe1980/vsabench/sparse"
)

// quickDatasetOps caps the pairs (or triples) processed under the quick profile.
const quickDatasetOps = 10_000

// DatasetVSA measures the algebra over vectors streamed from a dataset
// file: consecutive pairs for binary ops, consecutive triples for the
// three-way bundle. Each op is one pass from the start of the file, and
// reading is part of the timed region.
type DatasetVSA struct {
	Engine Engine
	Path   string
	Logger *slog.Logger
}

// Name implements the session benchmark contract.
func (s *DatasetVSA) Name() string { return "vsa_dataset" }

func datasetOps(cfg harness.Config, available uint64) uint64 {
	return cfg.Pick(min(available, quickDatasetOps), available)
}

// Run streams the dataset once per operation.
func (s *DatasetVSA) Run(ctx context.Context, cfg harness.Config) ([]report.Measurement, error) {
	r, err := dataset.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	meta := r.Meta()
	pairs := datasetOps(cfg, sub(meta.Count, 1)/2)
	triples := datasetOps(cfg, sub(meta.Count, 2)/3)
	log := orDiscard(s.Logger).With("dataset", s.Path)

	type op struct {
		name  string
		arity int
		ops   uint64
		run   func(vs []sparse.Vec)
	}
	e := s.Engine
	ops := []op{
		{"vsa_dataset.sparsevec.bundle", 2, pairs, func(vs []sparse.Vec) { harness.Sink(e.Bundle(vs[0], vs[1])) }},
		{"vsa_dataset.sparsevec.bind", 2, pairs, func(vs []sparse.Vec) { harness.Sink(e.Bind(vs[0], vs[1])) }},
		{"vsa_dataset.sparsevec.cosine", 2, pairs, func(vs []sparse.Vec) { harness.Sink(e.Cosine(vs[0], vs[1])) }},
		{"vsa_dataset.sparsevec.bundle_many_3", 3, triples, func(vs []sparse.Vec) { harness.Sink(e.BundleN(vs...)) }},
	}

	var out []report.Measurement
	for _, o := range ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.Reset(); err != nil {
			return nil, err
		}

		buf := make([]sparse.Vec, o.arity)
		span := harness.Start()
		for i := uint64(0); i < o.ops; i++ {
			for j := range buf {
				v, err := r.Next()
				if err == io.EOF {
					return nil, fmt.Errorf("%s: dataset ended after %d vectors: %w", o.name, r.Position(), io.ErrUnexpectedEOF)
				}
				if err != nil {
					return nil, err
				}
				buf[j] = v
			}
			o.run(buf)
		}
		m := span.Stop(o.ops)

		extra := map[string]any{
			"dim":       meta.Dimension,
			"dataset":   s.Path,
			"vectors":   meta.Count,
			"ops":       o.ops,
			"ops_per_s": opsPerSecond(o.ops, m.Total()),
		}
		if o.arity == 3 {
			extra["n"] = 3
		}
		log.Debug("dataset op measured", "name", o.name, "ops", o.ops, "ns_per_op", m.NSPerIter)
		out = append(out, report.FromMeasured(o.name, "ns/op", m, extra))
	}
	return out, nil
}

func sub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func opsPerSecond(ops uint64, d time.Duration) float64 {
	return float64(ops) / max(d.Seconds(), 1e-12)
}
