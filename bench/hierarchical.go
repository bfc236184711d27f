package bench

import (
	"cmp"
	"context"
	"log/slog"
	"time"

	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/report"
	"github.com/hupe1980/vsabench/sparse"
	"github.com/hupe1980/vsabench/stats"
	"github.com/hupe1980/vsabench/vsa"
)

// DefaultFanout is the hierarchy branching factor used when none is set.
const DefaultFanout = 16

// queryStatser is implemented by hierarchies that report per-query work.
type queryStatser interface {
	QueryWithStats(q sparse.Vec, bounds vsa.QueryBounds) ([]vsa.Hit, vsa.QueryStats)
}

// Hierarchical measures bounded beam-search queries over a bundle tree and
// their recall against an exact cosine scan.
type Hierarchical struct {
	Engine   Engine
	Ingester Ingester
	Corpus   Corpus

	// Build constructs the tree. Nil uses vsa.BuildHierarchy with Fanout.
	Build  func(ctx context.Context, cb *vsa.Codebook) (HierarchicalIndex, error)
	Fanout int

	Bounds  vsa.QueryBounds
	Queries int

	Logger *slog.Logger
}

// Name implements the session benchmark contract.
func (s *Hierarchical) Name() string { return "hierarchical" }

func (s *Hierarchical) build(ctx context.Context, cb *vsa.Codebook) (HierarchicalIndex, error) {
	if s.Build != nil {
		return s.Build(ctx, cb)
	}
	return vsa.BuildHierarchy(ctx, cb, cmp.Or(s.Fanout, DefaultFanout))
}

// Run reports two measurements: the tree build (one iteration) and one
// measured pass over all queries.
func (s *Hierarchical) Run(ctx context.Context, cfg harness.Config) ([]report.Measurement, error) {
	log := orDiscard(s.Logger).With("bench", s.Name())

	cb, err := s.Corpus.Load(ctx, ingesterFor(s.Ingester, s.Engine), log)
	if err != nil {
		return nil, err
	}
	if cb.Len() == 0 {
		return nil, vsa.ErrEmptyCodebook
	}

	span := harness.Start()
	h, err := s.build(ctx, cb)
	if err != nil {
		return nil, err
	}
	built := span.Stop(1)

	bounds := s.Bounds
	if bounds == (vsa.QueryBounds{}) {
		bounds = vsa.DefaultQueryBounds()
	}
	bounds.K = min(max(bounds.K, 1), cb.Len())
	bounds.CandidateK = min(max(bounds.CandidateK, bounds.K), cb.Len())
	queries := queryCount(s.Queries, cb.Len(), cfg)

	warmup := min(cfg.WarmupIters(), maxWarmup)
	for i := range warmup {
		harness.Sink(h.Query(cb.Vector(int(i)%queries), bounds))
	}

	withStats, _ := h.(queryStatser)
	var expansions, depth, candidates int

	lat := stats.NewLatencies(queries)
	results := make([][]vsa.Hit, queries)
	var total time.Duration
	for i := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if withStats != nil {
			var st vsa.QueryStats
			results[i], st = withStats.QueryWithStats(cb.Vector(i), bounds)
			expansions += st.Expansions
			depth += st.Depth
			candidates += st.Candidates
		} else {
			results[i] = h.Query(cb.Vector(i), bounds)
		}
		d := time.Since(start)
		lat.Add(d)
		total += d
	}

	recall := stats.Recall{K: bounds.K}
	for i, hits := range results {
		exact, err := exactTopK(ctx, s.Engine, cb, i, bounds.K)
		if err != nil {
			return nil, err
		}
		recall.Add(hitIDs(hits), exact)
	}

	sum := lat.Summary()
	extra := map[string]any{
		"corpus":      s.Corpus.Source(),
		"chunks":      cb.Len(),
		"queries":     queries,
		"k":           bounds.K,
		"candidate_k": bounds.CandidateK,
		"bounds":      bounds,
		"qps":         sum.QPS,
		"latency_ms": map[string]any{
			"p50":  sum.P50,
			"p95":  sum.P95,
			"p99":  sum.P99,
			"mean": sum.Mean,
		},
		"recall_at_k": recall.Value(),
	}
	if withStats != nil {
		n := float64(queries)
		extra["mean_expansions"] = float64(expansions) / n
		extra["mean_depth"] = float64(depth) / n
		extra["mean_candidates"] = float64(candidates) / n
	}

	buildExtra := map[string]any{"chunks": cb.Len()}
	if t, ok := h.(*vsa.Hierarchy); ok {
		buildExtra["fanout"] = cmp.Or(s.Fanout, DefaultFanout)
		buildExtra["depth"] = t.Depth()
		buildExtra["nodes"] = t.Nodes()
	}

	log.Info("hierarchical measured", "qps", sum.QPS, "recall_at_k", recall.Value())
	return []report.Measurement{
		report.FromMeasured("hierarchical.build", "ns/iter", built, buildExtra),
		report.FromMeasured("hierarchical.query_codebook", "ns/iter", harness.Measured{
			Iters:       1,
			WarmupIters: warmup,
			TotalNS:     uint64(total),
			NSPerIter:   float64(total),
		}, extra),
	}, nil
}
