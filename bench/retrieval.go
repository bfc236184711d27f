package bench

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/report"
	"github.com/hupe1980/vsabench/stats"
	"github.com/hupe1980/vsabench/vsa"
)

const (
	// DefaultK is the retrieval depth used when none is configured.
	DefaultK = 10
	// DefaultCandidateFactor multiplies k into the candidate budget.
	DefaultCandidateFactor = 10

	minCandidateK = 50
	maxWarmup     = 10
)

// Retrieval measures approximate top-k search over a codebook and its
// recall against an exact cosine scan. The first Queries codebook vectors
// are used as queries.
type Retrieval struct {
	Engine   Engine
	Ingester Ingester
	Corpus   Corpus

	// BuildIndex indexes the codebook. Nil uses the roaring inverted index.
	BuildIndex func(cb *vsa.Codebook) Index

	K               int
	CandidateFactor int
	// Queries overrides the profile default when positive.
	Queries int
	// TargetQPS paces queries open-loop when positive. Waiting is not
	// part of the measured latency.
	TargetQPS float64

	Logger *slog.Logger
}

// Name implements the session benchmark contract.
func (s *Retrieval) Name() string { return "retrieval" }

// searchPlan holds the resolved k, candidate budget and query count.
type searchPlan struct {
	k, candidateK, queries int
}

func planSearch(k, factor, explicitQueries, chunks int, cfg harness.Config) searchPlan {
	if k <= 0 {
		k = DefaultK
	}
	if factor <= 0 {
		factor = DefaultCandidateFactor
	}
	k = min(max(k, 1), chunks)
	return searchPlan{
		k:          k,
		candidateK: min(max(k*factor, minCandidateK), chunks),
		queries:    queryCount(explicitQueries, chunks, cfg),
	}
}

// Run ingests the corpus, warms up, then issues every query once under the
// clock. The measurement counts one iteration covering all queries.
func (s *Retrieval) Run(ctx context.Context, cfg harness.Config) ([]report.Measurement, error) {
	log := orDiscard(s.Logger).With("bench", s.Name())

	cb, err := s.Corpus.Load(ctx, ingesterFor(s.Ingester, s.Engine), log)
	if err != nil {
		return nil, err
	}
	if cb.Len() == 0 {
		return nil, vsa.ErrEmptyCodebook
	}

	var idx Index
	if s.BuildIndex != nil {
		idx = s.BuildIndex(cb)
	} else {
		idx = cb.Index()
	}

	p := planSearch(s.K, s.CandidateFactor, s.Queries, cb.Len(), cfg)
	log.Info("retrieval plan", "chunks", cb.Len(), "queries", p.queries, "k", p.k, "candidate_k", p.candidateK)

	warmup := min(cfg.WarmupIters(), maxWarmup)
	for i := range warmup {
		harness.Sink(idx.Search(cb.Vector(int(i)%p.queries), p.candidateK, p.k))
	}

	var limiter *rate.Limiter
	if s.TargetQPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.TargetQPS), 1)
	}

	lat := stats.NewLatencies(p.queries)
	results := make([][]vsa.Hit, p.queries)
	var total time.Duration
	for i := range p.queries {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		results[i] = idx.Search(cb.Vector(i), p.candidateK, p.k)
		d := time.Since(start)

		lat.Add(d)
		total += d
	}

	recall := stats.Recall{K: p.k}
	for i, hits := range results {
		exact, err := exactTopK(ctx, s.Engine, cb, i, p.k)
		if err != nil {
			return nil, err
		}
		recall.Add(hitIDs(hits), exact)
	}

	sum := lat.Summary()
	m := harness.Measured{
		Iters:       1,
		WarmupIters: warmup,
		TotalNS:     uint64(total),
		NSPerIter:   float64(total),
	}
	extra := map[string]any{
		"corpus":      s.Corpus.Source(),
		"chunks":      cb.Len(),
		"queries":     p.queries,
		"k":           p.k,
		"candidate_k": p.candidateK,
		"qps":         sum.QPS,
		"latency_ms": map[string]any{
			"p50":  sum.P50,
			"p95":  sum.P95,
			"p99":  sum.P99,
			"mean": sum.Mean,
		},
		"recall_at_k": recall.Value(),
	}
	if s.TargetQPS > 0 {
		extra["target_qps"] = s.TargetQPS
	}

	log.Info("retrieval measured", "qps", sum.QPS, "p99_ms", sum.P99, "recall_at_k", recall.Value())
	return []report.Measurement{
		report.FromMeasured("retrieval.query_codebook_with_index", "ns/iter", m, extra),
	}, nil
}
