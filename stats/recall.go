package stats

import (
	"context"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Scored is a corpus id with its relevance score (higher is better).
type Scored struct {
	ID    uint64
	Score float64
}

// ScoreFunc scores corpus item i against the current query.
type ScoreFunc func(i int) float64

// ExactTopK scores n corpus items in parallel and returns the ids of the k
// best, highest score first. ids maps a corpus position to its id. Sorting
// is stable, with NaN scores treated as equal to every other score, so ties
// keep corpus order.
func ExactTopK(ctx context.Context, n int, ids func(i int) uint64, score ScoreFunc, k int) ([]uint64, error) {
	if n == 0 || k <= 0 {
		return nil, nil
	}

	scored := make([]Scored, n)

	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				scored[i] = Scored{ID: ids(i), Score: score(i)}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(scored, func(a, b Scored) int {
		if math.IsNaN(a.Score) || math.IsNaN(b.Score) {
			return 0
		}
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	k = min(k, n)
	out := make([]uint64, k)
	for i := range out {
		out[i] = scored[i].ID
	}
	return out, nil
}

// Hits counts ids present in both result sets. Duplicates count once.
func Hits(approx, exact []uint64) int {
	truth := make(map[uint64]struct{}, len(exact))
	for _, id := range exact {
		truth[id] = struct{}{}
	}

	hits := 0
	for _, id := range approx {
		if _, ok := truth[id]; ok {
			hits++
			delete(truth, id)
		}
	}
	return hits
}

// RecallAtK returns hits/k, 0 when k is not positive.
func RecallAtK(hits, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hits) / float64(k)
}

// Recall aggregates recall@k over many queries: sum(hits) / (queries*k).
type Recall struct {
	K       int
	hits    int
	queries int
}

// Add scores one query and returns its hit count.
func (r *Recall) Add(approx, exact []uint64) int {
	h := Hits(approx, exact)
	r.hits += h
	r.queries++
	return h
}

// Queries returns the number of scored queries.
func (r *Recall) Queries() int { return r.queries }

// Hits returns the accumulated hit count.
func (r *Recall) Hits() int { return r.hits }

// Value returns the aggregate recall, 0 before any query was added.
func (r *Recall) Value() float64 {
	return RecallAtK(r.hits, r.queries*r.K)
}
