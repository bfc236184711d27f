package bench

import (
	"context"
	"log/slog"

	"github.com/hupe1980/vsabench/sparse"
	"github.com/hupe1980/vsabench/vsa"
)

// Engine is the vector algebra under test.
type Engine interface {
	Bundle(a, b sparse.Vec) sparse.Vec
	BundleN(vs ...sparse.Vec) sparse.Vec
	Bind(a, b sparse.Vec) sparse.Vec
	Cosine(a, b sparse.Vec) float64
	Encode(data []byte, path string) sparse.Vec
	Dimension() int
}

// Index answers approximate top-k queries: candidateK candidates are
// gathered and reranked, k are returned.
type Index interface {
	Search(q sparse.Vec, candidateK, k int) []vsa.Hit
}

// HierarchicalIndex answers bounded beam-search queries.
type HierarchicalIndex interface {
	Query(q sparse.Vec, bounds vsa.QueryBounds) []vsa.Hit
}

// Ingester turns files into a codebook of encoded chunks.
type Ingester interface {
	IngestDir(ctx context.Context, dir string) (*vsa.Codebook, error)
	IngestPaths(ctx context.Context, paths ...string) (*vsa.Codebook, error)
}

var (
	_ Engine            = (*vsa.Engine)(nil)
	_ Ingester          = (*vsa.Engine)(nil)
	_ Index             = (*vsa.InvertedIndex)(nil)
	_ HierarchicalIndex = (*vsa.Hierarchy)(nil)
)

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

func hitIDs(hits []vsa.Hit) []uint64 {
	ids := make([]uint64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

// ingesterFor returns ing, or e when it can ingest itself.
func ingesterFor(ing Ingester, e Engine) Ingester {
	if ing != nil {
		return ing
	}
	if i, ok := e.(Ingester); ok {
		return i
	}
	return nil
}
