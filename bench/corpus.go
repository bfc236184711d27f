package bench

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/stats"
	"github.com/hupe1980/vsabench/vsa"
)

// Corpus names where a retrieval suite gets its codebook from. A dataset
// takes precedence over a directory.
type Corpus struct {
	InputDir string
	Dataset  string
}

// Source describes the corpus for reports.
func (c Corpus) Source() string {
	if c.Dataset != "" {
		return c.Dataset
	}
	return c.InputDir
}

// Load builds the codebook. Directories are ingested through ing; dataset
// vectors are used as chunks directly.
func (c Corpus) Load(ctx context.Context, ing Ingester, log *slog.Logger) (*vsa.Codebook, error) {
	switch {
	case c.Dataset != "":
		meta, vecs, err := dataset.Load(c.Dataset)
		if err != nil {
			return nil, err
		}
		log.Debug("corpus loaded from dataset", "path", c.Dataset, "count", meta.Count, "dimension", meta.Dimension)
		return vsa.NewCodebook(filepath.Base(c.Dataset), vecs), nil
	case c.InputDir != "":
		if ing == nil {
			return nil, ErrNoIngester
		}
		cb, err := ing.IngestDir(ctx, c.InputDir)
		if err != nil {
			return nil, err
		}
		log.Debug("corpus ingested", "dir", c.InputDir, "files", cb.Files(), "chunks", cb.Len(), "bytes", cb.Bytes())
		return cb, nil
	default:
		return nil, ErrNoCorpus
	}
}

// queryCount resolves the number of queries: the explicit value when
// positive, otherwise 100 (quick) or 1000 (full), clamped to [1, chunks].
func queryCount(explicit, chunks int, cfg harness.Config) int {
	n := explicit
	if n <= 0 {
		n = int(cfg.Pick(100, 1000))
	}
	return min(max(n, 1), chunks)
}

// exactTopK ranks the whole codebook by cosine against q.
func exactTopK(ctx context.Context, e Engine, cb *vsa.Codebook, q, k int) ([]uint64, error) {
	query := cb.Vector(q)
	return stats.ExactTopK(ctx, cb.Len(), cb.ID, func(j int) float64 {
		return e.Cosine(query, cb.Vector(j))
	}, k)
}
