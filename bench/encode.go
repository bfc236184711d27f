package bench

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/report"
	"github.com/hupe1980/vsabench/vsa"
)

const maxEncodeWarmup = 5

// Encode measures ingestion of files and directories into a codebook. One
// iteration is one full ingest of every input.
type Encode struct {
	Engine   Engine
	Ingester Ingester
	Inputs   []string
	// Compression is applied when the last codebook is persisted to
	// report its on-disk size.
	Compression dataset.Compression

	Logger *slog.Logger
}

// Name implements the session benchmark contract.
func (s *Encode) Name() string { return "encode" }

// Run ingests the inputs Pick(3, 10) times.
func (s *Encode) Run(ctx context.Context, cfg harness.Config) ([]report.Measurement, error) {
	if len(s.Inputs) == 0 {
		return nil, ErrNoInputs
	}
	ing := ingesterFor(s.Ingester, s.Engine)
	if ing == nil {
		return nil, ErrNoIngester
	}
	log := orDiscard(s.Logger).With("bench", s.Name())

	var raw uint64
	for _, in := range s.Inputs {
		n, err := treeSize(in)
		if err != nil {
			return nil, err
		}
		raw += n
	}

	iters := cfg.Pick(3, 10)
	warmup := min(cfg.WarmupIters(), maxEncodeWarmup)

	var last *vsa.Codebook
	m, err := harness.MeasureErr(iters, warmup, func() (*vsa.Codebook, error) {
		cb, err := ing.IngestPaths(ctx, s.Inputs...)
		last = cb
		return cb, err
	})
	if err != nil {
		return nil, err
	}

	sizes, err := s.codebookSizes(last, raw)
	if err != nil {
		return nil, err
	}

	log.Info("encode measured", "files", last.Files(), "chunks", last.Len(), "raw_bytes", raw)
	extra := map[string]any{
		"inputs":      s.Inputs,
		"files":       last.Files(),
		"chunks":      last.Len(),
		"compression": s.Compression.String(),
		"sizes":       sizes,
	}
	return []report.Measurement{
		report.FromMeasured("encode.ingest", "ns/iter", m, extra).WithBytes(raw * iters),
	}, nil
}

// codebookSizes persists cb as a dataset file and reports its size next to
// the raw input size.
func (s *Encode) codebookSizes(cb *vsa.Codebook, raw uint64) (map[string]any, error) {
	dir, err := os.MkdirTemp("", "vsabench-encode-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "codebook.embr"+s.Compression.Ext())
	gen := dataset.GenerateConfig{Dimension: s.Engine.Dimension()}
	if err := dataset.WriteDataset(path, cb.Vectors(), gen, dataset.WithCompression(s.Compression)); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var nnz uint64
	for _, v := range cb.Vectors() {
		nnz += uint64(v.Nnz())
	}
	ratio := 0.0
	if info.Size() > 0 {
		ratio = float64(raw) / float64(info.Size())
	}
	return map[string]any{
		"raw_bytes":       raw,
		"codebook_bytes":  info.Size(),
		"codebook_nnz":    nnz,
		"effective_ratio": ratio,
	}, nil
}

// treeSize sums the sizes of the regular files under path.
func treeSize(path string) (uint64, error) {
	var n uint64
	err := filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		n += uint64(info.Size())
		return nil
	})
	return n, err
}
