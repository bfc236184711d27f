package bench

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/report"
)

// IO measures streaming dataset write and full-pass read throughput, once
// per compression. bytes_processed counts uncompressed dataset bytes over
// all measured iterations.
type IO struct {
	// Generate describes the dataset. A zero Count picks 10k (quick) or
	// 100k (full) vectors; other zero fields take the generator defaults.
	Generate  dataset.GenerateConfig
	BatchSize int
	// Compressions defaults to none only.
	Compressions []dataset.Compression
	// Dir holds the scratch files. Empty uses a temporary directory that
	// is removed afterwards.
	Dir string

	Logger *slog.Logger
}

// Name implements the session benchmark contract.
func (s *IO) Name() string { return "io" }

func (s *IO) generateConfig(cfg harness.Config) dataset.GenerateConfig {
	def := dataset.DefaultGenerateConfig()
	g := s.Generate
	if g.Count == 0 {
		g.Count = cfg.Pick(10_000, 100_000)
	}
	if g.Dimension == 0 {
		g.Dimension = def.Dimension
	}
	if g.Sparsity == 0 {
		g.Sparsity = def.Sparsity
	}
	if g.Seed == 0 {
		g.Seed = cfg.Seed
	}
	return g
}

// Run writes and reads the dataset Pick(3, 10) times per compression after
// one warmup pass each.
func (s *IO) Run(ctx context.Context, cfg harness.Config) (_ []report.Measurement, err error) {
	log := orDiscard(s.Logger).With("bench", s.Name())

	dir := s.Dir
	if dir == "" {
		dir, err = os.MkdirTemp("", "vsabench-io-")
		if err != nil {
			return nil, err
		}
		defer func() {
			if rerr := os.RemoveAll(dir); rerr != nil && err == nil {
				err = rerr
			}
		}()
	}

	g := s.generateConfig(cfg)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	batch := s.BatchSize
	if batch <= 0 {
		batch = dataset.DefaultBatchSize
	}
	comps := s.Compressions
	if len(comps) == 0 {
		comps = []dataset.Compression{dataset.CompressionNone}
	}

	iters := cfg.Pick(3, 10)
	const warmup = 1
	raw := dataset.ExpectedFileSize(g.Count, g.Sparsity)

	var out []report.Measurement
	for _, c := range comps {
		path := filepath.Join(dir, dataset.FileName(g.Count, uint64(g.Dimension), g.Seed)+c.Ext())
		suffix := ""
		if c != dataset.CompressionNone {
			suffix = "." + c.String()
		}

		wm, err := harness.MeasureErr(iters, warmup, func() (struct{}, error) {
			return struct{}{}, dataset.WriteDatasetStreaming(ctx, path, g, batch,
				dataset.WithCompression(c), dataset.WithLogger(log))
		})
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		extra := func() map[string]any {
			return map[string]any{
				"count":       g.Count,
				"dimension":   g.Dimension,
				"sparsity":    g.Sparsity,
				"compression": c.String(),
				"batch_size":  batch,
				"raw_bytes":   raw,
				"file_bytes":  info.Size(),
			}
		}

		rm, err := harness.MeasureErr(iters, warmup, func() (uint64, error) {
			return readAll(ctx, path)
		})
		if err != nil {
			return nil, err
		}

		log.Info("io measured", "compression", c, "file_bytes", info.Size(),
			"write_ns", wm.NSPerIter, "read_ns", rm.NSPerIter)
		out = append(out,
			report.FromMeasured("io.dataset.write_streaming"+suffix, "ns/iter", wm, extra()).WithBytes(raw*iters),
			report.FromMeasured("io.dataset.read"+suffix, "ns/iter", rm, extra()).WithBytes(raw*iters),
		)
	}
	return out, nil
}

// readAll streams every vector of the dataset at path and returns the
// number of indices seen.
func readAll(ctx context.Context, path string) (uint64, error) {
	r, err := dataset.Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var nnz uint64
	for {
		if r.Position()%dataset.DefaultBatchSize == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		v, err := r.Next()
		if err == io.EOF {
			return nnz, nil
		}
		if err != nil {
			return 0, err
		}
		nnz += uint64(v.Nnz())
	}
}
