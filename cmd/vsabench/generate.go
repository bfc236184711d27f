package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/hupe1980/vsabench/blobstore"
	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/internal/hash"
)

func NewGenerateDatasetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-dataset",
		Short: "Generate a deterministic sparse ternary dataset",
		Long: `Generate a dataset of sparse ternary vectors and stream it to
DIR/sparsevec_<count>_<dimension>_seed<seed>.embr. The same seed, count,
dimension and sparsity always produce byte-identical files.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerateDataset(cmd, a)
		},
	}

	cmd.Flags().Uint64P("count", "n", 10_000, "Number of vectors")
	cmd.Flags().StringP("output", "o", "", "Output directory")
	cmd.Flags().Uint64("seed", 42, "Dataset seed")
	cmd.Flags().Int("dimension", 10_000, "Vector dimension")
	cmd.Flags().Int("sparsity", 0, "Indices per sign (default dimension/100)")
	cmd.Flags().Int("batch-size", dataset.DefaultBatchSize, "Vectors generated per batch")
	cmd.Flags().String("compress", "none", "Output compression (none|zstd|lz4)")
	cmd.Flags().String("upload", "", "Upload the file to s3://bucket/prefix/ or minio://endpoint/bucket/prefix/")
	return cmd
}

func applyDatasetFlags(cmd *cobra.Command, a *app) {
	d := &a.cfg.Dataset
	f := cmd.Flags()
	if f.Changed("count") {
		d.Count, _ = f.GetUint64("count")
	}
	if f.Changed("seed") {
		d.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("dimension") {
		d.Dimension, _ = f.GetInt("dimension")
	}
	if f.Changed("sparsity") {
		d.Sparsity, _ = f.GetInt("sparsity")
	}
	if f.Changed("batch-size") {
		d.BatchSize, _ = f.GetInt("batch-size")
	}
	setString(f, "compress", &d.Compression)
	setString(f, "output", &d.Output)
	setString(f, "upload", &d.Upload)
}

func runGenerateDataset(cmd *cobra.Command, a *app) error {
	applyDatasetFlags(cmd, a)
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	d := a.cfg.Dataset
	if d.Output == "" {
		return fmt.Errorf("--output is required")
	}
	comp, err := dataset.ParseCompression(d.Compression)
	if err != nil {
		return err
	}
	gen := a.cfg.GenerateConfig()

	ctx := cmd.Context()
	if err := os.MkdirAll(d.Output, 0o755); err != nil {
		return err
	}
	name := dataset.FileName(gen.Count, uint64(gen.Dimension), gen.Seed) + comp.Ext()
	path := filepath.Join(d.Output, name)

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("%s is being generated by another process", path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	p := printer()
	out := cmd.ErrOrStderr()
	p.Fprintf(out, "Generating %d vectors (dim=%d, sparsity=%d, seed=%d)...\n",
		gen.Count, gen.Dimension, gen.Sparsity, gen.Seed)

	log := a.logger.WithCount(gen.Count).WithDimension(gen.Dimension)
	tmp := path + ".tmp"
	start := time.Now()
	err = dataset.WriteDatasetStreaming(ctx, tmp, gen, d.BatchSize,
		dataset.WithCompression(comp),
		dataset.WithLogger(log.Logger),
		dataset.WithProgress(func(written uint64) { log.LogBatch(ctx, written, gen.Count) }),
	)
	if err == nil {
		err = os.Rename(tmp, path)
	}
	elapsed := time.Since(start)
	if err != nil {
		_ = os.Remove(tmp)
		log.LogGenerate(ctx, path, gen.Count, 0, elapsed, err)
		return err
	}

	size, err := fileSize(path)
	if err != nil {
		return err
	}
	log.LogGenerate(ctx, path, gen.Count, size, elapsed, nil)

	secs := max(elapsed.Seconds(), 1e-9)
	p.Fprintf(out, "Wrote %.2f MB in %.2fs (%.1f MB/s, %.0f vec/s)\n",
		mb(size), elapsed.Seconds(), mb(size)/secs, float64(gen.Count)/secs)
	p.Fprintf(out, "\nDataset saved: %s\n", path)
	p.Fprintf(out, "  Vectors: %d\n", gen.Count)
	p.Fprintf(out, "  Dimension: %d\n", gen.Dimension)
	p.Fprintf(out, "  Sparsity: %d per sign (~%.1f%% density)\n", gen.Sparsity, gen.Density()*100)
	p.Fprintf(out, "  Seed: %s\n", strconv.FormatUint(gen.Seed, 10))
	p.Fprintf(out, "  Compression: %s\n", comp)
	p.Fprintf(out, "  File size: %.2f MB\n", mb(size))

	if d.Upload == "" {
		return nil
	}
	loc, err := blobstore.ParseURL(d.Upload)
	if err != nil {
		return err
	}
	if loc.IsPrefix() {
		loc = loc.Join(name)
	}
	store, key, err := a.store(ctx, loc)
	if err != nil {
		return err
	}
	tr, err := blobstore.Upload(ctx, store, key, path)
	a.logger.LogUpload(ctx, loc.String(), tr.Bytes, err)
	if err != nil {
		return err
	}
	p.Fprintf(out, "Uploaded %s (%d bytes, crc32c %s)\n", loc, tr.Bytes, hash.CRC32CBase64(tr.CRC32C))
	return nil
}
