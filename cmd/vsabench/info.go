package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vsabench/blobstore"
	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/internal/hash"
)

func NewDatasetInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dataset-info FILE",
		Short: "Show metadata for a dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printDatasetInfo(cmd.OutOrStdout(), args[0])
		},
	}
}

func printDatasetInfo(out io.Writer, path string) error {
	r, err := dataset.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	meta := r.Meta()
	size, err := fileSize(path)
	if err != nil {
		return err
	}
	sum, err := dataset.Checksum(path)
	if err != nil {
		return err
	}

	p := printer()
	p.Fprintf(out, "Dataset: %s\n", path)
	p.Fprintf(out, "  Vectors: %d\n", meta.Count)
	p.Fprintf(out, "  Dimension: %d\n", meta.Dimension)
	p.Fprintf(out, "  Seed: %s\n", strconv.FormatUint(meta.Seed, 10))
	p.Fprintf(out, "  Compression: %s\n", r.Compression())

	// Density is estimated from the first vector.
	v, err := r.Next()
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		return err
	case meta.Dimension > 0:
		p.Fprintf(out, "  Density: ~%.2f%% (%d nonzero in vector 0)\n",
			float64(v.Nnz())/float64(meta.Dimension)*100, v.Nnz())
	}

	p.Fprintf(out, "  File size: %.2f MB\n", mb(size))
	p.Fprintf(out, "  CRC32C: %s\n", hash.CRC32CBase64(sum))
	return nil
}

func NewFetchDatasetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch-dataset URL",
		Short: "Download a dataset from object storage",
		Long: `Download a dataset from s3://bucket/key or minio://endpoint/bucket/key
into the output directory and verify its header.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("output")
			return runFetchDataset(cmd, a, args[0], dir)
		},
	}
	cmd.Flags().StringP("output", "o", ".", "Output directory")
	return cmd
}

func runFetchDataset(cmd *cobra.Command, a *app, raw, dir string) error {
	loc, err := blobstore.ParseURL(raw)
	if err != nil {
		return err
	}
	if loc.IsPrefix() {
		return fmt.Errorf("%w: %s names a prefix, not a dataset", blobstore.ErrInvalidURL, raw)
	}

	ctx := cmd.Context()
	store, key, err := a.store(ctx, loc)
	if err != nil {
		return err
	}

	dst := filepath.Join(dir, loc.Base())
	tr, err := blobstore.Download(ctx, store, key, dst)
	if err != nil {
		return err
	}
	a.logger.Info("dataset fetched", "location", loc.String(), "path", dst, "bytes", tr.Bytes)

	if _, err := dataset.ReadMeta(dst); err != nil {
		return fmt.Errorf("fetched %s is not a dataset: %w", dst, err)
	}
	return printDatasetInfo(cmd.OutOrStdout(), dst)
}
