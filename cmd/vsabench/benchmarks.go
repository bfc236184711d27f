package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hupe1980/vsabench"
	"github.com/hupe1980/vsabench/bench"
	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/vsa"
)

func NewVSACmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vsa",
		Short: "Bundle, bind and cosine microbenchmarks",
		Long: `Measure the vector algebra on three fixed encoded vectors, or with
--dataset over consecutive pairs and triples streamed from a dataset file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("dataset")
			return a.run(cmd, a.vsaBench(path))
		},
	}
	cmd.Flags().String("dataset", "", "Dataset file to stream vectors from")
	return cmd
}

func (a *app) vsaBench(datasetPath string) vsabench.Benchmark {
	if datasetPath != "" {
		return &bench.DatasetVSA{Engine: a.engine(), Path: datasetPath, Logger: a.logger.Logger}
	}
	return &bench.VSA{Engine: a.engine()}
}

func NewRetrievalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retrieval",
		Short: "Approximate top-k QPS, latency and recall against brute force",
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyRetrievalFlags(cmd.Flags(), a)
			return a.run(cmd, a.retrievalBench())
		},
	}
	f := cmd.Flags()
	f.String("input-dir", "", "Directory to ingest as the corpus")
	f.String("dataset", "", "Dataset file to use as the corpus")
	f.Int("k", bench.DefaultK, "Results per query")
	f.Int("candidate-factor", bench.DefaultCandidateFactor, "Candidates gathered per result before reranking")
	f.Int("queries", 0, "Number of queries (default 100 quick, 1000 full)")
	f.Float64("target-qps", 0, "Pace queries at this rate (0 = unpaced)")
	return cmd
}

func applyRetrievalFlags(f *pflag.FlagSet, a *app) {
	r := &a.cfg.Retrieval
	setString(f, "input-dir", &r.InputDir)
	setString(f, "dataset", &r.Dataset)
	if f.Changed("k") {
		r.K, _ = f.GetInt("k")
	}
	if f.Changed("candidate-factor") {
		r.CandidateFactor, _ = f.GetInt("candidate-factor")
	}
	if f.Changed("queries") {
		r.Queries, _ = f.GetInt("queries")
	}
	if f.Changed("target-qps") {
		r.TargetQPS, _ = f.GetFloat64("target-qps")
	}
}

func (a *app) retrievalBench() *bench.Retrieval {
	r := a.cfg.Retrieval
	return &bench.Retrieval{
		Engine:          a.engine(),
		Corpus:          bench.Corpus{InputDir: r.InputDir, Dataset: r.Dataset},
		K:               r.K,
		CandidateFactor: r.CandidateFactor,
		Queries:         r.Queries,
		TargetQPS:       r.TargetQPS,
		Logger:          a.logger.Logger,
	}
}

func NewHierarchicalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchical",
		Short: "Bounded beam-search queries over a bundle hierarchy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyHierarchicalFlags(cmd.Flags(), a)
			return a.run(cmd, a.hierarchicalBench())
		},
	}
	b := vsa.DefaultQueryBounds()
	f := cmd.Flags()
	f.String("input-dir", "", "Directory to ingest as the corpus")
	f.String("dataset", "", "Dataset file to use as the corpus")
	f.Int("fanout", bench.DefaultFanout, "Children per hierarchy node")
	f.Int("queries", 0, "Number of queries (default 100 quick, 1000 full)")
	f.Int("k", b.K, "Results per query")
	f.Int("candidate-k", b.CandidateK, "Leaves reranked per query")
	f.Int("beam-width", b.BeamWidth, "Nodes kept per level")
	f.Int("max-depth", b.MaxDepth, "Levels descended below the root")
	f.Int("max-expansions", b.MaxExpansions, "Child nodes scored per query (0 = unlimited)")
	f.Int("max-open-nodes", b.MaxOpenNodes, "Scored children held before beam selection (0 = unlimited)")
	return cmd
}

func applyHierarchicalFlags(f *pflag.FlagSet, a *app) {
	h := &a.cfg.Hierarchical
	setString(f, "input-dir", &h.InputDir)
	setString(f, "dataset", &h.Dataset)
	for name, dst := range map[string]*int{
		"fanout":         &h.Fanout,
		"queries":        &h.Queries,
		"k":              &h.Bounds.K,
		"candidate-k":    &h.Bounds.CandidateK,
		"beam-width":     &h.Bounds.BeamWidth,
		"max-depth":      &h.Bounds.MaxDepth,
		"max-expansions": &h.Bounds.MaxExpansions,
		"max-open-nodes": &h.Bounds.MaxOpenNodes,
	} {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
}

func (a *app) hierarchicalBench() *bench.Hierarchical {
	h := a.cfg.Hierarchical
	return &bench.Hierarchical{
		Engine:  a.engine(),
		Corpus:  bench.Corpus{InputDir: h.InputDir, Dataset: h.Dataset},
		Fanout:  h.Fanout,
		Bounds:  h.Bounds,
		Queries: h.Queries,
		Logger:  a.logger.Logger,
	}
}

func NewIOCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "io",
		Short: "Dataset streaming write and read throughput",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.ioBench(cmd.Flags())
			if err != nil {
				return err
			}
			return a.run(cmd, s)
		},
	}
	f := cmd.Flags()
	f.Uint64P("count", "n", 0, "Vectors per file (default 10k quick, 100k full)")
	f.Int("dimension", 0, "Vector dimension (default from config)")
	f.Int("sparsity", 0, "Indices per sign (default dimension/100)")
	f.Int("batch-size", 0, "Vectors generated per batch")
	f.StringSlice("compress", []string{"none"}, "Compressions to measure (none,zstd,lz4)")
	f.String("dir", "", "Scratch directory (default: temporary)")
	return cmd
}

func (a *app) ioBench(f *pflag.FlagSet) (*bench.IO, error) {
	d := a.cfg.Dataset
	s := &bench.IO{
		Generate:  dataset.GenerateConfig{Dimension: d.Dimension, Sparsity: d.Sparsity, Seed: d.Seed},
		BatchSize: d.BatchSize,
		Logger:    a.logger.Logger,
	}
	if f.Changed("count") {
		s.Generate.Count, _ = f.GetUint64("count")
	}
	if f.Changed("dimension") {
		s.Generate.Dimension, _ = f.GetInt("dimension")
	}
	if f.Changed("sparsity") {
		s.Generate.Sparsity, _ = f.GetInt("sparsity")
	}
	if s.Generate.Sparsity == 0 {
		s.Generate.Sparsity = s.Generate.Dimension / 100
	}
	if f.Changed("batch-size") {
		s.BatchSize, _ = f.GetInt("batch-size")
	}
	s.Dir, _ = f.GetString("dir")

	names, _ := f.GetStringSlice("compress")
	for _, n := range names {
		c, err := dataset.ParseCompression(n)
		if err != nil {
			return nil, err
		}
		s.Compressions = append(s.Compressions, c)
	}
	return s, nil
}

func NewEncodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Ingest throughput of files and directories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.encodeBench(cmd.Flags())
			if err != nil {
				return err
			}
			return a.run(cmd, s)
		},
	}
	cmd.Flags().StringSliceP("input", "i", nil, "Input file or directory (repeatable)")
	cmd.Flags().String("codec", "none", "Compression for the persisted codebook (none|zstd|lz4)")
	return cmd
}

func (a *app) encodeBench(f *pflag.FlagSet) (*bench.Encode, error) {
	inputs, _ := f.GetStringSlice("input")
	codec, _ := f.GetString("codec")
	c, err := dataset.ParseCompression(codec)
	if err != nil {
		return nil, err
	}
	return &bench.Encode{
		Engine:      a.engine(),
		Inputs:      inputs,
		Compression: c,
		Logger:      a.logger.Logger,
	}, nil
}

func NewSuiteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Run every benchmark that has its inputs",
		Long: `Run vsa and io always, encode when --input is given, and retrieval and
hierarchical when --retrieval-input-dir or --dataset is given. The first
failing benchmark aborts the run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			benches, err := a.suite(cmd.Flags())
			if err != nil {
				return err
			}
			return a.run(cmd, benches...)
		},
	}
	f := cmd.Flags()
	f.StringSliceP("input", "i", nil, "Encode input file or directory (repeatable)")
	f.String("retrieval-input-dir", "", "Directory to ingest for retrieval benchmarks")
	f.String("dataset", "", "Dataset file for the vsa and retrieval benchmarks")
	f.String("codec", "none", "Compression for the persisted codebook (none|zstd|lz4)")
	f.StringSlice("compress", []string{"none"}, "Compressions for the io benchmark")
	f.StringSlice("only", nil, "Run only the named benchmarks")
	return cmd
}

func (a *app) suite(f *pflag.FlagSet) ([]vsabench.Benchmark, error) {
	ds, _ := f.GetString("dataset")
	dir, _ := f.GetString("retrieval-input-dir")

	benches := []vsabench.Benchmark{&bench.VSA{Engine: a.engine()}}
	if ds != "" {
		benches = append(benches, a.vsaBench(ds))
	}

	io, err := a.ioBench(f)
	if err != nil {
		return nil, err
	}
	benches = append(benches, io)

	if inputs, _ := f.GetStringSlice("input"); len(inputs) > 0 {
		enc, err := a.encodeBench(f)
		if err != nil {
			return nil, err
		}
		benches = append(benches, enc)
	}

	if dir != "" || ds != "" {
		a.cfg.Retrieval.InputDir, a.cfg.Retrieval.Dataset = dir, ds
		a.cfg.Hierarchical.InputDir, a.cfg.Hierarchical.Dataset = dir, ds
		benches = append(benches, a.retrievalBench(), a.hierarchicalBench())
	}

	a.only, _ = f.GetStringSlice("only")
	return benches, nil
}
