// Package vsabench is a benchmark harness for sparse ternary vector
// symbolic architectures.
//
// A Session runs benchmarks (see package bench) under one measurement
// profile and seed and collects their results into a report:
//
//	eng := vsa.New()
//	sess := vsabench.NewSession(harness.Config{Profile: harness.Quick, Seed: 42},
//		vsabench.WithLogger(vsabench.NewTextLogger(slog.LevelInfo)))
//	sess.Add(&bench.VSA{Engine: eng}, &bench.IO{})
//	rep, err := sess.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Write(os.Stdout, rep)
//
// # Datasets
//
// Package dataset generates deterministic sparse ternary datasets and
// reads and writes them in the EMBR_DST binary format:
//
//	cfg := dataset.GenerateConfig{Count: 10_000, Dimension: 10_000, Seed: 42, Sparsity: 100}
//	err := dataset.WriteDatasetStreaming(ctx, "sparsevec_10k_10000_seed42.embr", cfg, dataset.DefaultBatchSize)
//
// Vector i of a dataset is a pure function of (seed, i, dimension,
// sparsity), so any batch size or worker count produces the same bytes.
//
// # Reports
//
// Reports are JSON documents with a run header (profile, seed, host,
// revision) and one entry per measurement. They can also be exported as a
// Prometheus textfile, see report.WritePrometheus.
//
// # Object storage
//
// Generated datasets can be uploaded to and fetched from S3 or MinIO
// through package blobstore and its s3 and minio subpackages.
package vsabench
