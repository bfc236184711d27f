// Package dataset generates, stores and streams deterministic sparse ternary
// vector datasets.
//
// # Binary Format
//
// All integers are little-endian.
//
//	Header (68 bytes):
//	  magic      [8]u8   = "EMBR_DST"
//	  version    u32     = 1
//	  count      u64
//	  dimension  u64
//	  seed       u64
//	  reserved   [32]u8  = zero
//
//	Record (repeated count times):
//	  pos_len    u32
//	  pos        [pos_len]u32   ascending, deduplicated
//	  neg_len    u32
//	  neg        [neg_len]u32   ascending, deduplicated
//
// Files may optionally be wrapped in a zstd or lz4 frame; Open detects the
// frame and decodes transparently, so the logical byte stream is identical.
//
// # Determinism
//
// Vector i of a dataset depends only on (seed, i, dimension, sparsity). The
// streaming writer generates each batch in parallel and writes it in index
// order, so files are byte-identical regardless of batch size or GOMAXPROCS.
//
//	cfg := dataset.DefaultGenerateConfig()
//	err := dataset.WriteDatasetStreaming(ctx, "vecs.embr", cfg, 4096)
//
//	r, _ := dataset.Open("vecs.embr")
//	defer r.Close()
//	for v, err := range r.All() { ... }
package dataset
