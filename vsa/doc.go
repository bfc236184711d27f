// Package vsa is a small reference engine for sparse ternary
// vector-symbolic architectures.
//
// It provides the algebra (Bundle, Bind, Dot, Cosine), deterministic
// content encoding, a roaring-bitmap inverted index for approximate
// top-k retrieval, directory ingestion into a chunk Codebook and a
// Hierarchy of bundled nodes queried by beam search.
//
// The benchmark suites in package bench only depend on interfaces, so this
// engine can be swapped for another implementation.
//
//	eng := vsa.New()
//	cb, err := eng.IngestDir(ctx, "./corpus")
//	if err != nil {
//		return err
//	}
//	idx := cb.Index()
//	hits := idx.Search(cb.Vector(0), 100, 10)
package vsa
