// Package stats scores retrieval quality and latency.
//
// It computes nearest-rank latency percentiles, queries-per-second and
// recall@k of an approximate top-k result against a brute-force exact
// baseline. Nothing here keeps state between benchmark invocations.
package stats
