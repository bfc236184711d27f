package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/sparse"
	"github.com/hupe1980/vsabench/vsa"
)

const (
	dim      = 10_000
	sparsity = 100
)

func corpus(tb testing.TB, n int) []sparse.Vec {
	tb.Helper()
	vecs, err := dataset.Generate(context.Background(), dataset.GenerateConfig{
		Count: uint64(n), Dimension: dim, Seed: 42, Sparsity: sparsity,
	})
	if err != nil {
		tb.Fatal(err)
	}
	return vecs
}

func BenchmarkBundle(b *testing.B) {
	vs := corpus(b, 2)
	b.ReportAllocs()
	for b.Loop() {
		_ = vsa.Bundle(vs[0], vs[1])
	}
}

func BenchmarkBundleN(b *testing.B) {
	for _, n := range []int{3, 8, 32} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			vs := corpus(b, n)
			b.ReportAllocs()
			for b.Loop() {
				_ = vsa.BundleN(vs...)
			}
		})
	}
}

func BenchmarkBind(b *testing.B) {
	vs := corpus(b, 2)
	b.ReportAllocs()
	for b.Loop() {
		_ = vsa.Bind(vs[0], vs[1])
	}
}

func BenchmarkCosine(b *testing.B) {
	vs := corpus(b, 2)
	b.ReportAllocs()
	for b.Loop() {
		_ = vsa.Cosine(vs[0], vs[1])
	}
}

func BenchmarkInvertedIndexSearch(b *testing.B) {
	for _, n := range []int{1_000, 10_000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			vs := corpus(b, n)
			idx := vsa.NewCodebook("bench", vs).Index()
			b.ReportAllocs()
			i := 0
			for b.Loop() {
				_ = idx.Search(vs[i%n], 100, 10)
				i++
			}
		})
	}
}

func BenchmarkHierarchyQuery(b *testing.B) {
	vs := corpus(b, 4_096)
	h, err := vsa.BuildHierarchy(context.Background(), vsa.NewCodebook("bench", vs), 16)
	if err != nil {
		b.Fatal(err)
	}
	bounds := vsa.DefaultQueryBounds()
	b.ReportAllocs()
	i := 0
	for b.Loop() {
		_ = h.Query(vs[i%len(vs)], bounds)
		i++
	}
}

func BenchmarkEncode(b *testing.B) {
	eng := vsa.New()
	chunk := make([]byte, vsa.DefaultChunkSize)
	for i := range chunk {
		chunk[i] = byte(i)
	}
	b.SetBytes(int64(len(chunk)))
	b.ReportAllocs()
	for b.Loop() {
		_ = eng.Encode(chunk, "bench/chunk")
	}
}
