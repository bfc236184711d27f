package benchmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vsabench/vsa"
)

// The benchmark corpus must be reproducible, otherwise runs are not comparable.
func TestCorpusDeterministic(t *testing.T) {
	a1 := corpus(t, 4)
	a2 := corpus(t, 4)
	require.Len(t, a1, 4)
	assert.Equal(t, a1, a2)
	for _, v := range a1 {
		assert.Equal(t, 2*sparsity, v.Nnz())
	}
	assert.InDelta(t, 1.0, vsa.Cosine(a1[0], a1[0]), 1e-12)
}
