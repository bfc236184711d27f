package dataset

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vsabench/sparse"
)

// SeedMix is the odd multiplier used to derive per-vector seeds. Changing it
// changes the content of every dataset for a given seed.
const SeedMix uint64 = 0x517cc1b727220a95

// minChunk is the smallest index range handed to one worker.
const minChunk = 16

// GenerateConfig describes a synthetic dataset.
type GenerateConfig struct {
	// Count is the number of vectors.
	Count uint64 `json:"count" yaml:"count"`
	// Dimension is the vector dimension.
	Dimension int `json:"dimension" yaml:"dimension"`
	// Seed is the master seed.
	Seed uint64 `json:"seed" yaml:"seed"`
	// Sparsity is the number of +1 (and of -1) coordinates per vector.
	Sparsity int `json:"sparsity" yaml:"sparsity"`
}

// DefaultGenerateConfig returns 10k vectors of dimension 10000 at ~2% density.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Count:     10_000,
		Dimension: 10_000,
		Seed:      42,
		Sparsity:  100,
	}
}

// Validate reports configurations that generation cannot honour.
func (c GenerateConfig) Validate() error {
	switch {
	case c.Dimension <= 0:
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, c.Dimension)
	case uint64(c.Dimension) > math.MaxUint32+1:
		return fmt.Errorf("%w: dimension %d exceeds u32 index space", ErrInvalidConfig, c.Dimension)
	case c.Sparsity < 0:
		return fmt.Errorf("%w: sparsity must not be negative, got %d", ErrInvalidConfig, c.Sparsity)
	case 2*c.Sparsity > c.Dimension:
		return fmt.Errorf("%w: 2*sparsity (%d) exceeds dimension (%d)", ErrInvalidConfig, 2*c.Sparsity, c.Dimension)
	}
	return nil
}

// Density returns the expected fraction of nonzero coordinates.
func (c GenerateConfig) Density() float64 {
	if c.Dimension == 0 {
		return 0
	}
	return float64(2*c.Sparsity) / float64(c.Dimension)
}

// Meta returns the header describing a dataset generated from c.
func (c GenerateConfig) Meta() Meta {
	return Meta{Count: c.Count, Dimension: uint64(c.Dimension), Seed: c.Seed}
}

// VectorSeed derives the generator seed for vector index.
func VectorSeed(master, index uint64) uint64 {
	return (master + index) * SeedMix
}

// GenerateVector returns vector index of the dataset described by the other
// arguments. It is a pure function of its inputs.
//
// 2*sparsity must not exceed dimension; violating that panics.
func GenerateVector(master, index uint64, dimension, sparsity int) sparse.Vec {
	g := newGenerator(dimension)
	return g.vector(master, index, sparsity)
}

// generator owns the permutation scratch so a worker can produce many
// vectors without reallocating it.
type generator struct {
	perm []uint32
}

func newGenerator(dimension int) *generator {
	return &generator{perm: make([]uint32, dimension)}
}

func (g *generator) vector(master, index uint64, sparsity int) sparse.Vec {
	if 2*sparsity > len(g.perm) {
		panic(fmt.Sprintf("dataset: 2*sparsity (%d) exceeds dimension (%d)", 2*sparsity, len(g.perm)))
	}

	rng := rand.New(rand.NewChaCha8(expandSeed(VectorSeed(master, index))))

	for i := range g.perm {
		g.perm[i] = uint32(i)
	}

	// Fisher-Yates, stopped once the prefix we keep is fixed.
	n := len(g.perm)
	take := 2 * sparsity
	for i := 0; i < take; i++ {
		j := i + rng.IntN(n-i)
		g.perm[i], g.perm[j] = g.perm[j], g.perm[i]
	}

	pos := slices.Clone(g.perm[:sparsity])
	neg := slices.Clone(g.perm[sparsity:take])
	slices.Sort(pos)
	slices.Sort(neg)
	return sparse.Vec{Pos: pos, Neg: neg}
}

// expandSeed stretches a 64-bit seed into a ChaCha8 key with splitmix64.
func expandSeed(seed uint64) [32]byte {
	var key [32]byte
	s := seed
	for i := 0; i < 4; i++ {
		s += 0x9e3779b97f4a7c15
		z := s
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		binary.LittleEndian.PutUint64(key[i*8:], z)
	}
	return key
}

// Generate materialises the whole dataset in memory.
func Generate(ctx context.Context, cfg GenerateConfig) ([]sparse.Vec, error) {
	return GenerateRange(ctx, cfg, 0, cfg.Count)
}

// GenerateRange returns vectors [start, end) in index order. Work is split
// into contiguous chunks, one generator per worker; each worker only writes
// its own slots of the result.
func GenerateRange(ctx context.Context, cfg GenerateConfig, start, end uint64) ([]sparse.Vec, error) {
	if end <= start {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := int(end - start)
	out := make([]sparse.Vec, n)

	workers := runtime.GOMAXPROCS(0)
	chunk := max((n+workers-1)/workers, minChunk)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gen := newGenerator(cfg.Dimension)
			for i := lo; i < hi; i++ {
				out[i] = gen.vector(cfg.Seed, start+uint64(i), cfg.Sparsity)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
