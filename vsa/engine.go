package vsa

import (
	"log/slog"

	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/internal/hash"
	"github.com/hupe1980/vsabench/sparse"
)

const (
	// DefaultDimension is the dimension of encoded vectors.
	DefaultDimension = 10_000
	// DefaultSparsity is the number of +1 (and of -1) coordinates per encoding.
	DefaultSparsity = DefaultDimension / 100
	// DefaultChunkSize is the ingestion chunk size in bytes.
	DefaultChunkSize = 4096
)

// Engine bundles the algebra with an encoder configuration.
type Engine struct {
	dimension int
	sparsity  int
	chunkSize int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDimension sets the encoding dimension.
func WithDimension(dim int) Option {
	return func(e *Engine) {
		e.dimension = dim
	}
}

// WithSparsity sets the per-sign nonzero count of encodings.
func WithSparsity(s int) Option {
	return func(e *Engine) {
		e.sparsity = s
	}
}

// WithChunkSize sets the ingestion chunk size.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// WithLogger sets the logger used during ingestion.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine with the given options applied over the defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		dimension: DefaultDimension,
		sparsity:  DefaultSparsity,
		chunkSize: DefaultChunkSize,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimension returns the encoding dimension.
func (e *Engine) Dimension() int { return e.dimension }

// Bundle implements the engine algebra; see the package function.
func (e *Engine) Bundle(a, b sparse.Vec) sparse.Vec { return Bundle(a, b) }

// BundleN implements the engine algebra; see the package function.
func (e *Engine) BundleN(vs ...sparse.Vec) sparse.Vec { return BundleN(vs...) }

// Bind implements the engine algebra; see the package function.
func (e *Engine) Bind(a, b sparse.Vec) sparse.Vec { return Bind(a, b) }

// Cosine implements the engine algebra; see the package function.
func (e *Engine) Cosine(a, b sparse.Vec) float64 { return Cosine(a, b) }

// Encode maps data under a logical path to a vector. Equal (data, path)
// pairs always encode to the same vector.
func (e *Engine) Encode(data []byte, path string) sparse.Vec {
	seed := hash.Seed64([]byte(path), data)
	return dataset.GenerateVector(seed, 0, e.dimension, e.sparsity)
}
