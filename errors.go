package vsabench

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBenchmark is returned when a session is asked for a
	// benchmark it does not have.
	ErrUnknownBenchmark = errors.New("unknown benchmark")

	// ErrNoBenchmarks is returned when a session runs without benchmarks.
	ErrNoBenchmarks = errors.New("no benchmarks selected")
)

// BenchmarkError reports which benchmark aborted a session.
//
// The original underlying error can be accessed via errors.Unwrap.
type BenchmarkError struct {
	Name  string
	cause error
}

func (e *BenchmarkError) Error() string {
	return fmt.Sprintf("benchmark %s: %v", e.Name, e.cause)
}

func (e *BenchmarkError) Unwrap() error { return e.cause }
