package harness

import (
	"runtime"
	"sync/atomic"
)

var sunk atomic.Uint64

// Sink consumes v so the compiler cannot prove the computation producing it
// is dead. It is cheap enough to call once per measured iteration.
func Sink[T any](v T) {
	runtime.KeepAlive(v)
	sunk.Add(1)
}

// Sunk returns how many values have passed through Sink. It gives Sink an
// observable effect.
func Sunk() uint64 { return sunk.Load() }
