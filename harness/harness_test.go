package harness

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureNormalisation(t *testing.T) {
	calls := 0
	m := Measure(10, 5, func() int {
		calls++
		return calls
	})

	assert.Equal(t, 15, calls)
	assert.Equal(t, uint64(10), m.Iters)
	assert.Equal(t, uint64(5), m.WarmupIters)
	assert.Equal(t, float64(m.TotalNS)/10, m.NSPerIter)
}

func TestMeasureZeroIters(t *testing.T) {
	calls := 0
	m := Measure(0, 3, func() struct{} {
		calls++
		return struct{}{}
	})

	assert.Equal(t, 3, calls)
	assert.Equal(t, uint64(0), m.Iters)
	// Denominator is max(iters, 1).
	assert.Equal(t, float64(m.TotalNS), m.NSPerIter)
}

func TestMeasureTimesOnlyMeasuredIterations(t *testing.T) {
	warm := true
	m := Measure(2, 1, func() bool {
		if !warm {
			time.Sleep(2 * time.Millisecond)
		}
		warm = false
		return warm
	})
	assert.GreaterOrEqual(t, m.Total(), 4*time.Millisecond)
	assert.Greater(t, m.OpsPerSecond(), 0.0)
}

func TestMeasureErr(t *testing.T) {
	boom := errors.New("boom")
	n := 0
	_, err := MeasureErr(10, 2, func() (int, error) {
		n++
		if n == 4 {
			return 0, boom
		}
		return n, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, n)

	m, err := MeasureErr(3, 1, func() (int, error) { return 1, nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(3), m.Iters)
	assert.Equal(t, uint64(1), m.WarmupIters)
}

func TestSinkCounts(t *testing.T) {
	before := Sunk()
	Measure(7, 3, func() int { return 1 })
	assert.GreaterOrEqual(t, Sunk()-before, uint64(10))
}

func TestSpan(t *testing.T) {
	s := Start()
	time.Sleep(time.Millisecond)
	m := s.Stop(4)
	assert.Equal(t, uint64(4), m.Iters)
	assert.Equal(t, uint64(0), m.WarmupIters)
	assert.Equal(t, float64(m.TotalNS)/4, m.NSPerIter)
}

func TestProfiles(t *testing.T) {
	quick := Config{Profile: Quick}
	full := Config{Profile: Full}

	assert.Equal(t, uint64(32), quick.WarmupIters())
	assert.Equal(t, uint64(300), quick.Iters())
	assert.Equal(t, uint64(200), full.WarmupIters())
	assert.Equal(t, uint64(3000), full.Iters())
	assert.Equal(t, uint64(1), quick.Pick(1, 2))
	assert.Equal(t, uint64(2), full.Pick(1, 2))
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile("FULL")
	require.NoError(t, err)
	assert.Equal(t, Full, p)
	assert.Equal(t, "full", p.String())

	var q Profile
	require.NoError(t, q.UnmarshalText([]byte("quick")))
	assert.Equal(t, Quick, q)

	_, err = ParseProfile("slow")
	assert.Error(t, err)
}

func TestRNGIsReproducible(t *testing.T) {
	cfg := Config{Seed: 99}
	a, b := cfg.RNG(), cfg.RNG()
	for range 10 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}
