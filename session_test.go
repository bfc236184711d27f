package vsabench

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/report"
)

type mockBenchmark struct {
	mock.Mock
	name string
}

func (m *mockBenchmark) Name() string { return m.name }

func (m *mockBenchmark) Run(ctx context.Context, cfg harness.Config) ([]report.Measurement, error) {
	args := m.Called(ctx, cfg)
	ms, _ := args.Get(0).([]report.Measurement)
	return ms, args.Error(1)
}

func bench(name string, ms []report.Measurement, err error) *mockBenchmark {
	b := &mockBenchmark{name: name}
	b.On("Run", mock.Anything, mock.Anything).Return(ms, err)
	return b
}

func measurement(name string) report.Measurement {
	return report.FromMeasured(name, "ns/iter", harness.Measured{Iters: 1, TotalNS: 10, NSPerIter: 10}, nil)
}

var cfg = harness.Config{Profile: harness.Full, Seed: 7}

func TestSessionRun(t *testing.T) {
	a := bench("a", []report.Measurement{measurement("a.one"), measurement("a.two")}, nil)
	b := bench("b", []report.Measurement{measurement("b.one")}, nil)
	mc := &BasicMetricsCollector{}

	sess := NewSession(cfg, WithMetricsCollector(mc), WithVersion("9.9.9"))
	sess.Add(a, b)

	rep, err := sess.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "full", rep.Run.Profile)
	assert.Equal(t, uint64(7), rep.Run.Seed)
	assert.Equal(t, "9.9.9", rep.Run.BenchVersion)
	assert.Equal(t, report.SchemaVersion, rep.Run.SchemaVersion)
	require.Len(t, rep.Measurements, 3)
	assert.Equal(t, "b.one", rep.Measurements[2].Name)

	a.AssertCalled(t, "Run", mock.Anything, cfg)
	b.AssertCalled(t, "Run", mock.Anything, cfg)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.BenchmarkCount)
	assert.Equal(t, int64(3), stats.MeasurementCount)
	assert.Equal(t, int64(1), stats.SessionCount)
	assert.Zero(t, stats.SessionErrors)
}

func TestSessionStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := bench("a", []report.Measurement{measurement("a.one")}, nil)
	b := bench("b", nil, boom)
	c := bench("c", []report.Measurement{measurement("c.one")}, nil)
	mc := &BasicMetricsCollector{}

	rep, err := NewSession(cfg, WithMetricsCollector(mc)).Add(a, b, c).Run(context.Background())
	require.ErrorIs(t, err, boom)

	var be *BenchmarkError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "b", be.Name)
	assert.Equal(t, "benchmark b: boom", err.Error())

	require.Len(t, rep.Measurements, 1)
	c.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	assert.Equal(t, int64(1), mc.GetStats().BenchmarkErrors)
	assert.Equal(t, int64(1), mc.GetStats().SessionErrors)
}

func TestSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := bench("a", nil, nil)
	_, err := NewSession(cfg).Add(a).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	a.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestSessionEmpty(t *testing.T) {
	_, err := NewSession(cfg).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoBenchmarks)
}

func TestSessionSelect(t *testing.T) {
	sess := NewSession(cfg).Add(bench("vsa", nil, nil), bench("io", nil, nil), bench("retrieval", nil, nil))

	require.NoError(t, sess.Select("retrieval", "vsa"))
	assert.Equal(t, []string{"vsa", "retrieval"}, sess.Names())

	err := sess.Select("nope")
	assert.ErrorIs(t, err, ErrUnknownBenchmark)
	assert.Equal(t, []string{"vsa", "retrieval"}, sess.Names())
}

func TestSessionLogsMeasurements(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "json", slog.LevelInfo)

	_, err := NewSession(cfg, WithLogger(logger)).
		Add(bench("a", []report.Measurement{measurement("a.one")}, nil)).
		Run(context.Background())
	require.NoError(t, err)

	var found bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		if rec["msg"] == "benchmark completed" {
			found = true
			assert.Equal(t, "a", rec["bench"])
			assert.Equal(t, float64(1), rec["measurements"])
		}
	}
	assert.True(t, found)
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "text", slog.LevelDebug).
		WithBenchmark("io").WithCount(10).WithDimension(10_000).WithK(5)

	l.LogBatch(context.Background(), 4, 10)
	out := buf.String()
	for _, want := range []string{"bench=io", "count=10", "dimension=10000", "k=5", "written=4", "total=10"} {
		assert.Contains(t, out, want)
	}

	buf.Reset()
	l.LogUpload(context.Background(), "s3://b/k", 0, errors.New("denied"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "upload failed")

	buf.Reset()
	l.LogGenerate(context.Background(), "x.embr", 10, 100, time.Second, nil)
	assert.Contains(t, buf.String(), "dataset generated")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestBasicMetricsCollectorAverage(t *testing.T) {
	mc := &BasicMetricsCollector{}
	assert.Zero(t, mc.GetStats().BenchAvgNanos)

	mc.RecordBenchmark("a", 1, 10*time.Nanosecond, nil)
	mc.RecordBenchmark("b", 2, 30*time.Nanosecond, nil)
	assert.Equal(t, int64(20), mc.GetStats().BenchAvgNanos)
}
