package vsabench

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/report"
)

// Benchmark is one named group of measurements.
type Benchmark interface {
	Name() string
	Run(ctx context.Context, cfg harness.Config) ([]report.Measurement, error)
}

// Session runs benchmarks in order and collects their measurements into a
// single report. The first failing benchmark aborts the session.
type Session struct {
	cfg     harness.Config
	benches []Benchmark
	opts    options
}

// NewSession creates a session measuring under cfg.
func NewSession(cfg harness.Config, opts ...Option) *Session {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		version:          Version,
		gitDir:           ".",
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &Session{cfg: cfg, opts: o}
}

// Add appends benchmarks.
func (s *Session) Add(b ...Benchmark) *Session {
	s.benches = append(s.benches, b...)
	return s
}

// Names returns the benchmark names in run order.
func (s *Session) Names() []string {
	names := make([]string, len(s.benches))
	for i, b := range s.benches {
		names[i] = b.Name()
	}
	return names
}

// Select keeps only the named benchmarks, in session order.
func (s *Session) Select(names ...string) error {
	known := s.Names()
	for _, n := range names {
		if !slices.Contains(known, n) {
			return fmt.Errorf("%w: %s (have %v)", ErrUnknownBenchmark, n, known)
		}
	}
	s.benches = slices.DeleteFunc(s.benches, func(b Benchmark) bool {
		return !slices.Contains(names, b.Name())
	})
	return nil
}

// Run executes every benchmark. On failure the returned report holds the
// measurements of the benchmarks that completed and the error is a
// *BenchmarkError.
func (s *Session) Run(ctx context.Context) (report.Report, error) {
	rep := report.Report{Run: s.runMeta()}
	if len(s.benches) == 0 {
		return rep, ErrNoBenchmarks
	}

	log := s.opts.logger
	log.InfoContext(ctx, "session started",
		"profile", s.cfg.Profile.String(),
		"seed", s.cfg.Seed,
		"benchmarks", len(s.benches),
	)

	start := time.Now()
	var err error
	for _, b := range s.benches {
		if err = ctx.Err(); err != nil {
			err = &BenchmarkError{Name: b.Name(), cause: err}
			break
		}

		t := time.Now()
		ms, rerr := b.Run(ctx, s.cfg)
		elapsed := time.Since(t)

		log.LogMeasurement(ctx, b.Name(), len(ms), elapsed, rerr)
		s.opts.metricsCollector.RecordBenchmark(b.Name(), len(ms), elapsed, rerr)
		if rerr != nil {
			err = &BenchmarkError{Name: b.Name(), cause: rerr}
			break
		}
		rep.Add(ms...)
	}

	s.opts.metricsCollector.RecordSession(len(s.benches), time.Since(start), err)
	return rep, err
}

func (s *Session) runMeta() report.RunMeta {
	meta := report.NewRunMeta(s.opts.version, s.cfg)
	if s.opts.gitDir != "." {
		meta.GitSHA = report.GitSHA(s.opts.gitDir)
	}
	return meta
}
