package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/vsabench/harness"
)

// SchemaVersion is the report format revision.
const SchemaVersion uint32 = 1

// RunMeta describes one benchmark session.
type RunMeta struct {
	SchemaVersion uint32  `json:"schema_version"`
	BenchVersion  string  `json:"bench_version"`
	Profile       string  `json:"profile"`
	Seed          uint64  `json:"seed"`
	TimestampUTC  string  `json:"timestamp_utc"`
	GitSHA        *string `json:"git_sha"`
	Host          *Host   `json:"host,omitempty"`
}

// NewRunMeta fills a RunMeta for the current process. The revision is
// looked up from the working directory.
func NewRunMeta(version string, cfg harness.Config) RunMeta {
	host := CurrentHost()
	return RunMeta{
		SchemaVersion: SchemaVersion,
		BenchVersion:  version,
		Profile:       cfg.Profile.String(),
		Seed:          cfg.Seed,
		TimestampUTC:  time.Now().UTC().Format(time.RFC3339),
		GitSHA:        GitSHA("."),
		Host:          &host,
	}
}

// Measurement is one named result.
type Measurement struct {
	Name                string         `json:"name"`
	Unit                string         `json:"unit"`
	Iters               uint64         `json:"iters"`
	WarmupIters         uint64         `json:"warmup_iters"`
	TotalNS             uint64         `json:"total_ns"`
	NSPerIter           float64        `json:"ns_per_iter"`
	BytesProcessed      *uint64        `json:"bytes_processed"`
	ThroughputBytesPerS *float64       `json:"throughput_bytes_per_s"`
	Extra               map[string]any `json:"extra"`
}

// FromMeasured converts harness output into a Measurement.
func FromMeasured(name, unit string, m harness.Measured, extra map[string]any) Measurement {
	if extra == nil {
		extra = map[string]any{}
	}
	return Measurement{
		Name:        name,
		Unit:        unit,
		Iters:       m.Iters,
		WarmupIters: m.WarmupIters,
		TotalNS:     m.TotalNS,
		NSPerIter:   m.NSPerIter,
		Extra:       extra,
	}
}

// WithBytes records n processed bytes and derives throughput from the total
// time. Throughput stays nil when no time was measured.
func (m Measurement) WithBytes(n uint64) Measurement {
	m.BytesProcessed = &n
	m.ThroughputBytesPerS = nil
	if m.TotalNS > 0 {
		tp := float64(n) / (float64(m.TotalNS) / 1e9)
		m.ThroughputBytesPerS = &tp
	}
	return m
}

// Report is the document written per run.
type Report struct {
	Run          RunMeta       `json:"run"`
	Measurements []Measurement `json:"measurements"`
}

// Add appends measurements.
func (r *Report) Add(ms ...Measurement) {
	r.Measurements = append(r.Measurements, ms...)
}

// Find returns the first measurement named name.
func (r Report) Find(name string) (Measurement, bool) {
	for _, m := range r.Measurements {
		if m.Name == name {
			return m, true
		}
	}
	return Measurement{}, false
}

// Write encodes rep as indented JSON followed by a newline.
func Write(w io.Writer, rep Report) error {
	if rep.Measurements == nil {
		rep.Measurements = []Measurement{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	return nil
}

// WriteFile writes rep to path, replacing any existing file.
func WriteFile(path string, rep Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, rep)
}

// Read decodes a report written by Write.
func Read(r io.Reader) (Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, fmt.Errorf("report: decode: %w", err)
	}
	return rep, nil
}
