package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the gauges rendered for one report.
type metrics struct {
	registry   *prometheus.Registry
	info       *prometheus.GaugeVec
	nsPerIter  *prometheus.GaugeVec
	iters      *prometheus.GaugeVec
	throughput *prometheus.GaugeVec
	recall     *prometheus.GaugeVec
	qps        *prometheus.GaugeVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		info: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vsabench_run_info",
			Help: "Benchmark run metadata; value is always 1.",
		}, []string{"bench_version", "profile", "git_sha"}),
		nsPerIter: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vsabench_ns_per_iter",
			Help: "Mean nanoseconds per measured iteration.",
		}, []string{"name", "unit"}),
		iters: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vsabench_iterations",
			Help: "Measured iterations.",
		}, []string{"name"}),
		throughput: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vsabench_throughput_bytes_per_second",
			Help: "Bytes processed per second.",
		}, []string{"name"}),
		recall: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vsabench_recall_at_k",
			Help: "Recall@k of approximate against exact retrieval.",
		}, []string{"name"}),
		qps: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vsabench_queries_per_second",
			Help: "Queries per second over the measured pass.",
		}, []string{"name"}),
	}
}

func (m *metrics) observe(rep Report) {
	sha := ""
	if rep.Run.GitSHA != nil {
		sha = *rep.Run.GitSHA
	}
	m.info.WithLabelValues(rep.Run.BenchVersion, rep.Run.Profile, sha).Set(1)

	for _, ms := range rep.Measurements {
		m.nsPerIter.WithLabelValues(ms.Name, ms.Unit).Set(ms.NSPerIter)
		m.iters.WithLabelValues(ms.Name).Set(float64(ms.Iters))
		if ms.ThroughputBytesPerS != nil {
			m.throughput.WithLabelValues(ms.Name).Set(*ms.ThroughputBytesPerS)
		}
		if v, ok := number(ms.Extra["recall_at_k"]); ok {
			m.recall.WithLabelValues(ms.Name).Set(v)
		}
		if v, ok := number(ms.Extra["qps"]); ok {
			m.qps.WithLabelValues(ms.Name).Set(v)
		}
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Gatherer returns a registry holding the report's gauges.
func Gatherer(rep Report) prometheus.Gatherer {
	m := newMetrics()
	m.observe(rep)
	return m.registry
}

// WritePrometheus writes rep in the Prometheus text format to path, suitable
// for the node-exporter textfile collector.
func WritePrometheus(path string, rep Report) error {
	return prometheus.WriteToTextfile(path, Gatherer(rep))
}
