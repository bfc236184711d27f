package vsabench

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	version          string
	gitDir           string
}

// Option configures a Session.
type Option func(*options)

// WithLogger sets the session logger. Nil disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the collector notified after every benchmark.
//
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithVersion overrides the bench version recorded in the report.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithGitDir sets the directory whose repository revision is recorded.
// Defaults to the working directory.
func WithGitDir(dir string) Option {
	return func(o *options) {
		o.gitDir = dir
	}
}
