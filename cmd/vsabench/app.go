package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hupe1980/vsabench"
	"github.com/hupe1980/vsabench/blobstore"
	"github.com/hupe1980/vsabench/blobstore/minio"
	"github.com/hupe1980/vsabench/blobstore/s3"
	"github.com/hupe1980/vsabench/config"
	"github.com/hupe1980/vsabench/report"
	"github.com/hupe1980/vsabench/vsa"
)

// app carries the resolved configuration into every command.
type app struct {
	version string
	cfg     *config.Config
	logger  *vsabench.Logger
	// only restricts a session to the named benchmarks.
	only []string
}

// load reads --config (or the defaults), applies explicitly set global
// flags over it and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	cfg := config.Default()
	if p, _ := flags.GetString("config"); p != "" {
		var err error
		if cfg, err = config.Load(p); err != nil {
			return err
		}
	}

	setString(flags, "profile", &cfg.Profile)
	setString(flags, "out", &cfg.Out)
	setString(flags, "metrics-file", &cfg.MetricsFile)
	setString(flags, "log-level", &cfg.LogLevel)
	setString(flags, "log-format", &cfg.LogFormat)
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = vsabench.NewWriterLogger(cmd.ErrOrStderr(), cfg.LogFormat, level)
	return nil
}

func setString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func (a *app) engine() *vsa.Engine {
	return vsa.New(vsa.WithLogger(a.logger.Logger))
}

// run executes the benchmarks as one session and writes the report.
func (a *app) run(cmd *cobra.Command, benches ...vsabench.Benchmark) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	hc, err := a.cfg.HarnessConfig()
	if err != nil {
		return err
	}

	sess := vsabench.NewSession(hc,
		vsabench.WithLogger(a.logger),
		vsabench.WithVersion(a.version),
	)
	sess.Add(benches...)
	if len(a.only) > 0 {
		if err := sess.Select(a.only...); err != nil {
			return err
		}
	}

	rep, err := sess.Run(cmd.Context())
	if err != nil {
		return err
	}
	return a.writeReport(cmd.OutOrStdout(), rep)
}

func (a *app) writeReport(stdout io.Writer, rep report.Report) error {
	if a.cfg.Out != "" {
		if err := report.WriteFile(a.cfg.Out, rep); err != nil {
			return err
		}
		a.logger.Info("report written", "path", a.cfg.Out, "measurements", len(rep.Measurements))
	} else if err := report.Write(stdout, rep); err != nil {
		return err
	}

	if a.cfg.MetricsFile != "" {
		if err := report.WritePrometheus(a.cfg.MetricsFile, rep); err != nil {
			return err
		}
		a.logger.Info("metrics written", "path", a.cfg.MetricsFile)
	}
	return nil
}

// store opens the object store addressed by loc and returns it with the
// object name inside it.
func (a *app) store(ctx context.Context, loc blobstore.Location) (blobstore.BlobStore, string, error) {
	st := a.cfg.Storage
	switch loc.Scheme {
	case blobstore.SchemeS3:
		var opts []s3.Option
		if st.S3Region != "" {
			opts = append(opts, s3.WithRegion(st.S3Region))
		}
		if st.S3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(st.S3Endpoint))
		}
		s, err := s3.New(ctx, loc.Bucket, opts...)
		return s, loc.Key, err
	case blobstore.SchemeMinio:
		s, err := minio.Dial(loc.Endpoint, st.MinioAccessKey, st.MinioSecretKey, st.MinioSecure, loc.Bucket, "")
		if err != nil {
			return nil, "", err
		}
		return s, loc.Key, s.EnsureBucket(ctx)
	case blobstore.SchemeFile:
		return blobstore.NewLocalStore(path.Dir(loc.Key)), path.Base(loc.Key), nil
	default:
		return nil, "", fmt.Errorf("%w: %s", blobstore.ErrInvalidURL, loc)
	}
}

// printer formats human-facing summaries with digit grouping.
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

func mb(n int64) float64 { return float64(n) / (1 << 20) }

func fileSize(p string) (int64, error) {
	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
