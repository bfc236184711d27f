package dataset

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/vsabench/sparse"
)

const (
	// DefaultBatchSize bounds the vectors held in memory by the streaming writer.
	DefaultBatchSize = 4096

	bufferSize = 64 * 1024
)

type writerOptions struct {
	compression Compression
	logger      *slog.Logger
	progress    func(written uint64)
}

// WriterOption configures WriteDataset and WriteDatasetStreaming.
type WriterOption func(*writerOptions)

// WithCompression wraps the output in a zstd or lz4 frame.
func WithCompression(c Compression) WriterOption {
	return func(o *writerOptions) {
		o.compression = c
	}
}

// WithLogger enables per-batch debug logging.
func WithLogger(l *slog.Logger) WriterOption {
	return func(o *writerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress registers a callback invoked after each written batch with
// the number of vectors written so far.
func WithProgress(fn func(written uint64)) WriterOption {
	return func(o *writerOptions) {
		o.progress = fn
	}
}

func newWriterOptions(opts []WriterOption) writerOptions {
	o := writerOptions{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// encoder is the byte sink shared by both writers: file -> bufio -> frame.
type encoder struct {
	file  *os.File
	buf   *bufio.Writer
	frame io.WriteCloser
}

func createEncoder(path string, c Compression) (*encoder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriterSize(f, bufferSize)
	frame, err := compressWriter(buf, c)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &encoder{file: f, buf: buf, frame: frame}, nil
}

func (e *encoder) Write(p []byte) (int, error) { return e.frame.Write(p) }

// finish flushes every layer and closes the file.
func (e *encoder) finish() error {
	if err := e.frame.Close(); err != nil {
		_ = e.file.Close()
		return err
	}
	if err := e.buf.Flush(); err != nil {
		_ = e.file.Close()
		return err
	}
	return e.file.Close()
}

// abort closes the file after a failure. The partial file is left in place.
func (e *encoder) abort() {
	_ = e.file.Close()
}

// WriteDataset writes vectors to path. The header count is len(vectors);
// dimension and seed come from cfg.
func WriteDataset(path string, vectors []sparse.Vec, cfg GenerateConfig, opts ...WriterOption) error {
	o := newWriterOptions(opts)

	enc, err := createEncoder(path, o.compression)
	if err != nil {
		return err
	}

	meta := Meta{Count: uint64(len(vectors)), Dimension: uint64(cfg.Dimension), Seed: cfg.Seed}
	if err := WriteHeader(enc, meta); err != nil {
		enc.abort()
		return err
	}
	for _, v := range vectors {
		if err := WriteVector(enc, v); err != nil {
			enc.abort()
			return err
		}
	}
	return enc.finish()
}

// WriteDatasetStreaming generates and writes the dataset batch by batch, so
// at most batchSize vectors are resident at once. batchSize < 1 is treated
// as 1. The result is byte-identical to WriteDataset(path, Generate(cfg), cfg).
//
// On failure the partially written file is left behind; callers that need
// atomicity should write to a temporary name and rename.
func WriteDatasetStreaming(ctx context.Context, path string, cfg GenerateConfig, batchSize int, opts ...WriterOption) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	o := newWriterOptions(opts)
	batch := uint64(max(batchSize, 1))

	enc, err := createEncoder(path, o.compression)
	if err != nil {
		return err
	}

	if err := WriteHeader(enc, cfg.Meta()); err != nil {
		enc.abort()
		return err
	}

	for start := uint64(0); start < cfg.Count; start += batch {
		end := min(start+batch, cfg.Count)

		vecs, err := GenerateRange(ctx, cfg, start, end)
		if err != nil {
			enc.abort()
			return err
		}
		for _, v := range vecs {
			if err := WriteVector(enc, v); err != nil {
				enc.abort()
				return err
			}
		}

		o.logger.Debug("dataset batch written", "start", start, "end", end, "count", cfg.Count)
		if o.progress != nil {
			o.progress(end)
		}
	}

	return enc.finish()
}
