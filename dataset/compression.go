package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects an optional frame around the whole dataset stream.
type Compression uint8

const (
	// CompressionNone writes the plain format.
	CompressionNone Compression = 0
	// CompressionLZ4 wraps the stream in an lz4 frame (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD wraps the stream in a zstd frame (better ratio).
	CompressionZSTD Compression = 2
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Ext returns the conventional file suffix ("", ".lz4" or ".zst").
func (c Compression) Ext() string {
	switch c {
	case CompressionLZ4:
		return ".lz4"
	case CompressionZSTD:
		return ".zst"
	default:
		return ""
	}
}

// ParseCompression accepts none, lz4 and zstd (case-insensitive).
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "zst":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q (none|zstd|lz4)", s)
	}
}

// compressWriter wraps w according to c. The returned closer flushes the
// frame but does not close w.
func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZSTD:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("unsupported compression %v", c)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// sniffCompression peeks at the first bytes of br without consuming them.
func sniffCompression(br *bufio.Reader) Compression {
	head, _ := br.Peek(4)
	switch {
	case bytes.Equal(head, zstdMagic):
		return CompressionZSTD
	case bytes.Equal(head, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// decoder is a restartable decompressing reader.
type decoder interface {
	io.Reader
	reset(src io.Reader) error
	close()
}

func newDecoder(c Compression, src io.Reader) (decoder, error) {
	switch c {
	case CompressionLZ4:
		return &lz4Decoder{r: lz4.NewReader(src)}, nil
	case CompressionZSTD:
		d, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		return &zstdDecoder{d: d}, nil
	default:
		return nil, fmt.Errorf("unsupported compression %v", c)
	}
}

type lz4Decoder struct{ r *lz4.Reader }

func (d *lz4Decoder) Read(p []byte) (int, error) { return d.r.Read(p) }
func (d *lz4Decoder) reset(src io.Reader) error  { d.r.Reset(src); return nil }
func (d *lz4Decoder) close()                     {}

type zstdDecoder struct{ d *zstd.Decoder }

func (d *zstdDecoder) Read(p []byte) (int, error) { return d.d.Read(p) }
func (d *zstdDecoder) reset(src io.Reader) error  { return d.d.Reset(src) }
func (d *zstdDecoder) close()                     { d.d.Close() }
