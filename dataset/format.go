package dataset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic identifies the dataset format.
	Magic = "EMBR_DST"

	// FormatVersion is the only version this package reads and writes.
	FormatVersion uint32 = 1

	// HeaderSize is the fixed header length in bytes.
	HeaderSize = 8 + 4 + 8 + 8 + 8 + reservedSize

	reservedSize = 32
)

// Meta describes a dataset file without reading its body.
type Meta struct {
	Count     uint64 `json:"count"`
	Dimension uint64 `json:"dimension"`
	Seed      uint64 `json:"seed"`
}

// WriteHeader encodes the 68-byte header. Reserved bytes are zero.
func WriteHeader(w io.Writer, m Meta) error {
	var buf [HeaderSize]byte
	copy(buf[0:8], Magic)
	binary.LittleEndian.PutUint32(buf[8:12], FormatVersion)
	binary.LittleEndian.PutUint64(buf[12:20], m.Count)
	binary.LittleEndian.PutUint64(buf[20:28], m.Dimension)
	binary.LittleEndian.PutUint64(buf[28:36], m.Seed)
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader decodes and validates the header.
//
// A wrong magic or version fails before the remaining fields are parsed.
// Nonzero reserved bytes are ignored.
func ReadHeader(r io.Reader) (Meta, error) {
	var buf [HeaderSize]byte

	if _, err := io.ReadFull(r, buf[0:8]); err != nil {
		return Meta{}, &FormatError{Reason: "short header", cause: err}
	}
	if !bytes.Equal(buf[0:8], []byte(Magic)) {
		return Meta{}, &FormatError{Reason: fmt.Sprintf("bad magic %q, want %q", buf[0:8], Magic)}
	}

	if _, err := io.ReadFull(r, buf[8:12]); err != nil {
		return Meta{}, &FormatError{Reason: "short header", cause: err}
	}
	if v := binary.LittleEndian.Uint32(buf[8:12]); v != FormatVersion {
		return Meta{}, &FormatError{Reason: fmt.Sprintf("unsupported version %d", v)}
	}

	if _, err := io.ReadFull(r, buf[12:]); err != nil {
		return Meta{}, &FormatError{Reason: "short header", cause: err}
	}

	return Meta{
		Count:     binary.LittleEndian.Uint64(buf[12:20]),
		Dimension: binary.LittleEndian.Uint64(buf[20:28]),
		Seed:      binary.LittleEndian.Uint64(buf[28:36]),
	}, nil
}

// ExpectedFileSize returns the uncompressed size of a dataset whose vectors
// all carry sparsity indices per sign.
func ExpectedFileSize(count uint64, sparsity int) uint64 {
	perVector := uint64(4 + 4*sparsity + 4 + 4*sparsity)
	return HeaderSize + count*perVector
}

// FileName returns the canonical file name for a generated dataset,
// e.g. sparsevec_10k_10000_seed42.embr.
func FileName(count, dimension, seed uint64) string {
	return fmt.Sprintf("sparsevec_%s_%d_seed%d.embr", formatCount(count), dimension, seed)
}

func formatCount(n uint64) string {
	switch {
	case n >= 1_000_000 && n%1_000_000 == 0:
		return fmt.Sprintf("%dm", n/1_000_000)
	case n >= 1_000 && n%1_000 == 0:
		return fmt.Sprintf("%dk", n/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
