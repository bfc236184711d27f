package dataset

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"os"

	"github.com/hupe1980/vsabench/sparse"
)

// Reader is a forward-only, resettable cursor over the records of a dataset.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	src    io.ReadSeeker
	closer io.Closer

	raw    *bufio.Reader // buffers src; used for sniffing and compressed input
	dec    decoder       // nil for plain files
	stream *bufio.Reader // logical (decompressed) byte stream

	compression Compression
	meta        Meta
	next        uint64

	scratch []byte
}

// Open opens a dataset file for streaming reads and validates its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header from rs, which must be positioned at the start
// of the dataset. Close on the returned Reader does not close rs.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	r := &Reader{
		src: rs,
		raw: bufio.NewReaderSize(rs, bufferSize),
	}

	r.compression = sniffCompression(r.raw)
	if r.compression == CompressionNone {
		r.stream = r.raw
	} else {
		dec, err := newDecoder(r.compression, r.raw)
		if err != nil {
			return nil, err
		}
		r.dec = dec
		r.stream = bufio.NewReaderSize(dec, bufferSize)
	}

	meta, err := ReadHeader(r.stream)
	if err != nil {
		r.release()
		return nil, err
	}
	r.meta = meta
	return r, nil
}

// Meta returns the header of the dataset.
func (r *Reader) Meta() Meta { return r.meta }

// Compression reports the frame the file was written with.
func (r *Reader) Compression() Compression { return r.compression }

// Position returns the index of the next vector Next will return.
func (r *Reader) Position() uint64 { return r.next }

// Remaining returns the number of vectors not yet read in this pass.
func (r *Reader) Remaining() uint64 { return r.meta.Count - r.next }

// Next returns the next vector, or io.EOF once Count vectors have been read.
// A file that ends before Count records fails with a *RecordError wrapping
// io.ErrUnexpectedEOF; an index list longer than the dimension fails with
// one wrapping ErrRecordLength.
func (r *Reader) Next() (sparse.Vec, error) {
	if r.next >= r.meta.Count {
		return sparse.Vec{}, io.EOF
	}

	v, err := readVector(r.stream, r.meta.Dimension, &r.scratch)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return sparse.Vec{}, &RecordError{Index: r.next, cause: err}
	}
	r.next++
	return v, nil
}

// ReadBatch returns up to n vectors. It returns an empty slice (and no
// error) once the dataset is exhausted.
func (r *Reader) ReadBatch(n int) ([]sparse.Vec, error) {
	want := min(uint64(max(n, 0)), r.Remaining())
	batch := make([]sparse.Vec, 0, want)
	for range want {
		v, err := r.Next()
		if err != nil {
			return batch, err
		}
		batch = append(batch, v)
	}
	return batch, nil
}

// Reset rewinds to the first record so the sequence can be read again.
func (r *Reader) Reset() error {
	if r.dec == nil {
		if _, err := r.src.Seek(HeaderSize, io.SeekStart); err != nil {
			return err
		}
		r.raw.Reset(r.src)
		r.next = 0
		return nil
	}

	// Compressed frames cannot be entered mid-stream: restart the decoder
	// from byte 0 and skip the header again.
	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r.raw.Reset(r.src)
	if err := r.dec.reset(r.raw); err != nil {
		return err
	}
	r.stream.Reset(r.dec)
	if _, err := r.stream.Discard(HeaderSize); err != nil {
		return err
	}
	r.next = 0
	return nil
}

// All returns an iterator over the remaining vectors of the current pass.
// Iteration stops after the first error, which is yielded once.
func (r *Reader) All() iter.Seq2[sparse.Vec, error] {
	return func(yield func(sparse.Vec, error) bool) {
		for {
			v, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the decoder and closes the file opened by Open.
func (r *Reader) Close() error {
	r.release()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *Reader) release() {
	if r.dec != nil {
		r.dec.close()
	}
}
