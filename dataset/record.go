package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/vsabench/sparse"
)

// WriteVector encodes one record. Index lists longer than 2^32-1 entries
// cannot be represented.
func WriteVector(w io.Writer, v sparse.Vec) error {
	if uint64(len(v.Pos)) > math.MaxUint32 || uint64(len(v.Neg)) > math.MaxUint32 {
		return fmt.Errorf("vector has %d/%d indices, exceeds u32 length prefix", len(v.Pos), len(v.Neg))
	}

	buf := make([]byte, 0, 8+4*v.Nnz())
	buf = appendIndices(buf, v.Pos)
	buf = appendIndices(buf, v.Neg)
	_, err := w.Write(buf)
	return err
}

func appendIndices(buf []byte, idx []uint32) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(idx)))
	for _, x := range idx {
		buf = binary.LittleEndian.AppendUint32(buf, x)
	}
	return buf
}

// readChunk is the number of indices decoded per read.
const readChunk = 4096

// ReadVector decodes one record. A record cut short anywhere after its
// first byte yields io.ErrUnexpectedEOF; a clean end of stream yields io.EOF.
func ReadVector(r io.Reader) (sparse.Vec, error) {
	var scratch []byte
	return readVector(r, math.MaxUint32, &scratch)
}

// readVector is ReadVector with each index list capped at maxLen entries.
func readVector(r io.Reader, maxLen uint64, scratch *[]byte) (sparse.Vec, error) {
	pos, err := readIndices(r, scratch, maxLen)
	if err != nil {
		return sparse.Vec{}, err
	}
	neg, err := readIndices(r, scratch, maxLen)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return sparse.Vec{}, err
	}
	return sparse.Vec{Pos: pos, Neg: neg}, nil
}

func readIndices(r io.Reader, scratch *[]byte, maxLen uint64) ([]uint32, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := uint64(binary.LittleEndian.Uint32(lenBuf[:]))
	if n > maxLen {
		return nil, fmt.Errorf("%w: %d indices, limit %d", ErrRecordLength, n, maxLen)
	}

	out := make([]uint32, 0, min(n, readChunk))
	for left := n; left > 0; {
		c := min(left, readChunk)
		if uint64(cap(*scratch)) < 4*c {
			*scratch = make([]byte, 4*c)
		}
		b := (*scratch)[:4*c]
		if _, err := io.ReadFull(r, b); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		for i := range c {
			out = append(out, binary.LittleEndian.Uint32(b[i*4:]))
		}
		left -= c
	}
	return out, nil
}
