package dataset

import (
	"io"

	"github.com/hupe1980/vsabench/internal/hash"
	"github.com/hupe1980/vsabench/sparse"
)

// maxPrealloc caps the slice capacity Load derives from an untrusted header.
const maxPrealloc = 1 << 20

// ReadMeta reads only the header of the dataset at path.
func ReadMeta(path string) (Meta, error) {
	r, err := Open(path)
	if err != nil {
		return Meta{}, err
	}
	defer r.Close()
	return r.Meta(), nil
}

// Load reads the whole dataset into memory. Intended for datasets that fit
// comfortably in RAM; use Open for anything larger.
func Load(path string) (Meta, []sparse.Vec, error) {
	r, err := Open(path)
	if err != nil {
		return Meta{}, nil, err
	}
	defer r.Close()

	meta := r.Meta()
	vectors := make([]sparse.Vec, 0, min(meta.Count, maxPrealloc))
	for {
		v, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Meta{}, nil, err
		}
		vectors = append(vectors, v)
	}
	return meta, vectors, nil
}

// Checksum returns the CRC32C of the file at path as stored on disk.
func Checksum(path string) (uint32, error) {
	return hash.FileCRC32C(path)
}
