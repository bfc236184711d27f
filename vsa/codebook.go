package vsa

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vsabench/sparse"
)

// Chunk is one encoded slice of an ingested file.
type Chunk struct {
	ID     uint64
	Path   string
	Offset int64
	Len    int
	Vec    sparse.Vec
}

// Codebook holds ingested chunks. Chunk ids equal their position.
type Codebook struct {
	chunks []Chunk
	files  int
	bytes  uint64
}

// NewCodebook wraps pre-encoded vectors, e.g. a generated dataset, as a
// codebook. Every chunk is attributed to name with its position as offset.
func NewCodebook(name string, vecs []sparse.Vec) *Codebook {
	cb := &Codebook{chunks: make([]Chunk, 0, len(vecs))}
	offsets := make([]int64, len(vecs))
	for i := range offsets {
		offsets[i] = int64(i)
	}
	cb.add(name, offsets, make([]int, len(vecs)), vecs)
	return cb
}

// Len returns the number of chunks.
func (c *Codebook) Len() int { return len(c.chunks) }

// Files returns the number of ingested files.
func (c *Codebook) Files() int { return c.files }

// Bytes returns the number of ingested bytes.
func (c *Codebook) Bytes() uint64 { return c.bytes }

// Chunk returns chunk i.
func (c *Codebook) Chunk(i int) Chunk { return c.chunks[i] }

// Vector returns the vector of chunk i.
func (c *Codebook) Vector(i int) sparse.Vec { return c.chunks[i].Vec }

// ID returns the id of chunk i.
func (c *Codebook) ID(i int) uint64 { return c.chunks[i].ID }

// Vectors returns the chunk vectors in id order.
func (c *Codebook) Vectors() []sparse.Vec {
	out := make([]sparse.Vec, len(c.chunks))
	for i, ch := range c.chunks {
		out[i] = ch.Vec
	}
	return out
}

// Index builds an inverted index over every chunk.
func (c *Codebook) Index() *InvertedIndex {
	idx := NewInvertedIndex()
	for _, ch := range c.chunks {
		idx.Add(ch.ID, ch.Vec)
	}
	return idx
}

func (c *Codebook) add(path string, offsets []int64, lens []int, vecs []sparse.Vec) {
	for i, v := range vecs {
		c.chunks = append(c.chunks, Chunk{
			ID:     uint64(len(c.chunks)),
			Path:   path,
			Offset: offsets[i],
			Len:    lens[i],
			Vec:    v,
		})
	}
}

// IngestDir walks dir in lexical order and encodes every regular file in
// chunks. Logical paths are slash-separated and relative to dir.
func (e *Engine) IngestDir(ctx context.Context, dir string) (*Codebook, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)

	cb := &Codebook{}
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			return nil, err
		}
		if err := e.IngestFile(ctx, cb, f, filepath.ToSlash(rel)); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("ingested directory",
		"dir", dir,
		"files", cb.files,
		"chunks", cb.Len(),
		"bytes", cb.bytes,
	)
	return cb, nil
}

// IngestPaths ingests a mix of files and directories into one codebook.
// Directories are prefixed with their base name, files use their base name.
func (e *Engine) IngestPaths(ctx context.Context, paths ...string) (*Codebook, error) {
	cb := &Codebook{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := e.IngestFile(ctx, cb, p, filepath.Base(p)); err != nil {
				return nil, err
			}
			continue
		}
		sub, err := e.IngestDir(ctx, p)
		if err != nil {
			return nil, err
		}
		prefix := filepath.Base(p)
		for _, ch := range sub.chunks {
			ch.ID = uint64(len(cb.chunks))
			ch.Path = strings.TrimSuffix(prefix+"/"+ch.Path, "/")
			cb.chunks = append(cb.chunks, ch)
		}
		cb.files += sub.files
		cb.bytes += sub.bytes
	}
	return cb, nil
}

// IngestFile encodes the file at path under the given logical name and
// appends its chunks to cb. Chunks are encoded in parallel.
func (e *Engine) IngestFile(ctx context.Context, cb *Codebook, path, logical string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	n := (len(data) + e.chunkSize - 1) / e.chunkSize
	offsets := make([]int64, n)
	lens := make([]int, n)
	vecs := make([]sparse.Vec, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers())
	for i := range n {
		lo := i * e.chunkSize
		hi := min(lo+e.chunkSize, len(data))
		offsets[i] = int64(lo)
		lens[i] = hi - lo
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vecs[i] = e.Encode(data[lo:hi], logical)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cb.add(logical, offsets, lens, vecs)
	cb.files++
	cb.bytes += uint64(len(data))
	return nil
}
